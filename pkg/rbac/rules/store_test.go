// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelops/statedb/pkg/rbac/eval"
)

func mustCtx(t *testing.T, raw string) *eval.Context {
	t.Helper()

	ctx, err := eval.NewContext([]byte(raw))
	require.NoError(t, err)
	return ctx
}

func TestStoreSetPolicies(t *testing.T) {
	p1 := &Policy{Name: "10-base.policy", Source: PolicyProviderTypeDir}
	p1.AddRole(&RoleDefinition{ID: "admin", Rule: map[string]interface{}{"MATCH": map[string]interface{}{"name": "admin"}}})
	p1.AddRole(&RoleDefinition{ID: "ops", Rule: map[string]interface{}{"MATCH": map[string]interface{}{"team": "ops"}}})

	p2 := &Policy{Name: "20-extra.policy", Source: PolicyProviderTypeDir}
	p2.AddRole(&RoleDefinition{ID: "ops", Rule: map[string]interface{}{"MATCH": map[string]interface{}{"team": "override"}}})
	p2.AddRole(&RoleDefinition{ID: "broken", Rule: map[string]interface{}{"AND": "scalar"}})

	store := NewStore()
	assert.Equal(t, uint64(0), store.Generation())
	assert.Equal(t, 0, store.RoleCount())

	errs := store.SetPolicies([]*Policy{p1, p2})
	require.Error(t, errs.ErrorOrNil())
	assert.ErrorIs(t, errs.ErrorOrNil(), ErrDefinitionIDConflict)

	var operandErr *eval.ErrInvalidOperand
	assert.ErrorAs(t, errs.ErrorOrNil(), &operandErr)

	assert.Equal(t, 2, store.RoleCount())
	assert.Equal(t, uint64(1), store.Generation())

	// the first definition of a conflicting ID wins
	role, ok := store.GetRole("ops")
	require.True(t, ok)
	assert.Equal(t, "10-base.policy", role.Policy.Name)
	assert.True(t, role.Matches(mustCtx(t, `{"team": "ops"}`)))
	assert.False(t, role.Matches(mustCtx(t, `{"team": "other"}`)))

	_, ok = store.GetRole("broken")
	assert.False(t, ok)

	roles := store.Roles()
	require.Len(t, roles, 2)
	assert.Equal(t, "admin", roles[0].Def.ID)
	assert.Equal(t, "ops", roles[1].Def.ID)

	errs = store.SetPolicies([]*Policy{p1})
	require.NoError(t, errs.ErrorOrNil())
	assert.Equal(t, 2, store.RoleCount())
	assert.Equal(t, uint64(2), store.Generation())

	policies := store.Policies()
	require.Len(t, policies, 1)
	assert.Equal(t, "10-base.policy", policies[0].Name)
}

func TestStoreListRoleDefinitionsCopies(t *testing.T) {
	p := &Policy{Name: "p.policy", Source: PolicyProviderTypeFile}
	p.AddRole(&RoleDefinition{ID: "admin", Rule: map[string]interface{}{"MATCH": map[string]interface{}{"name": "admin"}}})

	store := NewStore()
	require.NoError(t, store.SetPolicies([]*Policy{p}).ErrorOrNil())

	defs := store.ListRoleDefinitions()
	require.Len(t, defs, 1)
	defs[0].Rule["MATCH"] = "tampered"

	role, ok := store.GetRole("admin")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"name": "admin"}, role.Def.Rule["MATCH"])
}

func TestRoleGetTag(t *testing.T) {
	def := &RoleDefinition{
		ID:   "tagged",
		Rule: map[string]interface{}{"MATCH": map[string]interface{}{"name": "x"}},
		Tags: map[string]string{"origin": "ldap"},
	}

	value, ok := def.GetTag("origin")
	assert.True(t, ok)
	assert.Equal(t, "ldap", value)

	_, ok = def.GetTag("missing")
	assert.False(t, ok)
}
