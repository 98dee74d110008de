// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelops/statedb/pkg/rbac/eval"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
)

func testingPolicies() []*rules.PolicyDefinition {
	return []*rules.PolicyDefinition{
		{Actions: []string{"syscheck:put", "syscheck:get", "syscheck:delete"}, Resources: []string{"agent:id:*"}, Effect: rules.EffectAllow},
		{Actions: []string{"lists:get"}, Resources: []string{"list:path:*"}, Effect: rules.EffectAllow},
		{Actions: []string{"active_response:command"}, Resources: []string{"agent:id:001"}, Effect: rules.EffectAllow},
		{Actions: []string{"active_response:command"}, Resources: []string{"agent:id:001", "agent:id:002"}, Effect: rules.EffectDeny},
		{Actions: []string{"active_response:command"}, Resources: []string{"agent:id:001", "agent:id:002", "agent:id:004"}, Effect: rules.EffectDeny},
		{Actions: []string{"active_response:command"}, Resources: []string{"agent:id:001", "agent:id:002"}, Effect: rules.EffectDeny},
		{Actions: []string{"active_response:command"}, Resources: []string{"agent:group:default"}, Effect: rules.EffectAllow},
		{Actions: []string{"active_response:command"}, Resources: []string{"agent:group:group1"}, Effect: rules.EffectDeny},
		{Actions: []string{"agent:delete"}, Resources: []string{"agent:id:*"}, Effect: rules.EffectAllow},
		{Actions: []string{"agent:delete"}, Resources: []string{"agent:id:099"}, Effect: rules.EffectAllow},
		{Actions: []string{"agent:delete"}, Resources: []string{"agent:id:003"}, Effect: rules.EffectDeny},
		{Actions: []string{"agent:delete"}, Resources: []string{"agent:group:group1"}, Effect: rules.EffectDeny},
		{Actions: []string{"agent:delete"}, Resources: []string{"agent:group:group2"}, Effect: rules.EffectAllow},
		{Actions: []string{"agent:delete"}, Resources: []string{"agent:id:004"}, Effect: rules.EffectAllow},
		{Actions: []string{"agent:read"}, Resources: []string{"agent:id:*"}, Effect: rules.EffectAllow},
		{Actions: []string{"agent:read"}, Resources: []string{"agent:id:003"}, Effect: rules.EffectDeny},
		{Actions: []string{"agent:read"}, Resources: []string{"agent:id:099"}, Effect: rules.EffectAllow},
		{Actions: []string{"agent:read"}, Resources: []string{"agent:group:group2"}, Effect: rules.EffectDeny},
		{Actions: []string{"agent:read"}, Resources: []string{"agent:group:group1"}, Effect: rules.EffectAllow},
	}
}

func newTestResolver(t *testing.T, mode Mode) *Resolver {
	t.Helper()

	policy := &rules.Policy{Name: "test.policy", Source: rules.PolicyProviderTypeFile}
	policy.AddRole(&rules.RoleDefinition{
		ID:       "responders",
		Rule:     map[string]interface{}{"MATCH": map[string]interface{}{"team": "response"}},
		Policies: testingPolicies(),
	})

	store := rules.NewStore()
	require.NoError(t, store.SetPolicies([]*rules.Policy{policy}).ErrorOrNil())

	return NewResolver(store, mode)
}

func testCtx(t *testing.T, raw string) *eval.Context {
	t.Helper()

	ctx, err := eval.NewContext([]byte(raw))
	require.NoError(t, err)
	return ctx
}

func TestResolveDecisions(t *testing.T) {
	resolver := newTestResolver(t, ModeWhitelist)
	ctx := testCtx(t, `{"team": "response"}`)

	entries := []struct {
		action   string
		resource string
		decision Decision
	}{
		{"syscheck:get", "agent:id:005", Allow},
		{"lists:get", "list:path:etc/lists/audit-keys", Allow},
		{"active_response:command", "agent:id:001", Deny},
		{"active_response:command", "agent:id:002", Deny},
		{"active_response:command", "agent:group:default", Allow},
		{"active_response:command", "agent:group:group1", Deny},
		{"agent:delete", "agent:id:003", Deny},
		{"agent:delete", "agent:id:099", Allow},
		{"agent:delete", "agent:group:group2", Allow},
		{"agent:read", "agent:id:003", Deny},
		{"agent:read", "agent:id:007", Allow},
		{"cluster:read", "cluster:node:master", Deny},
	}

	for _, entry := range entries {
		t.Run(entry.action+" "+entry.resource, func(t *testing.T) {
			result := resolver.Resolve(Request{Context: ctx, Action: entry.action, Resource: entry.resource})
			assert.Equal(t, entry.decision, result.Decision)
			assert.Equal(t, []rules.RoleID{"responders"}, result.Roles)
		})
	}
}

func TestResolveDefaultDecision(t *testing.T) {
	ctx := testCtx(t, `{"team": "response"}`)
	req := Request{Context: ctx, Action: "cluster:read", Resource: "cluster:node:master"}

	white := newTestResolver(t, ModeWhitelist)
	assert.Equal(t, Deny, white.Resolve(req).Decision)

	black := newTestResolver(t, ModeBlacklist)
	assert.Equal(t, Allow, black.Resolve(req).Decision)
}

func TestResolveNoMatchingRole(t *testing.T) {
	resolver := newTestResolver(t, ModeWhitelist)
	ctx := testCtx(t, `{"team": "unrelated"}`)

	result := resolver.Resolve(Request{Context: ctx, Action: "agent:read", Resource: "agent:id:001"})
	assert.Equal(t, Deny, result.Decision)
	assert.Empty(t, result.Roles)
}

func TestResolveDenyWinsAcrossRoles(t *testing.T) {
	policy := &rules.Policy{Name: "split.policy", Source: rules.PolicyProviderTypeFile}
	policy.AddRole(&rules.RoleDefinition{
		ID:   "reader",
		Rule: map[string]interface{}{"MATCH": map[string]interface{}{"name": "admin"}},
		Policies: []*rules.PolicyDefinition{
			{Actions: []string{"agent:read"}, Resources: []string{"agent:id:*"}, Effect: rules.EffectAllow},
		},
	})
	policy.AddRole(&rules.RoleDefinition{
		ID:   "restricted",
		Rule: map[string]interface{}{"MATCH": map[string]interface{}{"name": "admin"}},
		Policies: []*rules.PolicyDefinition{
			{Actions: []string{"agent:read"}, Resources: []string{"agent:id:001"}, Effect: rules.EffectDeny},
		},
	})

	store := rules.NewStore()
	require.NoError(t, store.SetPolicies([]*rules.Policy{policy}).ErrorOrNil())
	resolver := NewResolver(store, ModeWhitelist)

	ctx := testCtx(t, `{"name": "admin"}`)

	result := resolver.Resolve(Request{Context: ctx, Action: "agent:read", Resource: "agent:id:001"})
	assert.Equal(t, Deny, result.Decision)
	assert.Equal(t, []rules.RoleID{"reader", "restricted"}, result.Roles)

	result = resolver.Resolve(Request{Context: ctx, Action: "agent:read", Resource: "agent:id:002"})
	assert.Equal(t, Allow, result.Decision)
}

func TestResolveDecidingPolicy(t *testing.T) {
	resolver := newTestResolver(t, ModeWhitelist)
	ctx := testCtx(t, `{"team": "response"}`)

	result := resolver.Resolve(Request{Context: ctx, Action: "agent:delete", Resource: "agent:id:099"})
	require.NotNil(t, result.Policy)
	assert.Equal(t, rules.EffectAllow, result.Policy.Effect)
	assert.Contains(t, result.Policy.Actions, "agent:delete")

	result = resolver.Resolve(Request{Context: ctx, Action: "agent:delete", Resource: "agent:id:003"})
	require.NotNil(t, result.Policy)
	assert.Equal(t, rules.EffectDeny, result.Policy.Effect)
	assert.Contains(t, result.Policy.Resources, "agent:id:003")

	// nothing covers the request, the default decision carries no policy
	result = resolver.Resolve(Request{Context: ctx, Action: "cluster:read", Resource: "cluster:node:master"})
	assert.Nil(t, result.Policy)
}

func TestWildcardStopsAtSegment(t *testing.T) {
	policy := &rules.Policy{Name: "glob.policy", Source: rules.PolicyProviderTypeFile}
	policy.AddRole(&rules.RoleDefinition{
		ID:   "globber",
		Rule: map[string]interface{}{"MATCH": map[string]interface{}{"name": "admin"}},
		Policies: []*rules.PolicyDefinition{
			{Actions: []string{"agent:*"}, Resources: []string{"agent:*"}, Effect: rules.EffectAllow},
		},
	})

	store := rules.NewStore()
	require.NoError(t, store.SetPolicies([]*rules.Policy{policy}).ErrorOrNil())
	resolver := NewResolver(store, ModeWhitelist)

	ctx := testCtx(t, `{"name": "admin"}`)

	// the action wildcard covers the second action segment
	result := resolver.Resolve(Request{Context: ctx, Action: "agent:read", Resource: "agent:all"})
	assert.Equal(t, Allow, result.Decision)

	// but a wildcard does not swallow a `:` resource separator
	result = resolver.Resolve(Request{Context: ctx, Action: "agent:read", Resource: "agent:id:001"})
	assert.Equal(t, Deny, result.Decision)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("white")
	require.NoError(t, err)
	assert.Equal(t, ModeWhitelist, mode)

	mode, err = ParseMode("blacklist")
	require.NoError(t, err)
	assert.Equal(t, ModeBlacklist, mode)

	_, err = ParseMode("grey")
	assert.ErrorIs(t, err, ErrUnknownMode)

	assert.Equal(t, "white", ModeWhitelist.String())
	assert.Equal(t, "black", ModeBlacklist.String())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
}
