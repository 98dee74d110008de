// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rbacimpl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"gopkg.in/yaml.v3"

	rbacdef "github.com/sentinelops/statedb/comp/rbac/def"
	statsdmock "github.com/sentinelops/statedb/comp/statsd/mock"
	"github.com/sentinelops/statedb/pkg/config"
	pkgrbac "github.com/sentinelops/statedb/pkg/rbac"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
)

func writePolicy(t *testing.T, filename string, def *rules.PolicyDef) {
	t.Helper()

	yamlBytes, err := yaml.Marshal(def)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filename, yamlBytes, 0700))
}

func respondersPolicy() *rules.PolicyDef {
	return &rules.PolicyDef{Roles: []*rules.RoleDefinition{{
		ID:   "responders",
		Rule: map[string]interface{}{"MATCH": map[string]interface{}{"team": "response"}},
		Policies: []*rules.PolicyDefinition{
			{Actions: []string{"agent:read"}, Resources: []string{"agent:id:*"}, Effect: rules.EffectAllow},
			{Actions: []string{"agent:read"}, Resources: []string{"agent:id:003"}, Effect: rules.EffectDeny},
		},
	}}}
}

func newTestComponent(t *testing.T, dir string) rbacdef.Component {
	t.Helper()

	cfg := config.Mock(t)
	cfg.Set("policies_dir", dir)

	lc := fxtest.NewLifecycle(t)
	comp, err := NewComponent(Requires{Lc: lc, Config: cfg, Statsd: statsdmock.Mock(t)})
	require.NoError(t, err)

	lc.RequireStart()
	t.Cleanup(lc.RequireStop)

	return comp
}

func TestAuthorize(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, filepath.Join(dir, "test.policy"), respondersPolicy())

	comp := newTestComponent(t, dir)

	authCtx := []byte(`{"team": "response"}`)

	result, err := comp.Authorize(authCtx, "agent:read", "agent:id:007")
	require.NoError(t, err)
	assert.Equal(t, pkgrbac.Allow, result.Decision)
	assert.Equal(t, []rules.RoleID{"responders"}, result.Roles)

	result, err = comp.Authorize(authCtx, "agent:read", "agent:id:003")
	require.NoError(t, err)
	assert.Equal(t, pkgrbac.Deny, result.Decision)

	// uncovered action falls back to the default decision, white mode denies
	result, err = comp.Authorize(authCtx, "agent:delete", "agent:id:007")
	require.NoError(t, err)
	assert.Equal(t, pkgrbac.Deny, result.Decision)

	_, err = comp.Authorize([]byte("not json"), "agent:read", "agent:id:007")
	assert.Error(t, err)
}

func TestAuthorizeCaches(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, filepath.Join(dir, "test.policy"), respondersPolicy())

	comp := newTestComponent(t, dir)

	authCtx := []byte(`{"team": "response"}`)

	first, err := comp.Authorize(authCtx, "agent:read", "agent:id:007")
	require.NoError(t, err)

	second, err := comp.Authorize(authCtx, "agent:read", "agent:id:007")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := comp.Stats()
	assert.Equal(t, true, stats["cache_enabled"])
	assert.Equal(t, uint64(1), stats["cache_hits"])
	assert.Equal(t, uint64(1), stats["cache_misses"])
}

func TestMatchRolesAndListing(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, filepath.Join(dir, "test.policy"), respondersPolicy())

	comp := newTestComponent(t, dir)

	ids, err := comp.MatchRoles([]byte(`{"team": "response"}`))
	require.NoError(t, err)
	assert.Equal(t, []rules.RoleID{"responders"}, ids)

	ids, err = comp.MatchRoles([]byte(`{"team": "unrelated"}`))
	require.NoError(t, err)
	assert.Empty(t, ids)

	defs := comp.ListRoles()
	require.Len(t, defs, 1)
	assert.Equal(t, "responders", defs[0].ID)

	def, ok := comp.Role("responders")
	require.True(t, ok)

	// the returned definition is a copy, mutations do not reach the store
	def.Policies[0].Effect = rules.EffectDeny
	fresh, ok := comp.Role("responders")
	require.True(t, ok)
	assert.Equal(t, rules.EffectAllow, fresh.Policies[0].Effect)

	_, ok = comp.Role("nope")
	assert.False(t, ok)
}

func TestReloadPicksUpNewPolicies(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, filepath.Join(dir, "10-base.policy"), respondersPolicy())

	comp := newTestComponent(t, dir)
	require.Len(t, comp.ListRoles(), 1)

	writePolicy(t, filepath.Join(dir, "20-extra.policy"), &rules.PolicyDef{Roles: []*rules.RoleDefinition{{
		ID:   "auditors",
		Rule: map[string]interface{}{"MATCH": map[string]interface{}{"team": "audit"}},
	}}})

	require.NoError(t, comp.Reload())
	require.Len(t, comp.ListRoles(), 2)

	_, ok := comp.Role("auditors")
	assert.True(t, ok)
}

func TestReloadReportsBrokenPolicies(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, filepath.Join(dir, "good.policy"), respondersPolicy())

	comp := newTestComponent(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.policy"), []byte("[unbalanced"), 0700))

	err := comp.Reload()
	assert.Error(t, err)

	// the broken file is reported but the good one is still served
	require.Len(t, comp.ListRoles(), 1)
}

func TestBadModeRejected(t *testing.T) {
	cfg := config.Mock(t)
	cfg.Set("rbac.mode", "grey")

	_, err := NewComponent(Requires{Lc: fxtest.NewLifecycle(t), Config: cfg, Statsd: statsdmock.Mock(t)})
	assert.ErrorIs(t, err, pkgrbac.ErrUnknownMode)
}

func TestMissingPoliciesDirIsNotFatal(t *testing.T) {
	comp := newTestComponent(t, filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Empty(t, comp.ListRoles())

	result, err := comp.Authorize([]byte(`{"team": "response"}`), "agent:read", "agent:id:007")
	require.NoError(t, err)
	assert.Equal(t, pkgrbac.Deny, result.Decision)
}
