// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package mock provides the rbac mock component
package mock

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	rbacdef "github.com/sentinelops/statedb/comp/rbac/def"
	pkgrbac "github.com/sentinelops/statedb/pkg/rbac"
	"github.com/sentinelops/statedb/pkg/rbac/eval"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

// Mock implements mock-specific methods.
type Mock interface {
	rbacdef.Component

	// SetPolicies replaces the role set served by the mock
	SetPolicies(policies []*rules.Policy)
}

type rbacMock struct {
	t        testing.TB
	store    *rules.Store
	resolver *pkgrbac.Resolver
	reloads  int
}

var _ Mock = (*rbacMock)(nil)

// New returns a mock for the rbac component backed by an in-memory store
func New(t testing.TB) Mock {
	store := rules.NewStore()
	return &rbacMock{
		t:        t,
		store:    store,
		resolver: pkgrbac.NewResolver(store, pkgrbac.ModeWhitelist),
	}
}

// MockModule defines the fx options for the mock component.
func MockModule() fxutil.Module {
	return fxutil.Component(
		fx.Provide(New),
		fx.Provide(func(m Mock) rbacdef.Component { return m }))
}

func (m *rbacMock) SetPolicies(policies []*rules.Policy) {
	require.NoError(m.t, m.store.SetPolicies(policies).ErrorOrNil())
}

func (m *rbacMock) Authorize(authContext []byte, action string, resource string) (pkgrbac.Result, error) {
	ctx, err := eval.NewContext(authContext)
	if err != nil {
		return pkgrbac.Result{}, err
	}

	return m.resolver.Resolve(pkgrbac.Request{Context: ctx, Action: action, Resource: resource}), nil
}

func (m *rbacMock) MatchRoles(authContext []byte) ([]rules.RoleID, error) {
	ctx, err := eval.NewContext(authContext)
	if err != nil {
		return nil, err
	}

	matched := m.resolver.MatchingRoles(ctx)
	ids := make([]rules.RoleID, 0, len(matched))
	for _, role := range matched {
		ids = append(ids, role.Def.ID)
	}

	return ids, nil
}

func (m *rbacMock) ListRoles() []*rules.RoleDefinition {
	return m.store.ListRoleDefinitions()
}

func (m *rbacMock) Role(id rules.RoleID) (*rules.RoleDefinition, bool) {
	role, ok := m.store.GetRole(id)
	if !ok {
		return nil, false
	}
	return role.Def, true
}

func (m *rbacMock) Reload() error {
	m.reloads++
	return nil
}

func (m *rbacMock) Stats() map[string]interface{} {
	return map[string]interface{}{
		"roles":         m.store.RoleCount(),
		"generation":    m.store.Generation(),
		"mode":          m.resolver.Mode().String(),
		"cache_enabled": false,
		"cache_hits":    uint64(0),
		"cache_misses":  uint64(0),
		"reloads":       uint64(m.reloads),
	}
}
