// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/mohae/deepcopy"
	"go.uber.org/atomic"

	"github.com/sentinelops/statedb/pkg/rbac/eval"
)

// Role is a compiled role ready for evaluation
type Role struct {
	Def    *RoleDefinition
	Policy *Policy

	evaluator *eval.RuleEvaluator
}

// Matches returns true if the role rule matches the given context
func (r *Role) Matches(ctx *eval.Context) bool {
	return r.evaluator.Eval(ctx)
}

// Store holds the compiled roles currently in use. Policy swaps are atomic,
// readers either see the previous set or the new one.
type Store struct {
	sync.RWMutex

	roles     []*Role
	rolesByID map[RoleID]*Role
	policies  []*Policy

	generation atomic.Uint64
}

// SetPolicies replaces the content of the store with the roles of the given
// policies. Definitions that fail to compile are reported in the returned
// error and skipped. The first definition wins when several policies define
// the same role ID.
func (s *Store) SetPolicies(policies []*Policy) *multierror.Error {
	var errs *multierror.Error

	var roles []*Role
	rolesByID := make(map[RoleID]*Role)

	for _, policy := range policies {
		for _, def := range policy.Roles {
			if _, exists := rolesByID[def.ID]; exists {
				errs = multierror.Append(errs, &ErrRoleLoad{Definition: def, Err: ErrDefinitionIDConflict})
				continue
			}

			evaluator, err := eval.Compile(def.Rule)
			if err != nil {
				errs = multierror.Append(errs, &ErrRoleLoad{Definition: def, Err: err})
				continue
			}

			role := &Role{
				Def:       def,
				Policy:    policy,
				evaluator: evaluator,
			}
			roles = append(roles, role)
			rolesByID[def.ID] = role
		}
	}

	s.Lock()
	s.roles = roles
	s.rolesByID = rolesByID
	s.policies = policies
	s.generation.Inc()
	s.Unlock()

	return errs
}

// Roles returns the compiled roles in load order
func (s *Store) Roles() []*Role {
	s.RLock()
	defer s.RUnlock()

	return slices.Clone(s.roles)
}

// GetRole returns the compiled role with the given ID
func (s *Store) GetRole(id RoleID) (*Role, bool) {
	s.RLock()
	defer s.RUnlock()

	role, ok := s.rolesByID[id]
	return role, ok
}

// RoleCount returns the number of loaded roles
func (s *Store) RoleCount() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.roles)
}

// Policies returns the currently loaded policies
func (s *Store) Policies() []*Policy {
	s.RLock()
	defer s.RUnlock()

	return slices.Clone(s.policies)
}

// ListRoleDefinitions returns deep copies of the loaded role definitions so
// that callers cannot mutate the store content
func (s *Store) ListRoleDefinitions() []*RoleDefinition {
	s.RLock()
	defer s.RUnlock()

	defs := make([]*RoleDefinition, 0, len(s.roles))
	for _, role := range s.roles {
		defs = append(defs, deepcopy.Copy(role.Def).(*RoleDefinition))
	}

	return defs
}

// Generation returns a counter incremented on every policy swap
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// NewStore returns an empty role store
func NewStore() *Store {
	return &Store{
		rolesByID: make(map[RoleID]*Role),
	}
}
