// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package rbac exposes role based access control decisions backed by the
// policy store.
package rbac

import (
	pkgrbac "github.com/sentinelops/statedb/pkg/rbac"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
)

// team: agent-security

// Component is the component type.
type Component interface {
	// Authorize resolves the decision for an action on a resource given a
	// raw authorization context document
	Authorize(authContext []byte, action string, resource string) (pkgrbac.Result, error)

	// MatchRoles returns the IDs of the roles whose rules match the
	// authorization context
	MatchRoles(authContext []byte) ([]rules.RoleID, error)

	// ListRoles returns copies of the loaded role definitions
	ListRoles() []*rules.RoleDefinition

	// Role returns a copy of a single role definition
	Role(id rules.RoleID) (*rules.RoleDefinition, bool)

	// Reload reloads the policies from all the providers and swaps the store
	Reload() error

	// Stats returns runtime counters
	Stats() map[string]interface{}
}
