// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package rules holds the role and policy definitions evaluated by the
// authorization engine, along with the providers that load them.
package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrRoleWithoutID is returned when a role definition has no ID
	ErrRoleWithoutID = errors.New("no role ID")

	// ErrRoleIDPattern is returned when a role ID doesn't match the role ID pattern
	ErrRoleIDPattern = fmt.Errorf("role ID pattern `%s` was not respected", roleIDPattern)

	// ErrRoleWithoutRule is returned when a role definition has no matching rule
	ErrRoleWithoutRule = errors.New("no rule in role definition")

	// ErrPolicyWithoutActions is returned when a policy entry lists no actions
	ErrPolicyWithoutActions = errors.New("no actions in policy entry")

	// ErrPolicyWithoutResources is returned when a policy entry lists no resources
	ErrPolicyWithoutResources = errors.New("no resources in policy entry")

	// ErrDefinitionIDConflict is returned when multiple role definitions carry the same ID
	ErrDefinitionIDConflict = errors.New("multiple role definitions with the same ID")
)

// ErrPolicyLoad is returned on policy file load error
type ErrPolicyLoad struct {
	Name string
	Err  error
}

func (e ErrPolicyLoad) Error() string {
	return fmt.Sprintf("error loading policy `%s`: %s", e.Name, e.Err)
}

// Unwrap implements the error interface
func (e ErrPolicyLoad) Unwrap() error {
	return e.Err
}

// ErrRoleLoad is returned on role load error
type ErrRoleLoad struct {
	Definition *RoleDefinition
	Err        error
}

func (e ErrRoleLoad) Error() string {
	return fmt.Sprintf("role `%s` error: %s", e.Definition.ID, e.Err)
}

// Unwrap implements the error interface
func (e ErrRoleLoad) Unwrap() error {
	return e.Err
}

// ErrInvalidEffect is returned when a policy entry carries an unknown effect
type ErrInvalidEffect struct {
	Effect string
}

func (e ErrInvalidEffect) Error() string {
	return fmt.Sprintf("invalid policy effect `%s`, expected `%s` or `%s`", e.Effect, EffectAllow, EffectDeny)
}

// ErrSchemaValidation is returned when a policy file doesn't conform to the policy schema
type ErrSchemaValidation struct {
	Details []string
}

func (e ErrSchemaValidation) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Details)
}
