// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"regexp"
)

// RoleID represents the ID of a role
type RoleID = string

// Policy effect values
const (
	// EffectAllow grants the listed actions on the listed resources
	EffectAllow = "allow"
	// EffectDeny forbids the listed actions on the listed resources
	EffectDeny = "deny"
)

const roleIDPattern = `^([a-zA-Z0-9_.-])*$`

var roleIDRe = regexp.MustCompile(roleIDPattern)

// checkRoleID validates a role ID
func checkRoleID(id RoleID) bool {
	return roleIDRe.MatchString(id)
}

// PolicyDef represents a policy file definition
type PolicyDef struct {
	Version string            `yaml:"version,omitempty" json:"version,omitempty"`
	Roles   []*RoleDefinition `yaml:"roles" json:"roles"`
}

// RoleDefinition holds the definition of a role as read from a policy file.
// The rule is kept as a free form document and compiled by the store.
type RoleDefinition struct {
	ID          RoleID                 `yaml:"id" json:"id" jsonschema:"required"`
	Name        string                 `yaml:"name,omitempty" json:"name,omitempty"`
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Disabled    bool                   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Rule        map[string]interface{} `yaml:"rule" json:"rule" jsonschema:"required"`
	Policies    []*PolicyDefinition    `yaml:"policies,omitempty" json:"policies,omitempty"`
	Tags        map[string]string      `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// GetTag returns the value of a definition tag
func (rd *RoleDefinition) GetTag(tagKey string) (string, bool) {
	tagValue, ok := rd.Tags[tagKey]
	if ok {
		return tagValue, true
	}
	return "", false
}

// Check validates a role definition
func (rd *RoleDefinition) Check() error {
	if rd.ID == "" {
		return ErrRoleWithoutID
	}

	if !checkRoleID(rd.ID) {
		return ErrRoleIDPattern
	}

	if rd.Disabled {
		return nil
	}

	if len(rd.Rule) == 0 {
		return ErrRoleWithoutRule
	}

	for _, policy := range rd.Policies {
		if err := policy.Check(); err != nil {
			return err
		}
	}

	return nil
}

// PolicyDefinition describes what a role grants or forbids
type PolicyDefinition struct {
	Actions   []string `yaml:"actions" json:"actions" jsonschema:"required"`
	Resources []string `yaml:"resources" json:"resources" jsonschema:"required"`
	Effect    string   `yaml:"effect" json:"effect" jsonschema:"required,enum=allow,enum=deny"`
}

// Check validates a policy definition
func (pd *PolicyDefinition) Check() error {
	if len(pd.Actions) == 0 {
		return ErrPolicyWithoutActions
	}

	if len(pd.Resources) == 0 {
		return ErrPolicyWithoutResources
	}

	switch pd.Effect {
	case EffectAllow, EffectDeny:
	default:
		return &ErrInvalidEffect{Effect: pd.Effect}
	}

	return nil
}
