// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Policy provider types
const (
	// PolicyProviderTypeFile identifies policies loaded from a single file
	PolicyProviderTypeFile = "file"
	// PolicyProviderTypeDir identifies policies loaded from a directory
	PolicyProviderTypeDir = "dir"
)

// Policy represents a policy file along with the role definitions it contains
type Policy struct {
	Name    string
	Source  string
	Version string
	Roles   []*RoleDefinition
}

// AddRole adds a role definition to the policy
func (p *Policy) AddRole(def *RoleDefinition) {
	p.Roles = append(p.Roles, def)
}

func parsePolicyDef(name string, source string, def *PolicyDef) (*Policy, *multierror.Error) {
	var errs *multierror.Error

	policy := &Policy{
		Name:    name,
		Source:  source,
		Version: def.Version,
	}

	for _, roleDef := range def.Roles {
		if err := roleDef.Check(); err != nil {
			errs = multierror.Append(errs, &ErrRoleLoad{Definition: roleDef, Err: err})
			continue
		}

		if roleDef.Disabled {
			continue
		}

		policy.AddRole(roleDef)
	}

	return policy, errs
}

// LoadPolicy loads a YAML file and returns a new policy. Definitions that
// fail validation are reported in the returned error but do not prevent the
// remaining definitions from being loaded.
func LoadPolicy(name string, source string, reader io.Reader, schemaValidation bool) (*Policy, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &ErrPolicyLoad{Name: name, Err: err}
	}

	if schemaValidation {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ErrPolicyLoad{Name: name, Err: err}
		}
		if err := validatePolicyDoc(doc); err != nil {
			return nil, &ErrPolicyLoad{Name: name, Err: err}
		}
	}

	def := PolicyDef{}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &ErrPolicyLoad{Name: name, Err: err}
	}

	policy, errs := parsePolicyDef(name, source, &def)
	return policy, errs.ErrorOrNil()
}
