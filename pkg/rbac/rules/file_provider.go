// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// PolicyFileProvider loads policies from a single file
type PolicyFileProvider struct {
	Filename string

	schemaValidation  bool
	onPolicyChangedCb func()
}

var _ PolicyProvider = (*PolicyFileProvider)(nil)

// LoadPolicies implements the policy provider interface
func (p *PolicyFileProvider) LoadPolicies() ([]*Policy, *multierror.Error) {
	var errs *multierror.Error

	f, err := os.Open(p.Filename)
	if err != nil {
		return nil, multierror.Append(errs, &ErrPolicyLoad{Name: p.Filename, Err: err})
	}
	defer f.Close()

	policy, err := LoadPolicy(filepath.Base(p.Filename), PolicyProviderTypeFile, f, p.schemaValidation)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	if policy == nil {
		return nil, errs
	}

	return []*Policy{policy}, errs
}

// SetOnNewPoliciesReadyCb implements the policy provider interface
func (p *PolicyFileProvider) SetOnNewPoliciesReadyCb(cb func()) {
	p.onPolicyChangedCb = cb
}

// Start implements the policy provider interface
func (p *PolicyFileProvider) Start() {}

// Close implements the policy provider interface
func (p *PolicyFileProvider) Close() error {
	return nil
}

// Type implements the policy provider interface
func (p *PolicyFileProvider) Type() string {
	return PolicyProviderTypeFile
}

// NewPolicyFileProvider returns a new file based policy provider
func NewPolicyFileProvider(filename string, schemaValidation bool) *PolicyFileProvider {
	return &PolicyFileProvider{
		Filename:         filename,
		schemaValidation: schemaValidation,
	}
}
