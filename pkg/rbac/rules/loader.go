// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// PolicyProvider defines a policy provider
type PolicyProvider interface {
	LoadPolicies() ([]*Policy, *multierror.Error)
	SetOnNewPoliciesReadyCb(cb func())
	Start()
	Close() error
	Type() string
}

// PolicyLoader aggregates the policies of a set of providers
type PolicyLoader struct {
	sync.RWMutex

	Providers []PolicyProvider
}

// LoadPolicies returns the policies of all the providers, in provider order
func (l *PolicyLoader) LoadPolicies() ([]*Policy, *multierror.Error) {
	l.RLock()
	defer l.RUnlock()

	var errs *multierror.Error
	var policies []*Policy

	for _, provider := range l.Providers {
		ps, err := provider.LoadPolicies()
		if err.ErrorOrNil() != nil {
			errs = multierror.Append(errs, err)
		}
		policies = append(policies, ps...)
	}

	return policies, errs
}

// SetOnNewPoliciesReadyCb forwards the callback to every provider
func (l *PolicyLoader) SetOnNewPoliciesReadyCb(cb func()) {
	l.RLock()
	defer l.RUnlock()

	for _, provider := range l.Providers {
		provider.SetOnNewPoliciesReadyCb(cb)
	}
}

// Start starts all the providers
func (l *PolicyLoader) Start() {
	l.RLock()
	defer l.RUnlock()

	for _, provider := range l.Providers {
		provider.Start()
	}
}

// Close stops all the providers
func (l *PolicyLoader) Close() error {
	l.RLock()
	defer l.RUnlock()

	var errs *multierror.Error
	for _, provider := range l.Providers {
		if err := provider.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// NewPolicyLoader returns a new policy loader
func NewPolicyLoader(providers ...PolicyProvider) *PolicyLoader {
	return &PolicyLoader{
		Providers: providers,
	}
}
