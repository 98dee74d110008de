// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package rbacimpl implements the rbac component
package rbacimpl

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/mohae/deepcopy"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/atomic"
	"go.uber.org/fx"

	rbacdef "github.com/sentinelops/statedb/comp/rbac/def"
	statsd "github.com/sentinelops/statedb/comp/statsd/def"
	"github.com/sentinelops/statedb/pkg/config"
	pkgrbac "github.com/sentinelops/statedb/pkg/rbac"
	"github.com/sentinelops/statedb/pkg/rbac/eval"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
	"github.com/sentinelops/statedb/pkg/util/log"
)

// team: agent-security

// Requires declares the dependencies of the rbac component
type Requires struct {
	fx.In

	Lc     fx.Lifecycle
	Config config.Config
	Statsd statsd.Component
}

type rbacImpl struct {
	statsd   statsd.Component
	store    *rules.Store
	loader   *rules.PolicyLoader
	resolver *pkgrbac.Resolver
	cache    *gocache.Cache

	hits    atomic.Uint64
	misses  atomic.Uint64
	reloads atomic.Uint64
}

var _ rbacdef.Component = (*rbacImpl)(nil)

// NewComponent wires the policy providers and returns the rbac component
func NewComponent(reqs Requires) (rbacdef.Component, error) {
	mode, err := pkgrbac.ParseMode(reqs.Config.GetString("rbac.mode"))
	if err != nil {
		return nil, err
	}

	provider, err := rules.NewPoliciesDirProvider(
		reqs.Config.GetString("policies_dir"),
		reqs.Config.GetBool("policies.watch"),
		reqs.Config.GetDuration("policies.watch_debounce"),
		reqs.Config.GetBool("policies.schema_validation"),
	)
	if err != nil {
		return nil, err
	}

	store := rules.NewStore()

	r := &rbacImpl{
		statsd:   reqs.Statsd,
		store:    store,
		loader:   rules.NewPolicyLoader(provider),
		resolver: pkgrbac.NewResolver(store, mode),
	}

	if reqs.Config.GetBool("cache.enabled") {
		r.cache = gocache.New(reqs.Config.GetDuration("cache.ttl"), reqs.Config.GetDuration("cache.purge_interval"))
	}

	r.loader.SetOnNewPoliciesReadyCb(r.onPoliciesChanged)

	reqs.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// a partial load is not fatal, the remaining roles are served
			if err := r.Reload(); err != nil {
				log.Warnf("rbac: initial policy load reported errors: %v", err)
			}
			r.loader.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return r.loader.Close()
		},
	})

	return r, nil
}

func (r *rbacImpl) onPoliciesChanged() {
	if err := r.Reload(); err != nil {
		log.Warnf("rbac: policy reload reported errors: %v", err)
	}
}

// Reload reloads the policies from all the providers and swaps the store
func (r *rbacImpl) Reload() error {
	var errs *multierror.Error

	policies, loadErrs := r.loader.LoadPolicies()
	if loadErrs.ErrorOrNil() != nil {
		errs = multierror.Append(errs, loadErrs)
	}

	if setErrs := r.store.SetPolicies(policies); setErrs.ErrorOrNil() != nil {
		errs = multierror.Append(errs, setErrs)
	}

	r.reloads.Inc()
	_ = r.statsd.Count("rbac.reloads", 1, nil, 1)
	log.Infof("rbac: %d roles loaded from %d policies (generation %d)", r.store.RoleCount(), len(policies), r.store.Generation())

	return errs.ErrorOrNil()
}

// Authorize resolves the decision for an action on a resource given a raw
// authorization context document
func (r *rbacImpl) Authorize(authContext []byte, action string, resource string) (pkgrbac.Result, error) {
	ctx, err := eval.NewContext(authContext)
	if err != nil {
		_ = r.statsd.Count("rbac.context_errors", 1, nil, 1)
		return pkgrbac.Result{}, err
	}

	var key string
	if r.cache != nil {
		// the store generation keys the cache so a policy swap invalidates
		// every previous entry
		key = fmt.Sprintf("%s:%d:%s:%s", ctx.Fingerprint(), r.store.Generation(), action, resource)
		if cached, hit := r.cache.Get(key); hit {
			r.hits.Inc()
			_ = r.statsd.Count("rbac.cache.hits", 1, nil, 1)
			return cached.(pkgrbac.Result), nil
		}
		r.misses.Inc()
		_ = r.statsd.Count("rbac.cache.misses", 1, nil, 1)
	}

	result := r.resolver.Resolve(pkgrbac.Request{Context: ctx, Action: action, Resource: resource})

	if r.cache != nil {
		r.cache.SetDefault(key, result)
	}

	_ = r.statsd.Count("rbac.decisions", 1, []string{"decision:" + result.Decision.String()}, 1)

	return result, nil
}

// MatchRoles returns the IDs of the roles whose rules match the
// authorization context
func (r *rbacImpl) MatchRoles(authContext []byte) ([]rules.RoleID, error) {
	ctx, err := eval.NewContext(authContext)
	if err != nil {
		_ = r.statsd.Count("rbac.context_errors", 1, nil, 1)
		return nil, err
	}

	matched := r.resolver.MatchingRoles(ctx)
	ids := make([]rules.RoleID, 0, len(matched))
	for _, role := range matched {
		ids = append(ids, role.Def.ID)
	}

	return ids, nil
}

// ListRoles returns copies of the loaded role definitions
func (r *rbacImpl) ListRoles() []*rules.RoleDefinition {
	return r.store.ListRoleDefinitions()
}

// Role returns a copy of a single role definition
func (r *rbacImpl) Role(id rules.RoleID) (*rules.RoleDefinition, bool) {
	role, ok := r.store.GetRole(id)
	if !ok {
		return nil, false
	}

	return deepcopy.Copy(role.Def).(*rules.RoleDefinition), true
}

// Stats returns runtime counters
func (r *rbacImpl) Stats() map[string]interface{} {
	return map[string]interface{}{
		"roles":         r.store.RoleCount(),
		"generation":    r.store.Generation(),
		"mode":          r.resolver.Mode().String(),
		"cache_enabled": r.cache != nil,
		"cache_hits":    r.hits.Load(),
		"cache_misses":  r.misses.Load(),
		"reloads":       r.reloads.Load(),
	}
}
