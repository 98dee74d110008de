// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rbac

import (
	"errors"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"

	"github.com/sentinelops/statedb/pkg/rbac/eval"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
)

// Decision is the outcome of an authorization request
type Decision int

const (
	// Deny forbids the requested action
	Deny Decision = iota
	// Allow grants the requested action
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Mode selects the default decision when no policy covers a request
type Mode int

const (
	// ModeWhitelist denies anything no policy explicitly allows
	ModeWhitelist Mode = iota
	// ModeBlacklist allows anything no policy explicitly denies
	ModeBlacklist
)

// ErrUnknownMode is returned for rbac modes other than white and black
var ErrUnknownMode = errors.New(`unknown rbac mode, expected "white" or "black"`)

// ParseMode parses a configured rbac mode
func ParseMode(mode string) (Mode, error) {
	switch mode {
	case "white", "whitelist":
		return ModeWhitelist, nil
	case "black", "blacklist":
		return ModeBlacklist, nil
	}
	return ModeWhitelist, ErrUnknownMode
}

func (m Mode) String() string {
	if m == ModeBlacklist {
		return "black"
	}
	return "white"
}

// Request describes an authorization request
type Request struct {
	Context  *eval.Context
	Action   string
	Resource string
}

// Result carries the decision, the roles that matched the context, and the
// policy entry that decided. Policy is nil when the default decision
// applied. It points into the live store and must not be mutated.
type Result struct {
	Decision Decision
	Roles    []rules.RoleID
	Policy   *rules.PolicyDefinition
}

// Resolver resolves authorization requests against the role store.
// Deny always wins over allow, whatever the order of the policies.
type Resolver struct {
	store *rules.Store
	mode  Mode
}

// NewResolver returns a resolver bound to the given store
func NewResolver(store *rules.Store, mode Mode) *Resolver {
	return &Resolver{
		store: store,
		mode:  mode,
	}
}

// Mode returns the default decision mode of the resolver
func (r *Resolver) Mode() Mode {
	return r.mode
}

// MatchingRoles returns the roles whose rules match the given context, in
// store order
func (r *Resolver) MatchingRoles(ctx *eval.Context) []*rules.Role {
	var matched []*rules.Role
	for _, role := range r.store.Roles() {
		if role.Matches(ctx) {
			matched = append(matched, role)
		}
	}
	return matched
}

// Resolve maps the request context to roles and resolves the decision for
// the requested action and resource
func (r *Resolver) Resolve(req Request) Result {
	matched := r.MatchingRoles(req.Context)

	result := Result{
		Decision: r.defaultDecision(),
		Roles: lo.Map(matched, func(role *rules.Role, _ int) rules.RoleID {
			return role.Def.ID
		}),
	}

	var allowed, denied *rules.PolicyDefinition
	for _, role := range matched {
		for _, policy := range role.Def.Policies {
			if !patternsCover(policy.Actions, req.Action) || !patternsCover(policy.Resources, req.Resource) {
				continue
			}
			if policy.Effect == rules.EffectDeny {
				if denied == nil {
					denied = policy
				}
			} else if allowed == nil {
				allowed = policy
			}
		}
	}

	switch {
	case denied != nil:
		result.Decision = Deny
		result.Policy = denied
	case allowed != nil:
		result.Decision = Allow
		result.Policy = allowed
	}

	return result
}

func (r *Resolver) defaultDecision() Decision {
	if r.mode == ModeBlacklist {
		return Allow
	}
	return Deny
}

// globCache holds compiled action and resource patterns, the same small set
// of patterns is matched over and over
var globCache = func() *lru.Cache[string, glob.Glob] {
	cache, err := lru.New[string, glob.Glob](512)
	if err != nil {
		panic(err)
	}
	return cache
}()

// matchPattern matches a value against an action or resource pattern.
// Patterns are glob expressions where the wildcard does not cross the `:`
// separating resource segments, so `agent:id:*` covers every agent but
// `agent:*` does not. Invalid patterns fall back to literal comparison.
func matchPattern(pattern string, value string) bool {
	if g, hit := globCache.Get(pattern); hit {
		if g == nil {
			return pattern == value
		}
		return g.Match(value)
	}

	g, err := glob.Compile(pattern, ':')
	if err != nil {
		globCache.Add(pattern, nil)
		return pattern == value
	}

	globCache.Add(pattern, g)
	return g.Match(value)
}

func patternsCover(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if matchPattern(pattern, value) {
			return true
		}
	}
	return false
}
