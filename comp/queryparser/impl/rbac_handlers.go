// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package queryparserimpl

import (
	"context"
	stdjson "encoding/json"
	"strings"

	"github.com/sentinelops/statedb/pkg/query"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
)

type checkPayload struct {
	Context  stdjson.RawMessage `json:"context"`
	Action   string             `json:"action"`
	Resource string             `json:"resource"`
}

// rbacCheck resolves a decision. The payload is a JSON document carrying the
// authorization context, the action and the resource.
func (p *queryParser) rbacCheck(_ context.Context, req query.Request) query.Reply {
	var payload checkPayload
	if err := json.Unmarshal([]byte(req.Payload), &payload); err != nil {
		return query.Errf("invalid check payload: %s", err)
	}

	if len(payload.Context) == 0 || payload.Action == "" || payload.Resource == "" {
		return query.Errf("check payload requires context, action and resource")
	}

	result, err := p.rbac.Authorize(payload.Context, payload.Action, payload.Resource)
	if err != nil {
		return query.Errf("%s", err)
	}

	out, err := json.Marshal(map[string]interface{}{
		"decision": result.Decision.String(),
		"roles":    result.Roles,
		"policy":   result.Policy,
	})
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}

// rbacRoles returns the IDs of the roles matching the authorization context
// given as payload.
func (p *queryParser) rbacRoles(_ context.Context, req query.Request) query.Reply {
	if strings.TrimSpace(req.Payload) == "" {
		return query.Errf("roles requires an authorization context payload")
	}

	ids, err := p.rbac.MatchRoles([]byte(req.Payload))
	if err != nil {
		return query.Errf("%s", err)
	}

	out, err := json.Marshal(map[string]interface{}{"roles": ids})
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}

// rbacRole returns the definition of a single role.
func (p *queryParser) rbacRole(_ context.Context, req query.Request) query.Reply {
	id := strings.TrimSpace(req.Payload)
	if id == "" {
		return query.Errf("role requires a role ID")
	}

	def, ok := p.rbac.Role(id)
	if !ok {
		return query.Errf("unknown role: %s", id)
	}

	out, err := json.Marshal(def)
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}

// rbacPolicies returns the policy entries of a single role.
func (p *queryParser) rbacPolicies(_ context.Context, req query.Request) query.Reply {
	id := strings.TrimSpace(req.Payload)
	if id == "" {
		return query.Errf("policies requires a role ID")
	}

	def, ok := p.rbac.Role(id)
	if !ok {
		return query.Errf("unknown role: %s", id)
	}

	policies := def.Policies
	if policies == nil {
		policies = []*rules.PolicyDefinition{}
	}

	out, err := json.Marshal(map[string]interface{}{
		"role":     def.ID,
		"policies": policies,
	})
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}

// rbacReload reloads the policies from all the providers.
func (p *queryParser) rbacReload(_ context.Context, _ query.Request) query.Reply {
	if err := p.rbac.Reload(); err != nil {
		return query.Errf("reload: %s", err)
	}

	stats := p.rbac.Stats()
	out, err := json.Marshal(map[string]interface{}{
		"roles":      stats["roles"],
		"generation": stats["generation"],
	})
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}
