// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package queryparserimpl implements the queryparser component
package queryparserimpl

import (
	"context"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/atomic"
	"go.uber.org/fx"

	queryparserdef "github.com/sentinelops/statedb/comp/queryparser/def"
	rbacdef "github.com/sentinelops/statedb/comp/rbac/def"
	statsd "github.com/sentinelops/statedb/comp/statsd/def"
	"github.com/sentinelops/statedb/pkg/query"
	"github.com/sentinelops/statedb/pkg/util/log"
)

// team: agent-security

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Requires declares the dependencies of the queryparser component
type Requires struct {
	fx.In

	Rbac   rbacdef.Component
	Statsd statsd.Component
}

type handler func(ctx context.Context, req query.Request) query.Reply

type queryParser struct {
	rbac     rbacdef.Component
	statsd   statsd.Component
	handlers map[string]map[string]handler

	queries atomic.Uint64
	errors  atomic.Uint64
}

var _ queryparserdef.Component = (*queryParser)(nil)

// NewComponent returns the query parser with every target registered
func NewComponent(reqs Requires) queryparserdef.Component {
	p := &queryParser{
		rbac:     reqs.Rbac,
		statsd:   reqs.Statsd,
		handlers: make(map[string]map[string]handler),
	}

	p.register("rbac", "check", p.rbacCheck)
	p.register("rbac", "roles", p.rbacRoles)
	p.register("rbac", "role", p.rbacRole)
	p.register("rbac", "policies", p.rbacPolicies)
	p.register("rbac", "reload", p.rbacReload)

	p.register("statedb", "ping", p.statedbPing)
	p.register("statedb", "stats", p.statedbStats)
	p.register("statedb", "version", p.statedbVersion)

	return p
}

func (p *queryParser) register(target string, command string, h handler) {
	commands, ok := p.handlers[target]
	if !ok {
		commands = make(map[string]handler)
		p.handlers[target] = commands
	}
	commands[command] = h
}

func (p *queryParser) targets() []string {
	targets := make([]string, 0, len(p.handlers))
	for target := range p.handlers {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

func (p *queryParser) commands(target string) []string {
	commands := make([]string, 0, len(p.handlers[target]))
	for command := range p.handlers[target] {
		commands = append(commands, command)
	}
	sort.Strings(commands)
	return commands
}

// Parse parses a query line, dispatches it and returns the reply
func (p *queryParser) Parse(ctx context.Context, input string) (query.Reply, error) {
	p.queries.Inc()

	req, err := query.ParseRequest(input)
	if err != nil {
		p.errors.Inc()
		_ = p.statsd.Count("query.errors", 1, []string{"reason:parse"}, 1)
		return query.Errf("%s", err), err
	}

	commands, ok := p.handlers[req.Target]
	if !ok {
		p.errors.Inc()
		_ = p.statsd.Count("query.errors", 1, []string{"reason:target"}, 1)
		targetErr := &query.ErrUnknownTarget{Target: req.Target}
		return query.Errf("%s", targetErr).WithOutput("known targets: %s", strings.Join(p.targets(), ", ")), targetErr
	}

	h, ok := commands[req.Command]
	if !ok {
		p.errors.Inc()
		_ = p.statsd.Count("query.errors", 1, []string{"reason:command"}, 1)
		commandErr := &query.ErrUnknownCommand{Target: req.Target, Command: req.Command}
		return query.Errf("%s", commandErr).WithOutput("known %s commands: %s", req.Target, strings.Join(p.commands(req.Target), ", ")), commandErr
	}

	tags := []string{"target:" + req.Target, "command:" + req.Command}
	_ = p.statsd.Count("query.requests", 1, tags, 1)
	// the payload may carry an authorization context with credentials in it
	log.Tracef("query: %s", log.Scrub(input))

	start := time.Now()
	reply := h(ctx, req)
	_ = p.statsd.Timing("query.duration", time.Since(start), tags, 1)

	if !reply.IsOK() {
		p.errors.Inc()
	}

	return reply, nil
}
