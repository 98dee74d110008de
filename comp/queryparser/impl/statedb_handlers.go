// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package queryparserimpl

import (
	"context"

	"github.com/sentinelops/statedb/pkg/query"
	"github.com/sentinelops/statedb/pkg/version"
)

func (p *queryParser) statedbPing(_ context.Context, _ query.Request) query.Reply {
	return query.OK("pong")
}

func (p *queryParser) statedbStats(_ context.Context, _ query.Request) query.Reply {
	stats := p.rbac.Stats()
	stats["queries"] = p.queries.Load()
	stats["query_errors"] = p.errors.Load()

	out, err := json.Marshal(stats)
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}

func (p *queryParser) statedbVersion(_ context.Context, _ query.Request) query.Reply {
	out, err := json.Marshal(map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
	})
	if err != nil {
		return query.Errf("%s", err)
	}

	return query.OK(string(out))
}
