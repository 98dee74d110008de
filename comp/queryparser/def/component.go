// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package queryparser parses and executes state database queries.
package queryparser

import (
	"context"

	"github.com/sentinelops/statedb/pkg/query"
)

// team: agent-security

// Component is the component type.
type Component interface {
	// Parse parses a query line, dispatches it to the handler registered
	// for its target and command, and returns the reply. The returned error
	// is non nil only when the line could not be dispatched at all, the
	// reply carries the error text in both cases.
	Parse(ctx context.Context, input string) (query.Reply, error)
}
