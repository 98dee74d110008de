// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package query

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a query line is empty or all spaces.
var ErrEmptyQuery = errors.New("empty query")

// ErrUnknownTarget is returned when the query names a target no handler
// claims.
type ErrUnknownTarget struct {
	Target string
}

func (e *ErrUnknownTarget) Error() string {
	return fmt.Sprintf("invalid query target: %s", e.Target)
}

// ErrUnknownCommand is returned when the target is known but the command
// is not.
type ErrUnknownCommand struct {
	Target  string
	Command string
}

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("unknown command for target %s: %s", e.Target, e.Command)
}
