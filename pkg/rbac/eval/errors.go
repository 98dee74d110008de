// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package eval

import (
	"fmt"
)

// ErrInvalidContext is returned when an authorization context document
// cannot be parsed or is not a JSON object.
type ErrInvalidContext struct {
	Err error
}

func (e *ErrInvalidContext) Error() string {
	return fmt.Sprintf("invalid authorization context: %v", e.Err)
}

func (e *ErrInvalidContext) Unwrap() error {
	return e.Err
}

// ErrInvalidOperand is returned at compile time when a logical operator
// encloses something other than an object or a list of objects.
type ErrInvalidOperand struct {
	Operator string
}

func (e *ErrInvalidOperand) Error() string {
	return fmt.Sprintf("operand of %s must be an object or a list of objects", e.Operator)
}
