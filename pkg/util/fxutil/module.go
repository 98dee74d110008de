// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import (
	"go.uber.org/fx"
)

// Module is a fx.Option grouping the providers of a component
type Module struct {
	fx.Option
}

// Component groups a set of fx options into a component module
func Component(opts ...fx.Option) Module {
	return Module{Option: fx.Options(opts...)}
}
