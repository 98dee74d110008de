// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package fx provides the fx module for the rbac component
package fx

import (
	"go.uber.org/fx"

	rbacimpl "github.com/sentinelops/statedb/comp/rbac/impl"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

// Module defines the fx options for this component
func Module() fxutil.Module {
	return fxutil.Component(
		fx.Provide(rbacimpl.NewComponent),
	)
}
