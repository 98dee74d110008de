// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package mock provides a mock for the statsd component
package mock

import (
	"testing"

	ddgostatsd "github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/fx"

	statsd "github.com/sentinelops/statedb/comp/statsd/def"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

// Mock returns a mock for the statsd component
func Mock(_ testing.TB) statsd.Component {
	return &ddgostatsd.NoOpClient{}
}

// MockModule defines the fx options for the mock component.
func MockModule() fxutil.Module {
	return fxutil.Component(
		fx.Provide(Mock))
}
