// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package mock provides the queryparser mock component. Tests program the
// replies they expect instead of standing up the policy store behind the
// real parser.
package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/fx"

	queryparser "github.com/sentinelops/statedb/comp/queryparser/def"
	"github.com/sentinelops/statedb/pkg/query"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

// Mock implements mock-specific methods.
type Mock struct {
	mock.Mock
}

var _ queryparser.Component = (*Mock)(nil)

// Parse returns the programmed reply for the given input
func (m *Mock) Parse(ctx context.Context, input string) (query.Reply, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(query.Reply), args.Error(1)
}

// New returns a mock for the queryparser component. Expectations are
// asserted when the test finishes.
func New(t testing.TB) *Mock {
	m := &Mock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockModule defines the fx options for the mock component.
func MockModule() fxutil.Module {
	return fxutil.Component(
		fx.Provide(New),
		fx.Provide(func(m *Mock) queryparser.Component { return m }))
}
