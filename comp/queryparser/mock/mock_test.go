// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	queryparser "github.com/sentinelops/statedb/comp/queryparser/def"
	"github.com/sentinelops/statedb/pkg/query"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

func TestMockProgrammedReplies(t *testing.T) {
	m := New(t)

	m.On("Parse", mock.Anything, "statedb ping").Return(query.OK("pong"), nil)
	m.On("Parse", mock.Anything, "bogus query").Return(query.Errf("invalid query target: bogus"), errors.New("invalid query target: bogus"))

	// callers only ever see the component interface
	var parser queryparser.Component = m

	reply, err := parser.Parse(context.Background(), "statedb ping")
	require.NoError(t, err)
	assert.Equal(t, "ok pong", reply.Response)

	reply, err = parser.Parse(context.Background(), "bogus query")
	require.Error(t, err)
	assert.False(t, reply.IsOK())
}

func TestMockModule(t *testing.T) {
	deps := fxutil.Test[struct {
		fx.In

		Mock   *Mock
		Parser queryparser.Component
	}](t, MockModule())

	// the graph hands out the same mock under both types
	require.Same(t, deps.Mock, deps.Parser)

	deps.Mock.On("Parse", mock.Anything, "statedb ping").Return(query.OK("pong"), nil)

	reply, err := deps.Parser.Parse(context.Background(), "statedb ping")
	require.NoError(t, err)
	assert.Equal(t, "ok pong", reply.Response)
}
