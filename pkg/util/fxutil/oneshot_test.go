// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestOneShotRunsFunction(t *testing.T) {
	var got string
	err := OneShot(func(s string) error {
		got = s
		return nil
	}, fx.Provide(func() string { return "injected" }))
	require.NoError(t, err)
	require.Equal(t, "injected", got)
}

func TestOneShotPropagatesError(t *testing.T) {
	err := OneShot(func() error { return errors.New("uhoh") })
	require.ErrorContains(t, err, "uhoh")
}
