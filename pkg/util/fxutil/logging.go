// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/sentinelops/statedb/pkg/util/log"
)

// FxBase returns the options common to every statedb fx app: fx's own
// events are routed into the statedb logger, filtered to warnings and up
// so that dependency wiring stays quiet on a healthy run.
func FxBase() fx.Option {
	return fx.WithLogger(func() fxevent.Logger {
		zl := log.NewZapLogger().WithOptions(zap.IncreaseLevel(zap.WarnLevel))
		return &fxevent.ZapLogger{Logger: zl}
	})
}

// appTimeouts bounds app start and stop. Prepended to the options so
// individual apps can override it.
func appTimeouts() fx.Option {
	return fx.Options(
		fx.StartTimeout(30*time.Second),
		fx.StopTimeout(30*time.Second),
	)
}
