// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import (
	"context"
	"errors"

	"go.uber.org/fx"
)

// OneShot runs the given function in an fx.App using the supplied options.
// The function's arguments are supplied by fx, from the given options. The
// function must return `error` or nothing.
//
// The resulting app starts all components, invokes the function, and
// immediately shuts down. This is the backbone of the statedbctl
// subcommands.
func OneShot(oneShotFunc interface{}, opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(oneShotFunc, opts)
	}

	delayed := newDelayedFxInvocation(oneShotFunc)
	opts = append(opts, delayed.option(), FxBase())
	opts = append(
		[]fx.Option{appTimeouts()},
		opts...,
	)
	app := fx.New(opts...)

	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return errors.Join(err, stopApp(app))
	}

	return errors.Join(delayed.call(), stopApp(app))
}

func stopApp(app *fx.App) error {
	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}
