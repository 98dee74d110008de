// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// TestOneShotSubcommand is a helper for testing commands implemented with
// OneShot. It takes the subcommands and a command line beginning with the
// subcommand name, executes the command, and verifies that OneShot was
// called with expectedOneShotFunc and with options that satisfy verifyFn's
// arguments. verifyFn can assert on the provided values, typically the
// command's cliParams.
func TestOneShotSubcommand(
	t *testing.T,
	subcommands []*cobra.Command,
	commandline []string,
	expectedOneShotFunc interface{},
	verifyFn interface{},
) {
	var oneShotRan bool
	fxAppTestOverride = func(oneShotFunc interface{}, opts []fx.Option) error {
		oneShotRan = true

		require.Equal(t,
			reflect.ValueOf(expectedOneShotFunc).Pointer(),
			reflect.ValueOf(oneShotFunc).Pointer(),
			"got a different one-shot function than expected")

		// Build the app without starting it, to check that the options
		// can satisfy the function's arguments.
		app := fxtest.New(t,
			fx.Options(opts...),
			fx.Invoke(verifyFn))
		require.NoError(t, app.Err())

		return nil
	}
	defer func() { fxAppTestOverride = nil }()

	cmd := &cobra.Command{Use: "test"}
	for _, c := range subcommands {
		cmd.AddCommand(c)
	}
	cmd.SetArgs(append([]string{}, commandline...))

	require.NoError(t, cmd.Execute())
	require.True(t, oneShotRan, "fxutil.OneShot was not called")
}

// Test builds an fx app from the given options and returns the fulfilled
// T, either a component type or a struct embedding fx.In whose fields name
// the components under test. The app provides testing.TB, which mock
// constructors take as a dependency. The app is stopped when the test
// finishes.
func Test[T any](t testing.TB, opts ...fx.Option) T {
	var deps T
	delayed := newDelayedFxInvocation(func(d T) {
		deps = d
	})

	app := fxtest.New(
		t,
		FxBase(),
		fx.Supply(fx.Annotate(t, fx.As(new(testing.TB)))),
		fx.Options(opts...),
		delayed.option(),
	)
	if err := delayed.call(); err != nil {
		t.Fatal(err.Error())
	}
	app.RequireStart()
	t.Cleanup(func() { app.RequireStop() })

	return deps
}
