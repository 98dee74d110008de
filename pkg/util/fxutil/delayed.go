// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import (
	"fmt"
	"reflect"

	"go.uber.org/fx"
)

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

// delayedFxInvocation captures the arguments of a function from a running
// fx app, without calling the function, so that the call can be made later.
type delayedFxInvocation struct {
	fn   interface{}
	args []reflect.Value
}

func newDelayedFxInvocation(fn interface{}) *delayedFxInvocation {
	return &delayedFxInvocation{fn: fn}
}

// option returns the fx.Option to include in the app to capture the
// function's arguments.
func (i *delayedFxInvocation) option() fx.Option {
	ftype := reflect.TypeOf(i.fn)
	if ftype == nil || ftype.Kind() != reflect.Func {
		panic("delayed fx invocation requires a function")
	}
	if ftype.NumOut() > 1 || (ftype.NumOut() == 1 && !ftype.Out(0).Implements(errorInterface)) {
		panic("delayed fx invocation function must return error or nothing")
	}

	// Build a function with the same arguments as i.fn that only records
	// those arguments.
	inTypes := make([]reflect.Type, 0, ftype.NumIn())
	for idx := 0; idx < ftype.NumIn(); idx++ {
		inTypes = append(inTypes, ftype.In(idx))
	}
	captureArgs := reflect.MakeFunc(
		reflect.FuncOf(inTypes, []reflect.Type{}, false),
		func(args []reflect.Value) []reflect.Value {
			i.args = args
			return []reflect.Value{}
		})

	return fx.Invoke(captureArgs.Interface())
}

// call makes the delayed call, once the app has supplied the arguments.
func (i *delayedFxInvocation) call() error {
	if i.args == nil {
		return fmt.Errorf("delayed fx invocation was never captured from the app")
	}

	res := reflect.ValueOf(i.fn).Call(i.args)
	if len(res) > 0 && !res[0].IsNil() {
		return res[0].Interface().(error)
	}
	return nil
}
