// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package fxutil

import "go.uber.org/fx"

// fxAppTestOverride allows TestOneShotSubcommand to override the OneShot
// function.  It is always nil in production.
var fxAppTestOverride func(interface{}, []fx.Option) error
