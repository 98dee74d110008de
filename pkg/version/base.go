// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package version defines the version of the statedb tooling
package version

// Version contains the version of the statedb tooling.
// It is populated at build time using build flags.
var Version string

// Commit is populated with the short commit hash from which the binary was built
var Commit string

var versionDefault = "0.4.0"

func init() {
	if Version == "" {
		Version = versionDefault
	}
}
