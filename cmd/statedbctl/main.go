// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package main is the entrypoint of the statedbctl command
package main

import (
	"os"

	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	"github.com/sentinelops/statedb/cmd/statedbctl/subcommands"
	"github.com/sentinelops/statedb/pkg/util/log"
)

func main() {
	if err := command.MakeCommand(subcommands.StatedbctlSubcommands()).Execute(); err != nil {
		log.Error(err)
		log.Flush()
		os.Exit(-1)
	}
	log.Flush()
}
