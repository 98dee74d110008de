// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package subcommands holds the subcommands for the statedbctl command
package subcommands

import (
	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	cmdcheck "github.com/sentinelops/statedb/cmd/statedbctl/subcommands/check"
	cmdquery "github.com/sentinelops/statedb/cmd/statedbctl/subcommands/query"
	cmdroles "github.com/sentinelops/statedb/cmd/statedbctl/subcommands/roles"
	cmdschema "github.com/sentinelops/statedb/cmd/statedbctl/subcommands/schema"
	cmdversion "github.com/sentinelops/statedb/cmd/statedbctl/subcommands/version"
)

// StatedbctlSubcommands returns all subcommands for the statedbctl command
func StatedbctlSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		cmdquery.Commands,
		cmdcheck.Commands,
		cmdroles.Commands,
		cmdschema.Commands,
		cmdversion.Commands,
	}
}
