// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package version holds the version subcommand
package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	"github.com/sentinelops/statedb/pkg/version"
)

// Commands returns the version subcommand
func Commands(_ *command.GlobalParams) []*cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version info",
		Long:  ``,
		Run: func(_ *cobra.Command, _ []string) {
			commit := ""
			if version.Commit != "" {
				commit = fmt.Sprintf(" - Commit: %s", color.GreenString(version.Commit))
			}
			fmt.Fprintf(color.Output, "statedbctl %s%s - Go version: %s\n",
				color.CyanString(version.Version),
				commit,
				color.RedString(runtime.Version()),
			)
		},
	}

	return []*cobra.Command{versionCmd}
}
