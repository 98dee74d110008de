// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package command holds command related files
package command

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sentinelops/statedb/pkg/config"
	"github.com/sentinelops/statedb/pkg/util/log"
)

// GlobalParams contains the values of statedbctl-global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the configuration file, to allow
	// overrides from the command line
	ConfFilePath string

	// NoColor is a flag to disable color output
	NoColor bool
}

// SubcommandFactory returns a sub-command factory
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this command.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	var globalParams GlobalParams

	statedbctlCmd := &cobra.Command{
		Use:   "statedbctl [command]",
		Short: "SentinelOps state database control tool.",
		Long: `
statedbctl queries and inspects the agent state database: it resolves
authorization decisions against the loaded policies, lists roles, and
validates policy files.`,
		SilenceUsage: true,
	}

	statedbctlCmd.PersistentFlags().StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to statedb.yaml")
	statedbctlCmd.PersistentFlags().BoolVarP(&globalParams.NoColor, "no-color", "n", false, "disable color output")

	statedbctlCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		if globalParams.NoColor {
			color.NoColor = true
		}
		if err := config.Setup(globalParams.ConfFilePath); err != nil {
			return err
		}
		return log.SetupDefaultLogger(config.Statedb.GetString("log_level"))
	}

	for _, factory := range subcommandFactories {
		for _, subcmd := range factory(&globalParams) {
			statedbctlCmd.AddCommand(subcmd)
		}
	}

	return statedbctlCmd
}
