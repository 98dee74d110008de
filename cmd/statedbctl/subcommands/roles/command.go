// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package roles holds the roles subcommand, which lists the loaded roles
package roles

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	rbacdef "github.com/sentinelops/statedb/comp/rbac/def"
	rbacfx "github.com/sentinelops/statedb/comp/rbac/fx"
	statsdfx "github.com/sentinelops/statedb/comp/statsd/fx"
	"github.com/sentinelops/statedb/pkg/config"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CliParams holds the command line arguments of the roles subcommand
type CliParams struct {
	*command.GlobalParams

	// JSON dumps the role definitions instead of the summary table
	JSON bool
}

// Commands returns the roles subcommand
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &CliParams{
		GlobalParams: globalParams,
	}

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "List the roles loaded from the configured policies",
		Long:  ``,
		RunE: func(_ *cobra.Command, _ []string) error {
			return fxutil.OneShot(runRoles,
				fx.Supply(cliParams),
				fx.Provide(func() config.Config { return config.Statedb }),
				statsdfx.Module(),
				rbacfx.Module(),
			)
		},
	}

	rolesCmd.Flags().BoolVar(&cliParams.JSON, "json", false, "print the full role definitions as JSON")

	return []*cobra.Command{rolesCmd}
}

func runRoles(rbac rbacdef.Component, cliParams *CliParams) error {
	defs := rbac.ListRoles()

	if cliParams.JSON {
		content, err := json.MarshalIndent(defs, "", "\t")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", content)
		return nil
	}

	if len(defs) == 0 {
		fmt.Fprintln(color.Output, color.YellowString("no roles loaded"))
		return nil
	}

	table := tablewriter.NewWriter(color.Output)
	table.SetHeader([]string{"ID", "Name", "Policies", "Description"})
	table.SetBorder(false)
	for _, def := range defs {
		table.Append([]string{def.ID, def.Name, strconv.Itoa(len(def.Policies)), def.Description})
	}
	table.Render()

	stats := rbac.Stats()
	fmt.Fprintf(color.Output, "\n%s roles, mode %s, generation %v\n",
		color.CyanString(strconv.Itoa(len(defs))), color.CyanString(fmt.Sprintf("%v", stats["mode"])), stats["generation"])

	return nil
}
