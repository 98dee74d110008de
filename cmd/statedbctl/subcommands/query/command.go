// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package query holds the query subcommand, which sends a single query line
// through the full parser stack
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	queryparserdef "github.com/sentinelops/statedb/comp/queryparser/def"
	queryparserfx "github.com/sentinelops/statedb/comp/queryparser/fx"
	rbacfx "github.com/sentinelops/statedb/comp/rbac/fx"
	statsdfx "github.com/sentinelops/statedb/comp/statsd/fx"
	"github.com/sentinelops/statedb/pkg/config"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

// CliParams holds the command line arguments of the query subcommand
type CliParams struct {
	*command.GlobalParams

	// Query is the query line, target first
	Query string
}

// Commands returns the query subcommand
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &CliParams{
		GlobalParams: globalParams,
	}

	queryCmd := &cobra.Command{
		Use:   "query <target> <command> [payload]",
		Short: "Send a query through the local parser",
		Long: `
Loads the configured policies and dispatches one query line, printing the
reply. Example: statedbctl query rbac check '{"context": {"user": "wazuh"},
"action": "agent:read", "resource": "agent:id:001"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cliParams.Query = strings.Join(args, " ")

			return fxutil.OneShot(runQuery,
				fx.Supply(cliParams),
				fx.Provide(func() config.Config { return config.Statedb }),
				statsdfx.Module(),
				rbacfx.Module(),
				queryparserfx.Module(),
			)
		},
	}

	return []*cobra.Command{queryCmd}
}

func runQuery(parser queryparserdef.Component, cliParams *CliParams) error {
	reply, err := parser.Parse(context.Background(), cliParams.Query)
	if err != nil {
		return err
	}

	fmt.Println(reply.Response)
	return nil
}
