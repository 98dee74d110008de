// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package schema holds the schema subcommand, which prints the JSON schema
// policy files are validated against
package schema

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Commands returns the schema subcommand
func Commands(_ *command.GlobalParams) []*cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the policy file JSON schema",
		Long:  ``,
		RunE: func(_ *cobra.Command, _ []string) error {
			content, err := rules.PolicyJSONSchema()
			if err != nil {
				return err
			}

			var doc map[string]interface{}
			if err := json.Unmarshal(content, &doc); err != nil {
				return err
			}
			indented, err := json.MarshalIndent(doc, "", "\t")
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", indented)
			return nil
		},
	}

	return []*cobra.Command{schemaCmd}
}
