// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package check holds the check subcommand, which resolves one authorization
// decision against a policy file or directory without a running agent
package check

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sentinelops/statedb/cmd/statedbctl/command"
	"github.com/sentinelops/statedb/pkg/config"
	"github.com/sentinelops/statedb/pkg/rbac"
	"github.com/sentinelops/statedb/pkg/rbac/eval"
	"github.com/sentinelops/statedb/pkg/rbac/rules"
	"github.com/sentinelops/statedb/pkg/util/fxutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CliParams holds the command line arguments of the check subcommand
type CliParams struct {
	*command.GlobalParams

	// Policies points at a policy file or a policy directory. Empty means
	// the configured policies_dir.
	Policies string

	// Mode overrides the configured rbac mode
	Mode string

	AuthContext string
	Action      string
	Resource    string
}

// Commands returns the check subcommand
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &CliParams{
		GlobalParams: globalParams,
	}

	checkCmd := &cobra.Command{
		Use:     "check <context> <action> <resource>",
		Aliases: []string{"authcheck"},
		Short:   "Resolve an authorization decision against local policies",
		Long: `
Loads policies from a file or directory and resolves the decision for the
given authorization context, action and resource. Example:
statedbctl check '{"user": "wazuh"}' agent:read agent:id:001`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			cliParams.AuthContext = args[0]
			cliParams.Action = args[1]
			cliParams.Resource = args[2]

			return fxutil.OneShot(runCheck,
				fx.Supply(cliParams),
				fx.Provide(func() config.Config { return config.Statedb }),
			)
		},
	}

	checkCmd.Flags().StringVar(&cliParams.Policies, "policies", "", "path to a policy file or directory (default: the configured policies_dir)")
	checkCmd.Flags().StringVar(&cliParams.Mode, "mode", "", "rbac mode, white or black (default: the configured rbac.mode)")

	return []*cobra.Command{checkCmd}
}

type checkReport struct {
	Decision string                  `json:"decision"`
	Roles    []rules.RoleID          `json:"roles"`
	Policy   *rules.PolicyDefinition `json:"policy"`
}

func runCheck(cfg config.Config, cliParams *CliParams) error {
	modeValue := cliParams.Mode
	if modeValue == "" {
		modeValue = cfg.GetString("rbac.mode")
	}
	mode, err := rbac.ParseMode(modeValue)
	if err != nil {
		return err
	}

	ctx, err := eval.NewContext([]byte(cliParams.AuthContext))
	if err != nil {
		return errors.Wrap(err, "parsing authorization context")
	}

	store, err := loadStore(cfg, cliParams.Policies)
	if err != nil {
		return err
	}

	result := rbac.NewResolver(store, mode).Resolve(rbac.Request{
		Context:  ctx,
		Action:   cliParams.Action,
		Resource: cliParams.Resource,
	})

	content, err := json.MarshalIndent(checkReport{
		Decision: result.Decision.String(),
		Roles:    result.Roles,
		Policy:   result.Policy,
	}, "", "\t")
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", content)

	return nil
}

// loadStore loads the policies at the given path, a file or a directory,
// into a fresh store. Load and compilation errors are fatal here, check is
// the command that lints policies before they are dropped on an agent.
func loadStore(cfg config.Config, policiesPath string) (*rules.Store, error) {
	if policiesPath == "" {
		policiesPath = cfg.GetString("policies_dir")
	}

	info, err := os.Stat(policiesPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading policies")
	}

	schemaValidation := cfg.GetBool("policies.schema_validation")

	var provider rules.PolicyProvider
	if info.IsDir() {
		provider, err = rules.NewPoliciesDirProvider(policiesPath, false, 0, schemaValidation)
		if err != nil {
			return nil, errors.Wrap(err, "loading policies")
		}
	} else {
		provider = rules.NewPolicyFileProvider(policiesPath, schemaValidation)
	}

	loader := rules.NewPolicyLoader(provider)
	defer loader.Close()

	policies, errs := loader.LoadPolicies()
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	store := rules.NewStore()
	if err := store.SetPolicies(policies).ErrorOrNil(); err != nil {
		return nil, err
	}

	return store, nil
}
