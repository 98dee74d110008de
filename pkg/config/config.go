// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package config holds the statedb configuration: defaults, an optional
// YAML file, and STATEDB_-prefixed environment variables, in increasing
// order of precedence.
package config

import (
	"strings"
	"time"
)

// Statedb is the global configuration object
var Statedb Config

func init() {
	Statedb = NewConfig("statedb", "STATEDB", strings.NewReplacer(".", "_"))
	initConfig(Statedb)
}

// initConfig initializes the config defaults on a config
func initConfig(config Config) {
	config.BindEnvAndSetDefault("log_level", "info")

	// white denies anything no policy allows, black allows anything no
	// policy denies
	config.BindEnvAndSetDefault("rbac.mode", "white")

	// Policy loading
	config.BindEnvAndSetDefault("policies_dir", DefaultPoliciesDir)
	config.BindEnvAndSetDefault("policies.watch", false)
	config.BindEnvAndSetDefault("policies.watch_debounce", 500*time.Millisecond)
	config.BindEnvAndSetDefault("policies.schema_validation", true)

	// Decision cache
	config.BindEnvAndSetDefault("cache.enabled", true)
	config.BindEnvAndSetDefault("cache.ttl", time.Minute)
	config.BindEnvAndSetDefault("cache.purge_interval", 5*time.Minute)

	// Metrics
	config.BindEnvAndSetDefault("statsd.enabled", false)
	config.BindEnvAndSetDefault("statsd.addr", "127.0.0.1:8125")
	config.BindEnvAndSetDefault("statsd.namespace", "statedb.")
}

// DefaultPoliciesDir is where role and policy definitions live unless the
// configuration says otherwise.
const DefaultPoliciesDir = "/etc/statedb/policies.d"

// defaultConfigPaths are searched, in order, when no explicit config file
// is given.
var defaultConfigPaths = []string{
	"/etc/statedb",
	".",
}

// Setup points the global config at the given file, or at the default
// search paths when confFilePath is empty, and reads it in. A missing
// config file is not an error, the defaults and environment carry.
func Setup(confFilePath string) error {
	return setupConfig(Statedb, confFilePath)
}

func setupConfig(config Config, confFilePath string) error {
	if confFilePath != "" {
		config.SetConfigFile(confFilePath)
	} else {
		config.SetConfigName("statedb")
		for _, path := range defaultConfigPaths {
			config.AddConfigPath(path)
		}
	}
	if err := config.ReadInConfig(); err != nil {
		if config.IsConfigFileNotFound(err) && confFilePath == "" {
			return nil
		}
		return err
	}
	return nil
}
