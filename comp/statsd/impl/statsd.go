// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package statsdimpl implements the statsd component
package statsdimpl

import (
	ddgostatsd "github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/fx"

	statsd "github.com/sentinelops/statedb/comp/statsd/def"
	"github.com/sentinelops/statedb/pkg/config"
	"github.com/sentinelops/statedb/pkg/util/log"
)

// team: agent-security

// Requires declares the dependencies of the statsd component
type Requires struct {
	fx.In

	Config config.Config
}

// NewComponent returns the shared statsd client. The client is a no-op
// unless statsd.enabled is set.
func NewComponent(reqs Requires) (statsd.Component, error) {
	if !reqs.Config.GetBool("statsd.enabled") {
		return &ddgostatsd.NoOpClient{}, nil
	}

	addr := reqs.Config.GetString("statsd.addr")
	client, err := ddgostatsd.New(addr,
		ddgostatsd.WithNamespace(reqs.Config.GetString("statsd.namespace")),
		ddgostatsd.WithoutTelemetry(),
	)
	if err != nil {
		return nil, err
	}

	log.Debugf("statsd client sending to %s", addr)
	return client, nil
}
