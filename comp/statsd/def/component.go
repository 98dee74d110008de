// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package statsd exposes a shared statsd client for internal telemetry.
package statsd

import (
	ddgostatsd "github.com/DataDog/datadog-go/v5/statsd"
)

// team: agent-security

// Component is the component type.
type Component interface {
	ddgostatsd.ClientInterface
}
