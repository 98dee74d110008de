// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package config

import (
	"strings"
	"sync"
	"testing"
)

var mockLock = sync.Mutex{}

// MockConfig should only be used in tests
type MockConfig struct {
	Config
}

// Mock returns a fresh config carrying the statedb defaults, detached from
// the global config.
func Mock(t testing.TB) *MockConfig {
	mockLock.Lock()
	defer mockLock.Unlock()

	mocked := NewConfig("mock", "STATEDB", strings.NewReplacer(".", "_"))
	initConfig(mocked)
	return &MockConfig{Config: mocked}
}
