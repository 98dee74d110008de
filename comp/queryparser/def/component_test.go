// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package queryparser

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelops/statedb/pkg/query"
)

// Every parser implementation, mocks included, is programmed against this
// one method. Pinning its shape turns an interface change into a named
// test failure instead of a compile error in some distant consumer.
func TestParseSignature(t *testing.T) {
	comp := reflect.TypeOf((*Component)(nil)).Elem()
	require.Equal(t, 1, comp.NumMethod())

	m, ok := comp.MethodByName("Parse")
	require.True(t, ok)

	require.Equal(t, 2, m.Type.NumIn())
	assert.Equal(t, reflect.TypeOf((*context.Context)(nil)).Elem(), m.Type.In(0))
	assert.Equal(t, reflect.TypeOf(""), m.Type.In(1))

	require.Equal(t, 2, m.Type.NumOut())
	assert.Equal(t, reflect.TypeOf(query.Reply{}), m.Type.Out(0))
	assert.Equal(t, reflect.TypeOf((*error)(nil)).Elem(), m.Type.Out(1))
}
