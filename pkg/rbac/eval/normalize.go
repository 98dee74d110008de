// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package eval

import (
	"github.com/spf13/cast"
)

// Normalize rewrites a decoded document so that rule chunks and context
// chunks compare cleanly regardless of where they were decoded from: YAML
// yields ints where JSON yields float64, so every number becomes float64.
func Normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = Normalize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case string, bool, float64, nil:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return cast.ToFloat64(v)
	default:
		// json.Number and friends
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
		return v
	}
}
