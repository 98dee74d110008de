// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package eval

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/twmb/murmur3"
	"github.com/xeipuuv/gojsonschema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// The only structural requirement on an authorization context is that the
// root is an object. Everything below it is caller-defined.
var contextSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(`{"type": "object"}`))
	if err != nil {
		panic(fmt.Sprintf("compiling context schema: %v", err))
	}
	return schema
}()

// Context is a parsed authorization context: the claims a caller presents
// about itself, as an arbitrary JSON object.
type Context struct {
	Data map[string]interface{}

	fingerprint string
}

// NewContext parses and validates a raw authorization context document.
func NewContext(raw []byte) (*Context, error) {
	result, err := contextSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &ErrInvalidContext{Err: err}
	}
	if !result.Valid() {
		return nil, &ErrInvalidContext{Err: fmt.Errorf("%s", result.Errors()[0].String())}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ErrInvalidContext{Err: err}
	}

	h1, h2 := murmur3.Sum128(raw)
	return &Context{
		Data:        Normalize(data).(map[string]interface{}),
		fingerprint: fmt.Sprintf("%016x%016x", h1, h2),
	}, nil
}

// Fingerprint returns a stable hash of the raw document, usable as a
// cache key. Two byte-identical contexts share a fingerprint.
func (c *Context) Fingerprint() string {
	return c.fingerprint
}
