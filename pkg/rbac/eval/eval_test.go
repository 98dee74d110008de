// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustContext(t *testing.T, raw string) *Context {
	t.Helper()
	ctx, err := NewContext([]byte(raw))
	require.NoError(t, err)
	return ctx
}

func mustCompile(t *testing.T, rule map[string]interface{}) *RuleEvaluator {
	t.Helper()
	re, err := Compile(rule)
	require.NoError(t, err)
	return re
}

func rule(key string, chunk interface{}) map[string]interface{} {
	return map[string]interface{}{key: chunk}
}

func TestMatchAtRoot(t *testing.T) {
	ctx := mustContext(t, `{
		"username": "admin",
		"office": "20",
		"department": ["Technical"]
	}`)

	tests := []struct {
		name string
		rule map[string]interface{}
		want bool
	}{
		{
			name: "scalar value present",
			rule: rule("MATCH", map[string]interface{}{"username": "admin"}),
			want: true,
		},
		{
			name: "scalar value absent",
			rule: rule("MATCH", map[string]interface{}{"username": "intruder"}),
			want: false,
		},
		{
			name: "key absent",
			rule: rule("MATCH", map[string]interface{}{"badge": "blue"}),
			want: false,
		},
		{
			name: "list equality",
			rule: rule("MATCH", map[string]interface{}{"department": []interface{}{"Technical"}}),
			want: true,
		},
		{
			name: "several keys all required",
			rule: rule("MATCH", map[string]interface{}{"username": "admin", "office": "20"}),
			want: true,
		},
		{
			name: "several keys one missing",
			rule: rule("MATCH", map[string]interface{}{"username": "admin", "office": "21"}),
			want: false,
		},
		{
			name: "empty chunk matches any object",
			rule: rule("MATCH", map[string]interface{}{}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCompile(t, tt.rule).Eval(ctx))
		})
	}
}

func TestMatchLooseVersusExact(t *testing.T) {
	ctx := mustContext(t, `{"department": ["Technical", "Sales"]}`)

	loose := rule("MATCH", map[string]interface{}{"department": []interface{}{"Technical"}})
	exact := rule("MATCH$", map[string]interface{}{"department": []interface{}{"Technical"}})
	full := rule("MATCH$", map[string]interface{}{"department": []interface{}{"Sales", "Technical"}})

	assert.True(t, mustCompile(t, loose).Eval(ctx), "subset should satisfy MATCH")
	assert.False(t, mustCompile(t, exact).Eval(ctx), "subset should not satisfy MATCH$")
	assert.True(t, mustCompile(t, full).Eval(ctx), "whole list satisfies MATCH$ regardless of order")
}

func TestMatchRegexClauses(t *testing.T) {
	ctx := mustContext(t, `{"username": "admin", "office": "20"}`)

	tests := []struct {
		name string
		rule map[string]interface{}
		want bool
	}{
		{
			name: "regex value hit",
			rule: rule("MATCH", map[string]interface{}{"office": "r'^2[0-9]$'"}),
			want: true,
		},
		{
			name: "regex value miss",
			rule: rule("MATCH", map[string]interface{}{"office": "r'^3[0-9]$'"}),
			want: false,
		},
		{
			name: "regex anchored at start only",
			rule: rule("MATCH", map[string]interface{}{"username": "r'adm'"}),
			want: true,
		},
		{
			name: "regex not anchored mid string",
			rule: rule("MATCH", map[string]interface{}{"username": "r'dmin'"}),
			want: false,
		},
		{
			name: "regex key over context keys",
			rule: rule("MATCH", map[string]interface{}{"r'^user.*'": "admin"}),
			want: true,
		},
		{
			name: "invalid regex treated as literal",
			rule: rule("MATCH", map[string]interface{}{"office": "r'('"}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCompile(t, tt.rule).Eval(ctx))
		})
	}
}

func TestMatchRegexKeyOvercount(t *testing.T) {
	// A regex key matching several context keys overshoots the per-chunk
	// count and the chunk fails. Callers relying on this should scope
	// their key patterns tightly.
	ctx := mustContext(t, `{"user_a": "x", "user_b": "x"}`)
	re := mustCompile(t, rule("MATCH", map[string]interface{}{"r'^user.*'": "x"}))
	assert.False(t, re.Eval(ctx))
}

func TestFindDescends(t *testing.T) {
	ctx := mustContext(t, `{
		"name": "Bill",
		"authorization": {
			"claims": {
				"department": ["Technical"]
			}
		},
		"groups": [{"name": "admins"}]
	}`)

	tests := []struct {
		name string
		rule map[string]interface{}
		want bool
	}{
		{
			name: "nested object found",
			rule: rule("FIND", map[string]interface{}{"department": []interface{}{"Technical"}}),
			want: true,
		},
		{
			name: "match does not descend",
			rule: rule("MATCH", map[string]interface{}{"department": []interface{}{"Technical"}}),
			want: false,
		},
		{
			name: "object inside list found",
			rule: rule("FIND", map[string]interface{}{"name": "admins"}),
			want: true,
		},
		{
			name: "root level still visible",
			rule: rule("FIND", map[string]interface{}{"name": "Bill"}),
			want: true,
		},
		{
			name: "absent stays absent",
			rule: rule("FIND", map[string]interface{}{"name": "Melinda"}),
			want: false,
		},
		{
			name: "exact find against subset",
			rule: rule("FIND$", map[string]interface{}{"department": []interface{}{"Technical"}}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCompile(t, tt.rule).Eval(ctx))
		})
	}
}

func TestLogicalOperators(t *testing.T) {
	ctx := mustContext(t, `{"username": "admin", "office": "20"}`)

	userHit := rule("MATCH", map[string]interface{}{"username": "admin"})
	userMiss := rule("MATCH", map[string]interface{}{"username": "intruder"})
	officeHit := rule("MATCH", map[string]interface{}{"office": "20"})

	tests := []struct {
		name string
		rule map[string]interface{}
		want bool
	}{
		{
			name: "and all hold",
			rule: rule("AND", []interface{}{userHit, officeHit}),
			want: true,
		},
		{
			name: "and one misses",
			rule: rule("AND", []interface{}{userHit, userMiss}),
			want: false,
		},
		{
			name: "or any holds",
			rule: rule("OR", []interface{}{userMiss, officeHit}),
			want: true,
		},
		{
			name: "or none holds",
			rule: rule("OR", []interface{}{userMiss}),
			want: false,
		},
		{
			name: "not of a miss",
			rule: rule("NOT", userMiss),
			want: true,
		},
		{
			name: "not of a hit",
			rule: rule("NOT", userHit),
			want: false,
		},
		{
			name: "nested operators",
			rule: rule("AND", []interface{}{
				userHit,
				rule("NOT", userMiss),
			}),
			want: true,
		},
		{
			name: "empty and holds vacuously",
			rule: rule("AND", []interface{}{}),
			want: true,
		},
		{
			name: "empty or never holds",
			rule: rule("OR", []interface{}{}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCompile(t, tt.rule).Eval(ctx))
		})
	}
}

func TestMissedOperatorFallsThrough(t *testing.T) {
	// An AND or OR that does not hold leaves the decision to the rest of
	// the rule instead of failing it. Steps run in key order, AND first.
	ctx := mustContext(t, `{"username": "admin"}`)
	re := mustCompile(t, map[string]interface{}{
		"AND":   []interface{}{rule("MATCH", map[string]interface{}{"username": "intruder"})},
		"MATCH": map[string]interface{}{"username": "admin"},
	})
	assert.True(t, re.Eval(ctx))
}

func TestEmptyAndUnknownRules(t *testing.T) {
	ctx := mustContext(t, `{"username": "admin"}`)

	empty := mustCompile(t, map[string]interface{}{})
	assert.False(t, empty.Eval(ctx))

	unknown := mustCompile(t, map[string]interface{}{"MATCHES": map[string]interface{}{"username": "admin"}})
	assert.False(t, unknown.Eval(ctx))
}

func TestNumbersCompareAcrossDecoders(t *testing.T) {
	// Rules often come from YAML, where numbers decode as ints, while
	// contexts are JSON with float64. Both normalize to float64.
	ctx := mustContext(t, `{"office": 20, "clearance": 3.5}`)

	assert.True(t, mustCompile(t, rule("MATCH", map[string]interface{}{"office": 20})).Eval(ctx))
	assert.True(t, mustCompile(t, rule("MATCH", map[string]interface{}{"clearance": 3.5})).Eval(ctx))
	assert.False(t, mustCompile(t, rule("MATCH", map[string]interface{}{"office": 21})).Eval(ctx))
}

func TestCompileErrors(t *testing.T) {
	var opErr *ErrInvalidOperand

	_, err := Compile(rule("AND", "not a clause"))
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "AND", opErr.Operator)

	_, err = Compile(rule("OR", []interface{}{"not a clause"}))
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "OR", opErr.Operator)

	_, err = Compile(rule("NOT", 14))
	require.ErrorAs(t, err, &opErr)
}
