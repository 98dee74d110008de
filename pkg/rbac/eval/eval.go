// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package eval matches authorization contexts against role rules.
//
// A rule is a JSON object combining logical operators over matching
// functions:
//
//	AND, OR, NOT   all, any, none of the enclosed clauses hold
//	MATCH, MATCH$  the enclosed structure occurs at the context root,
//	               loosely or exactly
//	FIND, FIND$    like MATCH and MATCH$, at every level of the context
//
// String clauses of the form "r'EXPRESSION'" are regular expressions.
// Rules compile once into closures and evaluate against any number of
// contexts.
package eval

import (
	"sort"
	"strings"
)

const (
	opAnd = "AND"
	opOr  = "OR"
	opNot = "NOT"

	fnMatch      = "MATCH"
	fnMatchExact = "MATCH$"
	fnFind       = "FIND"
	fnFindExact  = "FIND$"
)

func isLogicalOperator(key string) bool {
	return key == opAnd || key == opOr || key == opNot
}

func isFunction(key string) bool {
	switch key {
	case fnMatch, fnMatchExact, fnFind, fnFindExact:
		return true
	}
	return false
}

// step is one top-level entry of a rule object. It yields a result and
// whether that result terminates the rule: a missed AND or OR falls
// through to the next entry, a NOT always decides.
type step func(*Context) (int, bool)

// RuleEvaluator is a compiled rule, safe for concurrent use.
type RuleEvaluator struct {
	steps []step
}

// Compile builds an evaluator from a rule document. Unknown keys are
// dropped, a rule edited out from under us must not break evaluation.
// The empty rule never matches.
func Compile(rule map[string]interface{}) (*RuleEvaluator, error) {
	normalized, _ := Normalize(rule).(map[string]interface{})
	return compileRule(normalized)
}

func compileRule(rule map[string]interface{}) (*RuleEvaluator, error) {
	keys := make([]string, 0, len(rule))
	for key := range rule {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var steps []step
	for _, key := range keys {
		switch {
		case isLogicalOperator(key):
			s, err := compileLogical(key, rule[key])
			if err != nil {
				return nil, err
			}
			steps = append(steps, s)
		case isFunction(key):
			steps = append(steps, compileFunction(key, rule[key]))
		}
	}
	return &RuleEvaluator{steps: steps}, nil
}

// Eval reports whether the rule holds for the given context.
func (r *RuleEvaluator) Eval(ctx *Context) bool {
	return r.eval(ctx) != 0
}

func (r *RuleEvaluator) eval(ctx *Context) int {
	for _, s := range r.steps {
		if result, terminal := s(ctx); terminal {
			return result
		}
	}
	return 0
}

// compileLogical builds the step for AND, OR and NOT. The operand is
// either a list of sub-rules, scored one by one, or a single object whose
// score is weighed against its number of keys.
func compileLogical(op string, operand interface{}) (step, error) {
	var successes func(*Context) int
	var total int

	switch v := operand.(type) {
	case []interface{}:
		children := make([]*RuleEvaluator, 0, len(v))
		for _, element := range v {
			sub, ok := element.(map[string]interface{})
			if !ok {
				return nil, &ErrInvalidOperand{Operator: op}
			}
			child, err := compileRule(sub)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		total = len(children)
		successes = func(ctx *Context) int {
			count := 0
			for _, child := range children {
				count += child.eval(ctx)
			}
			return count
		}
	case map[string]interface{}:
		child, err := compileRule(v)
		if err != nil {
			return nil, err
		}
		total = len(v)
		successes = child.eval
	default:
		return nil, &ErrInvalidOperand{Operator: op}
	}

	switch op {
	case opAnd:
		return func(ctx *Context) (int, bool) {
			if successes(ctx) == total {
				return 1, true
			}
			return 0, false
		}, nil
	case opOr:
		return func(ctx *Context) (int, bool) {
			if successes(ctx) > 0 {
				return 1, true
			}
			return 0, false
		}, nil
	default: // NOT
		return func(ctx *Context) (int, bool) {
			if successes(ctx) == total {
				return 0, true
			}
			return 1, true
		}, nil
	}
}

func compileFunction(fn string, chunk interface{}) step {
	exact := fn == fnMatchExact || fn == fnFindExact
	descend := strings.HasPrefix(fn, "FIND")

	return func(ctx *Context) (int, bool) {
		var hit int
		if descend {
			hit = findItem(chunk, ctx.Data, exact)
		} else {
			hit = matchItem(chunk, ctx.Data, exact)
		}
		if hit != 0 {
			return 1, true
		}
		return 0, false
	}
}
