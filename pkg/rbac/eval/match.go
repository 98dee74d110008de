// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package eval

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Regex clauses are strings of the form "r'EXPRESSION'". They match from
// the start of the candidate, the way a bare pattern would against a
// prefix.
const regexPrefix = "r'"

var regexCache = func() *lru.Cache[string, *regexp.Regexp] {
	cache, err := lru.New[string, *regexp.Regexp](256)
	if err != nil {
		panic(err)
	}
	return cache
}()

// regexClause reports whether value is a well formed regex clause, and
// returns the compiled expression when it is. A clause that does not
// compile is not a clause, it falls back to literal comparison.
func regexClause(value interface{}) (*regexp.Regexp, bool) {
	expr, ok := value.(string)
	if !ok || !strings.HasPrefix(expr, regexPrefix) {
		return nil, false
	}

	pattern := strings.TrimSuffix(expr[len(regexPrefix):], "'")
	anchored := `\A(?:` + pattern + `)`
	if re, hit := regexCache.Get(anchored); hit {
		return re, true
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, false
	}
	regexCache.Add(anchored, re)
	return re, true
}

// sortIfStringList returns a sorted copy of all-string lists so that list
// equality ignores order. Anything else passes through untouched.
func sortIfStringList(value interface{}) interface{} {
	list, ok := value.([]interface{})
	if !ok {
		return value
	}
	strs := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return value
		}
		strs[i] = s
	}
	sort.Strings(strs)
	out := make([]interface{}, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}

// matchItem reports (as 0 or 1) whether roleChunk occurs in authChunk.
// In exact mode list occurrences must consume the whole context list, not
// sit inside a larger one.
func matchItem(roleChunk, authChunk interface{}, exact bool) int {
	if roleMap, ok := roleChunk.(map[string]interface{}); ok {
		if authMap, ok := authChunk.(map[string]interface{}); ok {
			counter := 0
			for keyRule, valueRule := range roleMap {
				if re, isClause := regexClause(keyRule); isClause {
					for keyAuth, valueAuth := range authMap {
						if re.MatchString(keyAuth) {
							counter += matchItem(valueRule, valueAuth, exact)
						}
					}
				}
				if valueAuth, present := authMap[keyRule]; present {
					counter += matchItem(valueRule, valueAuth, exact)
				}
			}
			// Exact equality: a regex key matching several context keys
			// overshoots the count and fails the chunk.
			if counter == len(roleMap) {
				return 1
			}
			return 0
		}
		// Object against a scalar or list. Only the empty object matches,
		// it is a subset of anything.
		if len(roleMap) == 0 {
			return 1
		}
		return 0
	}

	roleChunk = sortIfStringList(roleChunk)
	authChunk = sortIfStringList(authChunk)

	if re, isClause := regexClause(roleChunk); isClause {
		candidates, ok := authChunk.([]interface{})
		if !ok {
			candidates = []interface{}{authChunk}
		}
		for _, candidate := range candidates {
			if s, ok := candidate.(string); ok && re.MatchString(s) {
				return 1
			}
		}
	}

	if reflect.DeepEqual(roleChunk, authChunk) {
		return 1
	}

	roleList, roleIsList := roleChunk.([]interface{})
	if s, ok := roleChunk.(string); ok {
		roleList, roleIsList = []interface{}{s}, true
	}
	if authList, ok := authChunk.([]interface{}); ok && roleIsList {
		return processLists(roleList, authList, exact)
	}

	return 0
}

// processLists counts occurrences of role items among context items. The
// count is checked after every comparison: a loose match fires as soon as
// every role item was seen, an exact match additionally requires the
// count to consume the whole context list.
func processLists(roleChunk, authChunk []interface{}, exact bool) int {
	counter := 0
	for _, value := range authChunk {
		for _, item := range roleChunk {
			if re, isClause := regexClause(item); isClause {
				if s, ok := value.(string); ok && re.MatchString(s) {
					counter++
				}
			} else if reflect.DeepEqual(value, item) {
				counter++
			}
			if exact {
				if counter == len(authChunk) && counter == len(roleChunk) {
					return 1
				}
			} else if counter == len(roleChunk) {
				return 1
			}
		}
	}
	return 0
}

// findItem launches matchItem at every level of the context tree: the
// root, every value, and every object nested in values or in lists.
func findItem(roleChunk interface{}, authChunk map[string]interface{}, exact bool) int {
	if matchItem(roleChunk, authChunk, exact) != 0 {
		return 1
	}

	for _, value := range authChunk {
		if matchItem(roleChunk, value, exact) != 0 {
			return 1
		}
		switch v := value.(type) {
		case map[string]interface{}:
			if findItem(roleChunk, v, exact) != 0 {
				return 1
			}
		case []interface{}:
			for _, item := range v {
				if nested, ok := item.(map[string]interface{}); ok {
					if findItem(roleChunk, nested, exact) != 0 {
						return 1
					}
				}
			}
		}
	}
	return 0
}
