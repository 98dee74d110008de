// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package log

import (
	"regexp"
)

// Authorization contexts are caller-supplied JSON and may carry credentials.
// Anything matching these keys is masked before the payload hits a log line.
var scrubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)("(?:password|passwd|api_key|apikey|token|secret|authorization)"\s*:\s*")[^"]*(")`),
	regexp.MustCompile(`(?i)\b(bearer\s+)[A-Za-z0-9._\-]+`),
}

// Scrub masks credential-looking material in a raw payload so it can be
// logged. The input is returned unchanged when nothing matches.
func Scrub(payload string) string {
	for _, re := range scrubPatterns {
		payload = re.ReplaceAllString(payload, "${1}********${2}")
	}
	return payload
}
