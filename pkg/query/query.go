// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package query defines the wire contract of the local state database:
// the request grammar, the reply envelope, and the status codes shared by
// every parser implementation.
package query

import (
	"fmt"
	"strings"
)

// Status is the coarse outcome of a parsed query.
type Status int

// Status values are part of the reply contract and must not be renumbered.
const (
	StatusOK    Status = 0
	StatusError Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "err"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Request is a decoded query line. The grammar is
//
//	<target> <command> [payload]
//
// where payload is kept verbatim, it usually carries JSON.
type Request struct {
	Target  string
	Command string
	Payload string
}

// ParseRequest decodes a raw query line. Runs of spaces between the
// leading tokens are tolerated, the payload is preserved as written.
func ParseRequest(input string) (Request, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Request{}, ErrEmptyQuery
	}

	target, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimLeft(rest, " ")
	command, payload, _ := strings.Cut(rest, " ")

	return Request{
		Target:  target,
		Command: command,
		Payload: strings.TrimLeft(payload, " "),
	}, nil
}

// Reply is what a parser hands back to the caller: a status code, the
// response line, and auxiliary diagnostics that do not belong on the wire.
type Reply struct {
	Status   Status
	Response string
	Output   string
}

// OK builds a success reply. The response line is "ok", followed by the
// payload when there is one.
func OK(payload string) Reply {
	response := "ok"
	if payload != "" {
		response += " " + payload
	}
	return Reply{Status: StatusOK, Response: response}
}

// Errf builds a failure reply with a formatted message. The response line
// is "err", followed by the message when there is one.
func Errf(format string, args ...interface{}) Reply {
	message := fmt.Sprintf(format, args...)
	response := "err"
	if message != "" {
		response += " " + message
	}
	return Reply{Status: StatusError, Response: response}
}

// WithOutput returns a copy of the reply carrying the given diagnostics.
func (r Reply) WithOutput(format string, args ...interface{}) Reply {
	r.Output = fmt.Sprintf(format, args...)
	return r
}

// IsOK reports whether the reply carries a success status.
func (r Reply) IsOK() bool {
	return r.Status == StatusOK
}
