// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

// Package rbac maps authorization contexts to roles and resolves what the
// matched roles allow or deny.
//
// Roles are defined in policy files and carry a rule, a free form document
// evaluated against the authorization context by the eval subpackage. The
// rules subpackage loads and compiles policy files, this package answers the
// final question: given a context, is this action on this resource allowed.
package rbac
