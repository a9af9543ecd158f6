// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry provides the client for the agent registry's JSON-RPC
// endpoint.
//
// The registry holds the agent cards of all registered personas. This
// package is a client only: listing, searching and name lookup. Matching
// and indexing happen on the registry side.
package registry
