// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package invocation

import (
	"context"
)

// Scope identifies the agent execution a recursion tool is running inside:
// who is invoking, which task aggregates the nested artifacts and how much
// depth budget is left.
type Scope struct {
	// AgentName is the invoking agent's display name.
	AgentName string

	// TaskID is the invoking execution's task id. Nested artifacts are
	// aggregated onto this task.
	TaskID string

	// ContextID is the invoking execution's context id. Child contexts are
	// derived from it.
	ContextID string

	// RemainingDepth is the depth budget left at the call site. Zero
	// forbids any further delegation.
	RemainingDepth int
}

type scopeKey struct{}

// NewContext returns a context carrying scope. Executors install the scope
// before handing the context to the model layer, so tools dispatched from
// function calls observe their caller.
func NewContext(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext extracts the invocation scope from ctx.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	return scope, ok
}
