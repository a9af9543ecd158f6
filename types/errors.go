// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// Validation sentinels returned by the service boundary before any task is
// created.
var (
	// ErrEmptyContextID rejects a simulation input without a context id.
	ErrEmptyContextID = errors.New("context_id cannot be empty")

	// ErrEmptyQuery rejects a simulation input without a query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrTeamEmptyContextID rejects a team execution request without a
	// context id.
	ErrTeamEmptyContextID = errors.New("team execution context_id cannot be empty")

	// ErrTeamEmptyQuery rejects a team execution request without a query.
	ErrTeamEmptyQuery = errors.New("team execution query cannot be empty")

	// ErrNoAgents indicates an empty agent registry.
	ErrNoAgents = errors.New("No agents available in registry")
)

// AgentNotFoundError indicates that a named agent does not exist in the
// registry. Known carries the names that do exist so the caller (typically
// an LLM choosing agents) can self-correct.
type AgentNotFoundError struct {
	// Name is the agent that was requested.
	Name string

	// Known lists the agent names and ids present in the registry.
	Known []string
}

var _ error = (*AgentNotFoundError)(nil)

// Error implements the error interface. At most ten known names are listed;
// a trailing ellipsis signals truncation.
func (e *AgentNotFoundError) Error() string {
	names := e.Known
	if len(names) > 10 {
		names = names[:10]
	}
	available := strings.Join(names, ", ")
	if len(names) >= 10 {
		available += "..."
	}
	return fmt.Sprintf("Agent '%s' not found in registry. Available agents: %s", e.Name, available)
}

// DepthExceededError indicates an attempted delegation with an exhausted
// recursion depth budget. The invocation fails fast; no child task is
// created.
type DepthExceededError struct {
	// AgentName is the agent that was about to be invoked.
	AgentName string

	// MaxDepth is the remaining depth budget at the call site.
	MaxDepth int
}

var _ error = (*DepthExceededError)(nil)

// Error implements the error interface.
func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("maximum recursion depth reached: cannot invoke agent %q with depth budget %d", e.AgentName, e.MaxDepth)
}

// TaskNotFoundError indicates a lookup of an unknown task id.
type TaskNotFoundError struct {
	TaskID string
}

var _ error = (*TaskNotFoundError)(nil)

// Error implements the error interface.
func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// TerminalTaskError indicates an attempted transition out of a terminal
// task state. Terminal states are final; the status is left untouched.
type TerminalTaskError struct {
	TaskID    string
	State     TaskState
	Requested TaskState
}

var _ error = (*TerminalTaskError)(nil)

// Error implements the error interface.
func (e *TerminalTaskError) Error() string {
	return fmt.Sprintf("task %s is in terminal state %s: cannot transition to %s", e.TaskID, e.State, e.Requested)
}

// TransitionError indicates a transition the task state machine does not
// allow.
type TransitionError struct {
	TaskID string
	From   TaskState
	To     TaskState
}

var _ error = (*TransitionError)(nil)

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid task state transition for %s: %s -> %s", e.TaskID, e.From, e.To)
}
