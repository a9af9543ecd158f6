// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// TaskStore owns the tasks of one orchestrator instance.
//
// The store is the only shared mutable state of a simulation run. All
// access goes through store methods; [TaskStore.Get] and
// [TaskStore.ListByContext] return deep copies so callers never retain
// live references. History and artifacts are append-only, and state
// transitions follow [Task.ApplyTransition] monotonicity.
type TaskStore interface {
	// Create registers a new task. The task id must be unused.
	Create(ctx context.Context, task *Task) error

	// Get returns a copy of the task, or [TaskNotFoundError].
	Get(ctx context.Context, taskID string) (*Task, error)

	// Transition moves the task to the next state. errMsg populates
	// Status.Error when the next state is FAILED.
	Transition(ctx context.Context, taskID string, state TaskState, errMsg string) error

	// AppendMessage appends one message to the task history.
	AppendMessage(ctx context.Context, taskID string, msg *Message) error

	// AppendArtifacts appends artifacts to the task. Appends are
	// permitted on terminal tasks: a parent aggregating a nested result
	// attributes artifacts after its child completed.
	AppendArtifacts(ctx context.Context, taskID string, artifacts ...*Artifact) error

	// ListByContext returns copies of all tasks belonging to the context,
	// including tasks of derived child contexts.
	ListByContext(ctx context.Context, contextID string) ([]*Task, error)

	// ActiveContexts returns the distinct context ids of stored tasks.
	ActiveContexts(ctx context.Context) ([]string, error)

	// Len reports the number of stored tasks.
	Len() int
}
