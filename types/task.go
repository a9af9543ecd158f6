// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"time"
)

// TaskState represents the lifecycle state of a simulation [Task].
//
// The machine is strictly monotonic:
//
//	SUBMITTED -> WORKING -> { COMPLETED | FAILED | CANCELLED }
//
// Terminal states never transition again; [Task.ApplyTransition] returns a
// [*TerminalTaskError] on any attempt.
type TaskState string

const (
	// TaskStateSubmitted is the initial state of a freshly created task.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being executed.
	TaskStateWorking TaskState = "working"

	// TaskStateCompleted indicates the task finished successfully.
	TaskStateCompleted TaskState = "completed"

	// TaskStateFailed indicates the task finished with an error.
	TaskStateFailed TaskState = "failed"

	// TaskStateCancelled indicates the task was cancelled before completion.
	TaskStateCancelled TaskState = "cancelled"
)

// String returns the state name.
func (s TaskState) String() string {
	return string(s)
}

// Terminal reports whether the state is COMPLETED, FAILED or CANCELLED.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a transition from s to next is allowed by
// the task state machine. A task may fail or be cancelled straight from
// SUBMITTED; it never leaves a terminal state.
func (s TaskState) CanTransition(next TaskState) bool {
	switch s {
	case TaskStateSubmitted:
		switch next {
		case TaskStateWorking, TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
			return true
		}
	case TaskStateWorking:
		switch next {
		case TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
			return true
		}
	}
	return false
}

// TaskStatus is the current status of a [Task].
type TaskStatus struct {
	// State is the lifecycle state.
	State TaskState `json:"state"`

	// Error carries the failure message when State is FAILED. It preserves
	// the underlying error text verbatim.
	Error string `json:"error,omitzero"`

	// Timestamp records when the state was entered.
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Task is one unit of simulation work, shaped after the A2A task object.
//
// A task is created in SUBMITTED, accumulates [Message] history and
// [Artifact] outputs while WORKING, and ends in exactly one terminal state.
// History and artifacts are append-only; entries are never rewritten, with
// the single exception of artifact aggregation from nested simulations into
// a parent task.
type Task struct {
	// ID is the unique task id, "sim-{contextID}" for simulation tasks.
	ID string `json:"id"`

	// ContextID groups the task with its conversation thread.
	ContextID string `json:"contextId"`

	// Status is the current lifecycle status.
	Status TaskStatus `json:"status"`

	// History is the append-only message log.
	History []*Message `json:"history,omitzero"`

	// Artifacts are the outputs produced by the task.
	Artifacts []*Artifact `json:"artifacts,omitzero"`

	// Metadata carries free-form execution annotations.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTask creates a SUBMITTED task for the given context with the
// deterministic "sim-" task id.
func NewTask(contextID string) *Task {
	return &Task{
		ID:        NewTaskID(contextID),
		ContextID: contextID,
		Status: TaskStatus{
			State:     TaskStateSubmitted,
			Timestamp: time.Now(),
		},
	}
}

// ApplyTransition moves the task to next, recording errMsg when next is
// FAILED. It returns a [*TerminalTaskError] when the task is already
// terminal and a [*TransitionError] when the transition is otherwise
// invalid; the status is never overwritten on error.
func (t *Task) ApplyTransition(next TaskState, errMsg string) error {
	if t.Status.State.Terminal() {
		return &TerminalTaskError{TaskID: t.ID, State: t.Status.State, Requested: next}
	}
	if !t.Status.State.CanTransition(next) {
		return &TransitionError{TaskID: t.ID, From: t.Status.State, To: next}
	}

	t.Status.State = next
	t.Status.Timestamp = time.Now()
	if next == TaskStateFailed {
		t.Status.Error = errMsg
	}
	return nil
}

// AddMessage appends messages to the task history.
func (t *Task) AddMessage(msgs ...*Message) {
	t.History = append(t.History, msgs...)
}

// AddArtifact appends artifacts to the task outputs.
func (t *Task) AddArtifact(artifacts ...*Artifact) {
	t.Artifacts = append(t.Artifacts, artifacts...)
}

// LastMessage returns the most recent history entry, or nil for an empty
// history.
func (t *Task) LastMessage() *Message {
	if len(t.History) == 0 {
		return nil
	}
	return t.History[len(t.History)-1]
}
