// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pyasyncio ports the subset of Python's asyncio task model that the
// simulation runtime relies on: [Task] mirrors asyncio.Task, [TaskGroup]
// mirrors asyncio.TaskGroup, [Gather] mirrors asyncio.gather and [WaitFor]
// mirrors asyncio.wait_for. Each primitive is backed by plain goroutines and
// [context.Context] cancellation.
package pyasyncio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// TaskState represents the lifecycle state of a [Task].
type TaskState int

const (
	// TaskPending indicates the task has been created but not started.
	TaskPending TaskState = iota

	// TaskRunning indicates the task is currently executing.
	TaskRunning

	// TaskDone indicates the task completed, successfully or with an error.
	TaskDone

	// TaskCancelled indicates the task was cancelled before completion.
	TaskCancelled
)

// String returns a string representation of the task state.
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	case TaskCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// TaskCancelledError is returned when a task is cancelled, mirroring Python's
// asyncio.CancelledError.
type TaskCancelledError struct {
	Message string
}

var _ error = (*TaskCancelledError)(nil)

// Error implements the error interface.
func (e *TaskCancelledError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("task cancelled: %s", e.Message)
	}
	return "task cancelled"
}

// Task represents a concurrent operation, similar to Python's asyncio.Task.
//
// A task starts executing immediately upon creation and can be cancelled,
// monitored and waited on from any goroutine.
type Task[T any] struct {
	mu sync.RWMutex

	state  atomic.Int64
	ctx    context.Context
	cancel context.CancelFunc

	fn     func(context.Context) (T, error)
	result T
	err    error

	done chan struct{}
	name string
}

// CreateTask creates and immediately starts a new task executing fn,
// mirroring Python's asyncio.create_task().
//
// The task runs in its own goroutine and inherits cancellation from ctx.
// fn must not be nil.
func CreateTask[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	return CreateNamedTask(ctx, "", fn)
}

// CreateNamedTask creates and immediately starts a new named task executing fn.
// The name is carried for debugging and log attribution only.
func CreateNamedTask[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) *Task[T] {
	if fn == nil {
		panic("pyasyncio: task function cannot be nil")
	}

	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		ctx:    taskCtx,
		cancel: cancel,
		fn:     fn,
		done:   make(chan struct{}),
		name:   name,
	}
	t.state.Store(int64(TaskPending))

	go t.run()

	return t
}

// run executes the task function and records the outcome.
func (t *Task[T]) run() {
	defer close(t.done)

	if t.ctx.Err() != nil {
		t.finish(TaskCancelled, *new(T), &TaskCancelledError{Message: t.name})
		return
	}

	t.state.Store(int64(TaskRunning))
	result, err := t.fn(t.ctx)

	// A context error surfacing from fn counts as cancellation, matching
	// asyncio's CancelledError propagation.
	if t.ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		t.finish(TaskCancelled, *new(T), &TaskCancelledError{Message: t.name})
		return
	}

	t.finish(TaskDone, result, err)
}

// finish transitions the task into a terminal state.
func (t *Task[T]) finish(state TaskState, result T, err error) {
	t.mu.Lock()
	t.result = result
	t.err = err
	t.mu.Unlock()
	t.state.Store(int64(state))
}

// Cancel requests cancellation of the task, mirroring Task.cancel().
//
// It reports whether cancellation was requested; it returns false when the
// task has already reached a terminal state.
func (t *Task[T]) Cancel() bool {
	state := TaskState(t.state.Load())
	if state == TaskDone || state == TaskCancelled {
		return false
	}
	t.cancel()
	return true
}

// Cancelled reports whether the task was cancelled.
func (t *Task[T]) Cancelled() bool {
	return TaskState(t.state.Load()) == TaskCancelled
}

// Done reports whether the task reached a terminal state.
func (t *Task[T]) Done() bool {
	state := TaskState(t.state.Load())
	return state == TaskDone || state == TaskCancelled
}

// State returns the current task state.
func (t *Task[T]) State() TaskState {
	return TaskState(t.state.Load())
}

// Wait blocks until the task completes or ctx is done, then returns the
// task's result. Waiting with an expired ctx does not cancel the task itself.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return *new(T), ctx.Err()
	}
}

// Result returns the task's result without blocking, mirroring
// Task.result(). It returns an error if the task is not yet done.
func (t *Task[T]) Result() (T, error) {
	if !t.Done() {
		return *new(T), errors.New("task is not yet done")
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.result, t.err
}

// Exception returns the task's error without blocking, mirroring
// Task.exception(). It returns nil while the task is still running.
func (t *Task[T]) Exception() error {
	if !t.Done() {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Name returns the task's name.
func (t *Task[T]) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// SetName sets the task's name.
func (t *Task[T]) SetName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = name
}

// Context returns the task's context.
func (t *Task[T]) Context() context.Context {
	return t.ctx
}

// String returns a string representation of the task.
func (t *Task[T]) String() string {
	name := t.Name()
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("Task[%s](%s)", name, t.State())
}
