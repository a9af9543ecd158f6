// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pyasyncio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// TaskGroupError aggregates the errors of a failed [TaskGroup], mirroring
// Python's ExceptionGroup semantics.
type TaskGroupError struct {
	Errors  []error
	Message string
}

var _ error = (*TaskGroupError)(nil)

// Error implements the error interface.
func (e *TaskGroupError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("task group failed with %d error(s)", len(e.Errors))
}

// Unwrap returns the underlying errors for [errors.Is] and [errors.As].
func (e *TaskGroupError) Unwrap() []error {
	return e.Errors
}

// TaskGroup coordinates a set of related tasks with structured concurrency,
// mirroring Python's asyncio.TaskGroup: when any task fails, the remaining
// tasks are cancelled, and [TaskGroup.Wait] surfaces every collected error.
type TaskGroup[T any] struct {
	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc

	tasks    []*Task[T]
	done     chan struct{}
	finished atomic.Bool

	errors     []error
	firstError error
	results    []T

	activeCount atomic.Int64
}

// NewTaskGroup creates a new task group whose tasks inherit cancellation
// from ctx.
func NewTaskGroup[T any](ctx context.Context) *TaskGroup[T] {
	groupCtx, cancel := context.WithCancel(ctx)
	return &TaskGroup[T]{
		ctx:    groupCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// CreateTask adds a new task to the group and starts it immediately.
func (tg *TaskGroup[T]) CreateTask(fn func(context.Context) (T, error)) (*Task[T], error) {
	return tg.CreateNamedTask("", fn)
}

// CreateNamedTask adds a new named task to the group and starts it
// immediately. It fails once the group has finished.
func (tg *TaskGroup[T]) CreateNamedTask(name string, fn func(context.Context) (T, error)) (*Task[T], error) {
	if fn == nil {
		return nil, fmt.Errorf("task function cannot be nil")
	}
	if tg.finished.Load() {
		return nil, fmt.Errorf("cannot add task to finished task group")
	}

	task := CreateNamedTask(tg.ctx, name, fn)

	tg.mu.Lock()
	tg.tasks = append(tg.tasks, task)
	tg.mu.Unlock()

	tg.activeCount.Add(1)
	go tg.monitorTask(task)

	return task, nil
}

// monitorTask records the outcome of a single task and, on failure, cancels
// the rest of the group. The last task to finish releases waiters.
func (tg *TaskGroup[T]) monitorTask(task *Task[T]) {
	result, err := task.Wait(context.Background())

	tg.mu.Lock()
	if err != nil {
		tg.errors = append(tg.errors, err)
		if tg.firstError == nil {
			tg.firstError = err
		}
		tg.cancel()
	} else {
		tg.results = append(tg.results, result)
	}
	tg.mu.Unlock()

	if tg.activeCount.Add(-1) == 0 && tg.finished.CompareAndSwap(false, true) {
		close(tg.done)
	}
}

// Wait blocks until every task in the group has finished or ctx is done.
//
// On success it returns the results of all tasks in completion order. If any
// task failed it returns a [*TaskGroupError] carrying every error.
func (tg *TaskGroup[T]) Wait(ctx context.Context) ([]T, error) {
	tg.mu.RLock()
	taskCount := len(tg.tasks)
	tg.mu.RUnlock()

	if taskCount == 0 {
		return nil, nil
	}

	select {
	case <-tg.done:
		tg.mu.RLock()
		defer tg.mu.RUnlock()

		if len(tg.errors) > 0 {
			return nil, &TaskGroupError{Errors: append([]error(nil), tg.errors...)}
		}
		return append([]T(nil), tg.results...), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel cancels every task in the group.
func (tg *TaskGroup[T]) Cancel() {
	tg.cancel()
}

// Done returns a channel that is closed when all tasks have finished.
func (tg *TaskGroup[T]) Done() <-chan struct{} {
	return tg.done
}

// Cancelled reports whether the group's context was cancelled.
func (tg *TaskGroup[T]) Cancelled() bool {
	return tg.ctx.Err() != nil
}

// TaskCount returns the number of tasks added to the group.
func (tg *TaskGroup[T]) TaskCount() int {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	return len(tg.tasks)
}

// ActiveCount returns the number of tasks still running.
func (tg *TaskGroup[T]) ActiveCount() int {
	return int(tg.activeCount.Load())
}

// Tasks returns a snapshot of the tasks in the group.
func (tg *TaskGroup[T]) Tasks() []*Task[T] {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	return append([]*Task[T](nil), tg.tasks...)
}

// Context returns the group's context.
func (tg *TaskGroup[T]) Context() context.Context {
	return tg.ctx
}

// String returns a string representation of the group.
func (tg *TaskGroup[T]) String() string {
	return fmt.Sprintf("TaskGroup(tasks=%d, active=%d)", tg.TaskCount(), tg.ActiveCount())
}

// Gather runs the given functions concurrently and waits for all of them,
// mirroring Python's asyncio.gather(): the first failure cancels the
// remaining functions and is reported through a [*TaskGroupError].
func Gather[T any](ctx context.Context, fns ...func(context.Context) (T, error)) ([]T, error) {
	if len(fns) == 0 {
		return nil, nil
	}

	tg := NewTaskGroup[T](ctx)
	for i, fn := range fns {
		if _, err := tg.CreateNamedTask(fmt.Sprintf("gather-task-%d", i), fn); err != nil {
			tg.Cancel()
			return nil, fmt.Errorf("failed to create gather task %d: %w", i, err)
		}
	}

	return tg.Wait(ctx)
}
