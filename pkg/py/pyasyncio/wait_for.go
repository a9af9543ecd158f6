// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pyasyncio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutError is returned when an operation exceeds its time budget,
// mirroring Python's asyncio.TimeoutError.
type TimeoutError struct {
	// Message provides additional context about the timeout.
	Message string

	// Timeout is the duration that was exceeded.
	Timeout time.Duration
}

var _ error = (*TimeoutError)(nil)

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Timeout > 0 {
		return fmt.Sprintf("operation timed out after %s", e.Timeout)
	}
	return "operation timed out"
}

// NewTimeoutError creates a [TimeoutError] for the given duration.
func NewTimeoutError(timeout time.Duration) *TimeoutError {
	return &TimeoutError{Timeout: timeout}
}

// NewTimeoutErrorWithMessage creates a [TimeoutError] with a custom message.
func NewTimeoutErrorWithMessage(timeout time.Duration, message string) *TimeoutError {
	return &TimeoutError{Message: message, Timeout: timeout}
}

// WaitFor runs fn with a timeout, mirroring Python's asyncio.wait_for().
//
// If fn does not complete within the timeout it is cancelled and a
// [*TimeoutError] is returned. A non-positive timeout fails immediately.
func WaitFor[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if fn == nil {
		return *new(T), NewTimeoutErrorWithMessage(timeout, "function cannot be nil")
	}
	if timeout <= 0 {
		return *new(T), NewTimeoutErrorWithMessage(timeout, "timeout must be positive")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	task := CreateTask(timeoutCtx, fn)

	result, err := task.Wait(timeoutCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			task.Cancel()
			return *new(T), NewTimeoutError(timeout)
		}
		return *new(T), err
	}

	return result, nil
}

// WaitForTask waits for an already-running task with a timeout.
//
// Unlike [WaitFor], the task keeps running if the timeout fires; only the
// wait is abandoned.
func WaitForTask[T any](ctx context.Context, timeout time.Duration, task *Task[T]) (T, error) {
	if task == nil {
		return *new(T), NewTimeoutErrorWithMessage(timeout, "task cannot be nil")
	}
	if timeout <= 0 {
		return *new(T), NewTimeoutErrorWithMessage(timeout, "timeout must be positive")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := task.Wait(timeoutCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return *new(T), NewTimeoutError(timeout)
		}
		return *new(T), err
	}

	return result, nil
}
