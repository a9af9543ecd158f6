// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pyasyncio_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/mantis/pkg/py/pyasyncio"
)

func TestTaskBasicLifecycle(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	executed := false

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		executed = true
		return "success", nil
	})

	if task.Cancelled() {
		t.Error("New task should not be cancelled")
	}

	result, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("Task failed: %v", err)
	}

	if result != "success" {
		t.Errorf("Expected 'success', got '%s'", result)
	}

	if !executed {
		t.Error("Task function was not executed")
	}

	if !task.Done() {
		t.Error("Task should be done after completion")
	}

	if task.State() != pyasyncio.TaskDone {
		t.Errorf("Expected TaskDone state, got %v", task.State())
	}
}

func TestTaskWithError(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	expectedErr := errors.New("task error")

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (int, error) {
		return 0, expectedErr
	})

	result, err := task.Wait(ctx)
	if err == nil {
		t.Fatal("Expected task to fail")
	}

	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}

	if result != 0 {
		t.Errorf("Expected zero result on error, got %d", result)
	}

	if taskErr := task.Exception(); !errors.Is(taskErr, expectedErr) {
		t.Errorf("Exception() returned wrong error: %v", taskErr)
	}
}

func TestTaskCancellation(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	started := make(chan struct{})

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	<-started

	if !task.Cancel() {
		t.Error("Cancel should return true for running task")
	}

	_, err := task.Wait(ctx)
	if err == nil {
		t.Fatal("Expected cancelled task to return error")
	}

	var cancelledErr *pyasyncio.TaskCancelledError
	if !errors.As(err, &cancelledErr) {
		t.Errorf("Expected TaskCancelledError, got %T: %v", err, err)
	}

	if !task.Cancelled() {
		t.Error("Task should be cancelled")
	}

	if task.State() != pyasyncio.TaskCancelled {
		t.Errorf("Expected TaskCancelled state, got %v", task.State())
	}
}

func TestTaskCancelAfterDone(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		return "completed", nil
	})

	if _, err := task.Wait(ctx); err != nil {
		t.Fatalf("Task failed: %v", err)
	}

	if task.Cancel() {
		t.Error("Cancel should return false for completed task")
	}

	if task.Cancelled() {
		t.Error("Completed task should not be cancelled")
	}
}

func TestTaskNaming(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	task1 := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		return "unnamed", nil
	})
	if task1.Name() != "" {
		t.Errorf("Expected empty name, got '%s'", task1.Name())
	}

	task2 := pyasyncio.CreateNamedTask(ctx, "test-task", func(ctx context.Context) (string, error) {
		return "named", nil
	})
	if task2.Name() != "test-task" {
		t.Errorf("Expected 'test-task', got '%s'", task2.Name())
	}

	task1.SetName("renamed-task")
	if task1.Name() != "renamed-task" {
		t.Errorf("Expected 'renamed-task', got '%s'", task1.Name())
	}
}

func TestTaskResultBeforeDone(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	started := make(chan struct{})
	release := make(chan struct{})

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "eventually", nil
	})

	<-started

	if _, err := task.Result(); err == nil {
		t.Fatal("Result() should fail on incomplete task")
	} else if err.Error() != "task is not yet done" {
		t.Errorf("Unexpected error message: %q", err.Error())
	}

	close(release)
	if _, err := task.Wait(ctx); err != nil {
		t.Fatalf("Task failed: %v", err)
	}
}

func TestTaskWaitWithExpiredContext(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	release := make(chan struct{})

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		<-release
		return "slow task", nil
	})

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := task.Wait(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}

	// The wait expiring must not cancel the task itself.
	if task.Done() {
		t.Error("Task should still be running after wait timeout")
	}

	close(release)
	result, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("Task failed: %v", err)
	}
	if result != "slow task" {
		t.Errorf("Expected 'slow task', got '%s'", result)
	}
}

func TestTaskParentContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	started := make(chan struct{})

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	<-started
	cancel()

	_, err := task.Wait(context.Background())
	if err == nil {
		t.Fatal("Expected task to be cancelled")
	}

	var cancelledErr *pyasyncio.TaskCancelledError
	if !errors.As(err, &cancelledErr) {
		t.Errorf("Expected TaskCancelledError, got %T: %v", err, err)
	}
}

func TestTaskConcurrentWait(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	const numGoroutines = 50

	task := pyasyncio.CreateTask(ctx, func(ctx context.Context) (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 42, nil
	})

	var wg sync.WaitGroup
	results := make([]int, numGoroutines)
	errs := make([]error, numGoroutines)

	for i := range numGoroutines {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			results[index], errs[index] = task.Wait(ctx)
		}(i)
	}

	wg.Wait()

	for i := range numGoroutines {
		if errs[i] != nil {
			t.Errorf("Goroutine %d got error: %v", i, errs[i])
		}
		if results[i] != 42 {
			t.Errorf("Goroutine %d got result %d, expected 42", i, results[i])
		}
	}
}

func TestTaskString(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	task := pyasyncio.CreateNamedTask(ctx, "my-task", func(ctx context.Context) (string, error) {
		return "test", nil
	})

	if _, err := task.Wait(ctx); err != nil {
		t.Fatalf("Task failed: %v", err)
	}

	if diff := cmp.Diff("Task[my-task](done)", task.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}
