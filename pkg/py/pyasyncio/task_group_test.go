// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pyasyncio_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/mantis/pkg/py/pyasyncio"
)

func TestTaskGroupAllSucceed(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	tg := pyasyncio.NewTaskGroup[int](ctx)

	for i := range 5 {
		if _, err := tg.CreateNamedTask(fmt.Sprintf("worker-%d", i), func(ctx context.Context) (int, error) {
			return i * 10, nil
		}); err != nil {
			t.Fatalf("CreateNamedTask failed: %v", err)
		}
	}

	results, err := tg.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	sort.Ints(results)
	want := []int{0, 10, 20, 30, 40}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Results mismatch (-want +got):\n%s", diff)
	}

	if tg.TaskCount() != 5 {
		t.Errorf("Expected 5 tasks, got %d", tg.TaskCount())
	}
	if tg.ActiveCount() != 0 {
		t.Errorf("Expected 0 active tasks, got %d", tg.ActiveCount())
	}
}

func TestTaskGroupEmptyWait(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	tg := pyasyncio.NewTaskGroup[string](ctx)

	results, err := tg.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait on empty group failed: %v", err)
	}
	if results != nil {
		t.Errorf("Expected nil results, got %v", results)
	}
}

func TestTaskGroupFailureCancelsSiblings(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	tg := pyasyncio.NewTaskGroup[string](ctx)
	taskErr := errors.New("worker exploded")
	siblingCancelled := make(chan bool, 1)

	if _, err := tg.CreateNamedTask("failing", func(ctx context.Context) (string, error) {
		return "", taskErr
	}); err != nil {
		t.Fatalf("CreateNamedTask failed: %v", err)
	}

	if _, err := tg.CreateNamedTask("sibling", func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			siblingCancelled <- true
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
			siblingCancelled <- false
			return "never", nil
		}
	}); err != nil {
		t.Fatalf("CreateNamedTask failed: %v", err)
	}

	_, err := tg.Wait(ctx)
	if err == nil {
		t.Fatal("Expected Wait to fail")
	}

	var groupErr *pyasyncio.TaskGroupError
	if !errors.As(err, &groupErr) {
		t.Fatalf("Expected TaskGroupError, got %T: %v", err, err)
	}
	if !errors.Is(groupErr, taskErr) {
		t.Errorf("Group error should wrap task error, got %v", groupErr)
	}

	select {
	case cancelled := <-siblingCancelled:
		if !cancelled {
			t.Error("Sibling task should have been cancelled")
		}
	case <-time.After(time.Second):
		t.Fatal("Sibling task did not finish")
	}
}

func TestTaskGroupCreateAfterFinish(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	tg := pyasyncio.NewTaskGroup[int](ctx)

	if _, err := tg.CreateTask(func(ctx context.Context) (int, error) {
		return 1, nil
	}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := tg.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	_, err := tg.CreateTask(func(ctx context.Context) (int, error) {
		return 2, nil
	})
	if err == nil {
		t.Fatal("Expected CreateTask on finished group to fail")
	}
	if err.Error() != "cannot add task to finished task group" {
		t.Errorf("Unexpected error message: %q", err.Error())
	}
}

func TestTaskGroupNilFunction(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	tg := pyasyncio.NewTaskGroup[int](ctx)

	if _, err := tg.CreateTask(nil); err == nil {
		t.Fatal("Expected CreateTask with nil function to fail")
	}
}

func TestTaskGroupCancel(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	tg := pyasyncio.NewTaskGroup[string](ctx)
	started := make(chan struct{})

	if _, err := tg.CreateNamedTask("long", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	}); err != nil {
		t.Fatalf("CreateNamedTask failed: %v", err)
	}

	<-started
	tg.Cancel()

	if _, err := tg.Wait(ctx); err == nil {
		t.Fatal("Expected Wait on cancelled group to fail")
	}

	if !tg.Cancelled() {
		t.Error("Group should report cancelled")
	}
}

func TestGather(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	results, err := pyasyncio.Gather(ctx,
		func(ctx context.Context) (string, error) { return "alpha", nil },
		func(ctx context.Context) (string, error) { return "beta", nil },
		func(ctx context.Context) (string, error) { return "gamma", nil },
	)
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	sort.Strings(results)
	want := []string{"alpha", "beta", "gamma"}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Results mismatch (-want +got):\n%s", diff)
	}
}

func TestGatherEmpty(t *testing.T) {
	t.Parallel()

	results, err := pyasyncio.Gather[int](t.Context())
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if results != nil {
		t.Errorf("Expected nil results, got %v", results)
	}
}

func TestGatherFirstFailureWins(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	boom := errors.New("boom")

	_, err := pyasyncio.Gather(ctx,
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, boom },
	)
	if err == nil {
		t.Fatal("Expected Gather to fail")
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected error to wrap boom, got %v", err)
	}
}
