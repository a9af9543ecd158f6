// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/mantis/task"
	"github.com/go-a2a/mantis/types"
)

func quietStore(opts ...task.Option) *task.Store {
	opts = append([]task.Option{task.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return task.NewStore(opts...)
}

func TestStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	created := types.NewTask("ctx-1")
	if err := s.Create(ctx, created); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStoreCreateRejectsDuplicates(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	tsk := types.NewTask("ctx-1")
	if err := s.Create(ctx, tsk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, tsk); err == nil {
		t.Fatal("Create() with duplicate id: expected error, got nil")
	}
}

func TestStoreCopiesOnReadAndWrite(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	original := types.NewTask("ctx-1")
	if err := s.Create(ctx, original); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Mutating the caller's value after Create must not affect the store.
	original.ContextID = "mutated"
	original.AddMessage(types.NewMessage("resp-aaaaaaaaaaaa", types.RoleAgent, "sneaky"))

	got, err := s.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ContextID != "ctx-1" {
		t.Errorf("stored ContextID = %q, want %q", got.ContextID, "ctx-1")
	}
	if len(got.History) != 0 {
		t.Errorf("stored History length = %d, want 0", len(got.History))
	}

	// Mutating a returned copy must not affect the store either.
	got.Status.State = types.TaskStateFailed
	again, err := s.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Status.State != types.TaskStateSubmitted {
		t.Errorf("stored state = %v, want %v", again.Status.State, types.TaskStateSubmitted)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	t.Parallel()

	s := quietStore()
	_, err := s.Get(t.Context(), "sim-missing")

	var notFound *types.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get() error = %v, want *types.TaskNotFoundError", err)
	}
	if notFound.TaskID != "sim-missing" {
		t.Errorf("TaskID = %q, want %q", notFound.TaskID, "sim-missing")
	}
}

func TestStoreTransition(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	tsk := types.NewTask("ctx-1")
	if err := s.Create(ctx, tsk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Transition(ctx, tsk.ID, types.TaskStateWorking, ""); err != nil {
		t.Fatalf("Transition(working) error = %v", err)
	}
	if err := s.Transition(ctx, tsk.ID, types.TaskStateFailed, "model call timed out"); err != nil {
		t.Fatalf("Transition(failed) error = %v", err)
	}

	got, err := s.Get(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status.State != types.TaskStateFailed {
		t.Errorf("state = %v, want %v", got.Status.State, types.TaskStateFailed)
	}
	if got.Status.Error != "model call timed out" {
		t.Errorf("error = %q, want %q", got.Status.Error, "model call timed out")
	}

	// Terminal tasks reject further transitions.
	err = s.Transition(ctx, tsk.ID, types.TaskStateCompleted, "")
	var terminal *types.TerminalTaskError
	if !errors.As(err, &terminal) {
		t.Fatalf("Transition() on terminal task: error = %v, want *types.TerminalTaskError", err)
	}

	// Unknown task ids report not-found.
	err = s.Transition(ctx, "sim-missing", types.TaskStateWorking, "")
	var notFound *types.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Transition() error = %v, want *types.TaskNotFoundError", err)
	}
}

func TestStoreAppendMessage(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	tsk := types.NewTask("ctx-1")
	if err := s.Create(ctx, tsk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Transition(ctx, tsk.ID, types.TaskStateWorking, ""); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	msg := types.NewMessage("resp-aaaaaaaaaaaa", types.RoleAgent, "analysis complete")
	if err := s.AppendMessage(ctx, tsk.ID, msg); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}

	got, err := s.Get(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.History) != 1 || got.History[0].Text() != "analysis complete" {
		t.Errorf("History = %+v, want one message with text %q", got.History, "analysis complete")
	}

	// History closes once the task is terminal.
	if err := s.Transition(ctx, tsk.ID, types.TaskStateCompleted, ""); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if err := s.AppendMessage(ctx, tsk.ID, msg); err == nil {
		t.Error("AppendMessage() on completed task: expected error, got nil")
	}
}

func TestStoreAppendArtifactsOnTerminalTask(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	tsk := types.NewTask("ctx-1")
	if err := s.Create(ctx, tsk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Transition(ctx, tsk.ID, types.TaskStateWorking, ""); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if err := s.Transition(ctx, tsk.ID, types.TaskStateCompleted, ""); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	// Nested results are attached to the parent after it completed.
	art := types.NewResponseArtifact("Chief of Staff", "delegated summary")
	if err := s.AppendArtifacts(ctx, tsk.ID, art, nil); err != nil {
		t.Fatalf("AppendArtifacts() error = %v", err)
	}

	got, err := s.Get(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Artifacts) != 1 {
		t.Fatalf("Artifacts length = %d, want 1 (nil artifacts skipped)", len(got.Artifacts))
	}
	if got.Artifacts[0].Name != "Chief of Staff_response" {
		t.Errorf("artifact name = %q, want %q", got.Artifacts[0].Name, "Chief of Staff_response")
	}
}

func TestStoreListByContext(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	for _, contextID := range []string{
		"ctx-1",
		"ctx-1-recursive-chief-of-staff",
		"ctx-1-member-0",
		"ctx-10",
		"ctx-2",
	} {
		if err := s.Create(ctx, types.NewTask(contextID)); err != nil {
			t.Fatalf("Create(%s) error = %v", contextID, err)
		}
	}

	tasks, err := s.ListByContext(ctx, "ctx-1")
	if err != nil {
		t.Fatalf("ListByContext() error = %v", err)
	}

	var ids []string
	for _, tsk := range tasks {
		ids = append(ids, tsk.ID)
	}
	want := []string{"sim-ctx-1", "sim-ctx-1-member-0", "sim-ctx-1-recursive-chief-of-staff"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ListByContext() ids mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreActiveContexts(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore()

	for _, contextID := range []string{"ctx-b", "ctx-a", "ctx-c"} {
		if err := s.Create(ctx, types.NewTask(contextID)); err != nil {
			t.Fatalf("Create(%s) error = %v", contextID, err)
		}
	}

	got, err := s.ActiveContexts(ctx)
	if err != nil {
		t.Fatalf("ActiveContexts() error = %v", err)
	}
	want := []string{"ctx-a", "ctx-b", "ctx-c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ActiveContexts() mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreTTLEvictsOnlyTerminalTasks(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore(task.WithTTL(time.Nanosecond))

	done := types.NewTask("ctx-done")
	if err := s.Create(ctx, done); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Transition(ctx, done.ID, types.TaskStateWorking, ""); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if err := s.Transition(ctx, done.ID, types.TaskStateCompleted, ""); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	live := types.NewTask("ctx-live")
	if err := s.Create(ctx, live); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Eviction runs on the next Create after the TTL elapsed.
	time.Sleep(time.Millisecond)
	if err := s.Create(ctx, types.NewTask("ctx-new")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := s.Get(ctx, done.ID); err == nil {
		t.Error("expected expired terminal task to be evicted")
	}
	if _, err := s.Get(ctx, live.ID); err != nil {
		t.Errorf("live task evicted: %v", err)
	}
}

func TestStoreCapacityEvictsOldestTerminal(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore(task.WithMaxEntries(2), task.WithTTL(0))

	complete := func(contextID string) string {
		t.Helper()
		tsk := types.NewTask(contextID)
		if err := s.Create(ctx, tsk); err != nil {
			t.Fatalf("Create(%s) error = %v", contextID, err)
		}
		if err := s.Transition(ctx, tsk.ID, types.TaskStateWorking, ""); err != nil {
			t.Fatalf("Transition() error = %v", err)
		}
		if err := s.Transition(ctx, tsk.ID, types.TaskStateCompleted, ""); err != nil {
			t.Fatalf("Transition() error = %v", err)
		}
		return tsk.ID
	}

	oldest := complete("ctx-old")
	time.Sleep(2 * time.Millisecond)
	newest := complete("ctx-new")
	time.Sleep(2 * time.Millisecond)

	if err := s.Create(ctx, types.NewTask("ctx-extra")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if s.Len() > 2 {
		t.Errorf("Len() = %d, want at most 2", s.Len())
	}
	if _, err := s.Get(ctx, oldest); err == nil {
		t.Error("expected oldest terminal task to be evicted")
	}
	if _, err := s.Get(ctx, newest); err != nil {
		t.Errorf("newest terminal task evicted: %v", err)
	}
}

func TestStoreCapacityNeverEvictsLiveTasks(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := quietStore(task.WithMaxEntries(2), task.WithTTL(0))

	first := types.NewTask("ctx-live-1")
	second := types.NewTask("ctx-live-2")
	for _, tsk := range []*types.Task{first, second} {
		if err := s.Create(ctx, tsk); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	// The bound is soft while every stored task is still in flight.
	if err := s.Create(ctx, types.NewTask("ctx-live-3")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	for _, id := range []string{first.ID, second.ID} {
		if _, err := s.Get(ctx, id); err != nil {
			t.Errorf("live task %s evicted: %v", id, err)
		}
	}
}
