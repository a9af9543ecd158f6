// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides the in-memory task store backing a simulation
// orchestrator.
//
// The store is instance-scoped: each orchestrator owns one, there is no
// process-wide registry. Tasks are copied on the way in and on the way
// out, so callers never share live references with the store; every
// mutation goes through [Store.Transition], [Store.AppendMessage] or
// [Store.AppendArtifacts].
package task

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	deepcopy "github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/mantis/internal/xmaps"
	"github.com/go-a2a/mantis/types"
)

const (
	// DefaultTTL is how long a terminal task is retained before it
	// becomes eligible for eviction.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxEntries is the store capacity bound. Only terminal tasks
	// are evicted, so the bound is soft while tasks are in flight.
	DefaultMaxEntries = 1024
)

// entry wraps a stored task with its eviction bookkeeping.
type entry struct {
	task *types.Task

	// terminalAt is when the task entered a terminal state; zero while
	// the task is still live. Live tasks are never evicted.
	terminalAt time.Time
}

// Store is an in-memory implementation of [types.TaskStore] with TTL and
// capacity eviction of terminal tasks.
type Store struct {
	mu         sync.RWMutex
	tasks      map[string]*entry
	ttl        time.Duration
	maxEntries int
	logger     *slog.Logger
}

var _ types.TaskStore = (*Store)(nil)

// Option configures a [Store].
type Option func(*Store)

// WithTTL sets the retention period for terminal tasks. A non-positive
// TTL disables time-based eviction.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithMaxEntries sets the capacity bound. A non-positive bound disables
// capacity eviction.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.maxEntries = n
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty [Store] with [DefaultTTL] and
// [DefaultMaxEntries].
func NewStore(opts ...Option) *Store {
	s := &Store{
		tasks:      make(map[string]*entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// copyTask returns a deep copy of t.
func copyTask(t *types.Task) (*types.Task, error) {
	dst := &types.Task{}
	if err := deepcopy.Copy(dst, t); err != nil {
		return nil, fmt.Errorf("copy task %s: %w", t.ID, err)
	}
	return dst, nil
}

// Create registers a new task. The stored task is a copy; later changes
// to the caller's value are not seen by the store.
func (s *Store) Create(ctx context.Context, t *types.Task) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("task id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; ok {
		return fmt.Errorf("task %s already exists", t.ID)
	}

	stored, err := copyTask(t)
	if err != nil {
		return err
	}

	s.evictLocked(ctx)
	e := &entry{task: stored}
	if stored.Status.State.Terminal() {
		e.terminalAt = time.Now()
	}
	s.tasks[t.ID] = e

	s.logger.InfoContext(ctx, "Created task",
		slog.String("task_id", t.ID),
		slog.String("context_id", t.ContextID),
		slog.String("state", t.Status.State.String()),
	)

	return nil
}

// Get returns a copy of the task, or [types.TaskNotFoundError].
func (s *Store) Get(ctx context.Context, taskID string) (*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return nil, &types.TaskNotFoundError{TaskID: taskID}
	}
	return copyTask(e.task)
}

// Transition moves the task to the next lifecycle state, enforcing the
// monotonic state machine. errMsg populates Status.Error when next is
// FAILED.
func (s *Store) Transition(ctx context.Context, taskID string, next types.TaskState, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return &types.TaskNotFoundError{TaskID: taskID}
	}

	prev := e.task.Status.State
	if err := e.task.ApplyTransition(next, errMsg); err != nil {
		return err
	}
	if next.Terminal() {
		e.terminalAt = time.Now()
	}

	s.logger.InfoContext(ctx, "Task state transition",
		slog.String("task_id", taskID),
		slog.String("from", prev.String()),
		slog.String("to", next.String()),
	)

	return nil
}

// AppendMessage appends one message to the task history. The history of a
// terminal task is closed.
func (s *Store) AppendMessage(ctx context.Context, taskID string, msg *types.Message) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return &types.TaskNotFoundError{TaskID: taskID}
	}
	if e.task.Status.State.Terminal() {
		return fmt.Errorf("task %s is in terminal state %s: history is closed", taskID, e.task.Status.State)
	}

	stored := &types.Message{}
	if err := deepcopy.Copy(stored, msg); err != nil {
		return fmt.Errorf("copy message %s: %w", msg.MessageID, err)
	}
	e.task.AddMessage(stored)
	return nil
}

// AppendArtifacts appends artifacts to the task. Unlike history appends,
// artifact appends are allowed on terminal tasks: a parent aggregates a
// nested simulation's artifacts after the child task completed.
func (s *Store) AppendArtifacts(ctx context.Context, taskID string, artifacts ...*types.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return &types.TaskNotFoundError{TaskID: taskID}
	}

	for _, a := range artifacts {
		if a == nil {
			continue
		}
		stored := &types.Artifact{}
		if err := deepcopy.Copy(stored, a); err != nil {
			return fmt.Errorf("copy artifact %s: %w", a.ArtifactID, err)
		}
		e.task.AddArtifact(stored)
	}
	return nil
}

// ListByContext returns copies of all tasks belonging to contextID,
// including tasks of derived recursive and team-member contexts, ordered
// by task id.
func (s *Store) ListByContext(ctx context.Context, contextID string) ([]*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*types.Task
	for _, e := range s.tasks {
		if !types.IsChildContext(contextID, e.task.ContextID) {
			continue
		}
		copied, err := copyTask(e.task)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, copied)
	}

	slices.SortFunc(tasks, func(a, b *types.Task) int {
		return strings.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

// ActiveContexts returns the distinct context ids of stored tasks in
// ascending order.
func (s *Store) ActiveContexts(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.tasks))
	for _, e := range s.tasks {
		if e.task.ContextID != "" {
			seen[e.task.ContextID] = struct{}{}
		}
	}
	return xmaps.SortedKeys(seen), nil
}

// Len reports the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// evictLocked drops expired terminal tasks and, when over capacity, the
// oldest terminal tasks. Live tasks are never evicted. Callers must hold
// the write lock.
func (s *Store) evictLocked(ctx context.Context) {
	now := time.Now()

	if s.ttl > 0 {
		for id, e := range s.tasks {
			if !e.terminalAt.IsZero() && now.Sub(e.terminalAt) > s.ttl {
				delete(s.tasks, id)
				s.logger.DebugContext(ctx, "Evicted expired task",
					slog.String("task_id", id),
					slog.Time("terminal_at", e.terminalAt),
				)
			}
		}
	}

	if s.maxEntries <= 0 || len(s.tasks) < s.maxEntries {
		return
	}

	type victim struct {
		id         string
		terminalAt time.Time
	}
	var victims []victim
	for id, e := range s.tasks {
		if !e.terminalAt.IsZero() {
			victims = append(victims, victim{id: id, terminalAt: e.terminalAt})
		}
	}
	slices.SortFunc(victims, func(a, b victim) int {
		return a.terminalAt.Compare(b.terminalAt)
	})

	// Make room for the entry about to be inserted.
	for _, v := range victims {
		if len(s.tasks) < s.maxEntries {
			break
		}
		delete(s.tasks, v.id)
		s.logger.DebugContext(ctx, "Evicted task over capacity",
			slog.String("task_id", v.id),
		)
	}
}
