// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package invocation_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-a2a/mantis/invocation"
	"github.com/go-a2a/mantis/task"
	"github.com/go-a2a/mantis/types"
)

// fakeOrchestrator records executed inputs and answers with canned
// outputs.
type fakeOrchestrator struct {
	mu      sync.Mutex
	inputs  []*types.SimulationInput
	nested  map[string][]*types.SimulationOutput
	respond func(input *types.SimulationInput) (*types.SimulationOutput, error)
}

func (f *fakeOrchestrator) ExecuteSimulation(_ context.Context, input *types.SimulationInput) (*types.SimulationOutput, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	return f.respond(input)
}

func (f *fakeOrchestrator) AddNestedResult(parentTaskID string, output *types.SimulationOutput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nested == nil {
		f.nested = make(map[string][]*types.SimulationOutput)
	}
	f.nested[parentTaskID] = append(f.nested[parentTaskID], output)
}

type fakeLister struct {
	agents []*types.AgentCard
}

func (f *fakeLister) ListAgents(context.Context) ([]*types.AgentCard, error) {
	return f.agents, nil
}

func completedOutput(contextID, agentName, text string) *types.SimulationOutput {
	return &types.SimulationOutput{
		ContextID:         contextID,
		FinalState:        types.TaskStateCompleted,
		ResponseMessage:   types.NewMessage(types.NewMessageID(types.MessagePrefixResponse), types.RoleAgent, text),
		ResponseArtifacts: []*types.Artifact{types.NewResponseArtifact(agentName, text)},
	}
}

func newParentTask(t *testing.T, store types.TaskStore, contextID string) *types.Task {
	t.Helper()

	parent := types.NewTask(contextID)
	if err := store.Create(context.Background(), parent); err != nil {
		t.Fatalf("Create parent task failed: %v", err)
	}
	return parent
}

func scopedContext(parent *types.Task, remainingDepth int) context.Context {
	return invocation.NewContext(context.Background(), &invocation.Scope{
		AgentName:      "Chief of Staff",
		TaskID:         parent.ID,
		ContextID:      parent.ContextID,
		RemainingDepth: remainingDepth,
	})
}

func TestInvokeAgentByName(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(input *types.SimulationInput) (*types.SimulationOutput, error) {
			return completedOutput(input.ContextID, "The Fool", "a fresh perspective"), nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{{Name: "The Fool"}}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-parent")

	inv := invocation.NewInvoker(orch, lister, store)
	text, err := inv.InvokeAgentByName(scopedContext(parent, 3), "The Fool", "what now?", "we are stuck", 2)
	if err != nil {
		t.Fatalf("InvokeAgentByName failed: %v", err)
	}
	if text != "a fresh perspective" {
		t.Errorf("response = %q, want %q", text, "a fresh perspective")
	}

	if len(orch.inputs) != 1 {
		t.Fatalf("executed %d inputs, want 1", len(orch.inputs))
	}
	child := orch.inputs[0]
	if want := "ctx-parent-recursive-the-fool"; child.ContextID != want {
		t.Errorf("child context = %q, want %q", child.ContextID, want)
	}
	if child.ParentContextID != "ctx-parent" {
		t.Errorf("parent context = %q, want ctx-parent", child.ParentContextID)
	}
	if child.MaxDepth != 2 {
		t.Errorf("child depth = %d, want 2", child.MaxDepth)
	}
	if !strings.Contains(child.Query, "You are The Fool.") {
		t.Errorf("query missing agent framing:\n%s", child.Query)
	}
	if !strings.Contains(child.Query, "Additional context: we are stuck") {
		t.Errorf("query missing additional context:\n%s", child.Query)
	}

	// Nested artifacts land on the parent task attributed to the target.
	stored, err := store.Get(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("Get parent task failed: %v", err)
	}
	if len(stored.Artifacts) != 1 {
		t.Fatalf("parent has %d artifacts, want 1", len(stored.Artifacts))
	}
	if stored.Artifacts[0].Name != "The Fool_response" {
		t.Errorf("artifact name = %q, want The Fool_response", stored.Artifacts[0].Name)
	}
	if len(orch.nested[parent.ID]) != 1 {
		t.Errorf("nested results recorded = %d, want 1", len(orch.nested[parent.ID]))
	}
}

func TestInvokeAgentByNameCapsDepth(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(input *types.SimulationInput) (*types.SimulationOutput, error) {
			return completedOutput(input.ContextID, "The Fool", "ok"), nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{{Name: "The Fool"}}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-cap")

	inv := invocation.NewInvoker(orch, lister, store)
	// Caller has 2 budget left; requesting 5 must be capped to 1.
	if _, err := inv.InvokeAgentByName(scopedContext(parent, 2), "The Fool", "q", "", 5); err != nil {
		t.Fatalf("InvokeAgentByName failed: %v", err)
	}
	if got := orch.inputs[0].MaxDepth; got != 1 {
		t.Errorf("child depth = %d, want 1", got)
	}
}

func TestInvokeAgentByNameDepthExhausted(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(*types.SimulationInput) (*types.SimulationOutput, error) {
			t.Error("ExecuteSimulation called with exhausted depth budget")
			return nil, nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{{Name: "The Fool"}}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-exhausted")

	inv := invocation.NewInvoker(orch, lister, store)
	_, err := inv.InvokeAgentByName(scopedContext(parent, 0), "The Fool", "q", "", 1)
	var depthErr *types.DepthExceededError
	if !errors.As(err, &depthErr) {
		t.Fatalf("error = %v, want *types.DepthExceededError", err)
	}
}

func TestInvokeAgentByNameUnknownAgent(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(*types.SimulationInput) (*types.SimulationOutput, error) {
			t.Error("ExecuteSimulation called for unknown agent")
			return nil, nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{{Name: "The Magician"}, {Name: "The Empress"}}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-unknown")

	inv := invocation.NewInvoker(orch, lister, store)
	_, err := inv.InvokeAgentByName(scopedContext(parent, 3), "Nobody", "q", "", 1)
	var notFound *types.AgentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *types.AgentNotFoundError", err)
	}
	if !strings.Contains(notFound.Error(), "The Magician") {
		t.Errorf("error does not list known agents: %v", notFound)
	}
}

func TestInvokeAgentByNameEmptyRegistry(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(*types.SimulationInput) (*types.SimulationOutput, error) {
			return nil, nil
		},
	}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-empty")

	inv := invocation.NewInvoker(orch, &fakeLister{}, store)
	_, err := inv.InvokeAgentByName(scopedContext(parent, 3), "The Fool", "q", "", 1)
	if !errors.Is(err, types.ErrNoAgents) {
		t.Fatalf("error = %v, want types.ErrNoAgents", err)
	}
}

func TestInvokeMultipleAgentsIsolatesFailures(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(input *types.SimulationInput) (*types.SimulationOutput, error) {
			if strings.Contains(input.Query, "You are The Tower.") {
				return nil, errors.New("tower collapsed")
			}
			return completedOutput(input.ContextID, "ok", "steady answer"), nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{
		{Name: "The Fool"},
		{Name: "The Tower"},
		{Name: "The Star"},
	}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-multi")

	inv := invocation.NewInvoker(orch, lister, store)
	results, err := inv.InvokeMultipleAgents(scopedContext(parent, 3),
		[]string{"The Fool", "The Tower", "The Star"}, "assess the situation", nil, 1)
	if err != nil {
		t.Fatalf("InvokeMultipleAgents failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results["The Fool"] != "steady answer" {
		t.Errorf("The Fool = %q, want steady answer", results["The Fool"])
	}
	if !strings.HasPrefix(results["The Tower"], "Error: ") {
		t.Errorf("The Tower = %q, want Error: prefix", results["The Tower"])
	}
	if results["The Star"] != "steady answer" {
		t.Errorf("The Star = %q, want steady answer", results["The Star"])
	}
}

func TestInvokeMultipleAgentsValidatesUpfront(t *testing.T) {
	t.Parallel()

	orch := &fakeOrchestrator{
		respond: func(*types.SimulationInput) (*types.SimulationOutput, error) {
			t.Error("ExecuteSimulation called despite unknown target")
			return nil, nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{{Name: "The Fool"}}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-upfront")

	inv := invocation.NewInvoker(orch, lister, store)
	_, err := inv.InvokeMultipleAgents(scopedContext(parent, 3), []string{"The Fool", "Nobody"}, "q", nil, 1)
	var notFound *types.AgentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *types.AgentNotFoundError", err)
	}
}

func TestAggregateTransitiveArtifacts(t *testing.T) {
	t.Parallel()

	nested := completedOutput("ctx-deep-recursive-the-fool", "The Fool", "direct answer")
	nested.Results = []*types.SimulationOutput{
		{
			ContextID:  "ctx-deep-recursive-the-fool-recursive-the-star",
			FinalState: types.TaskStateCompleted,
			ResponseArtifacts: []*types.Artifact{
				types.NewResponseArtifact("The Star", "transitive answer"),
				types.NewArtifact("scratch_notes", "Working notes", "raw notes"),
			},
		},
	}

	orch := &fakeOrchestrator{
		respond: func(*types.SimulationInput) (*types.SimulationOutput, error) {
			return nested, nil
		},
	}
	lister := &fakeLister{agents: []*types.AgentCard{{Name: "The Fool"}}}
	store := task.NewStore()
	parent := newParentTask(t, store, "ctx-deep")

	inv := invocation.NewInvoker(orch, lister, store)
	if _, err := inv.InvokeAgentByName(scopedContext(parent, 3), "The Fool", "q", "", 2); err != nil {
		t.Fatalf("InvokeAgentByName failed: %v", err)
	}

	stored, err := store.Get(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("Get parent task failed: %v", err)
	}
	names := make([]string, len(stored.Artifacts))
	for i, a := range stored.Artifacts {
		names[i] = a.Name
	}
	want := []string{"The Fool_response", "The Star_response", "nested_scratch_notes"}
	if len(names) != len(want) {
		t.Fatalf("artifact names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("artifact[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if stored.Artifacts[2].Description != "Nested response: Working notes" {
		t.Errorf("nested description = %q", stored.Artifacts[2].Description)
	}
}
