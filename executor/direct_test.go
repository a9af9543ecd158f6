// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/executor"
	"github.com/go-a2a/mantis/invocation"
	"github.com/go-a2a/mantis/model"
	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// fakeModel replays canned responses and snapshots each request it sees.
type fakeModel struct {
	mu       sync.Mutex
	replies  []*model.Response
	requests []*model.Request
	err      error
}

func (f *fakeModel) Name() string { return "fake-model" }

func (f *fakeModel) GenerateContent(_ context.Context, req *model.Request) (*model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// The executor mutates the request between turns; keep a snapshot.
	snapshot := *req
	snapshot.Contents = slices.Clone(req.Contents)
	snapshot.Tools = slices.Clone(req.Tools)
	f.requests = append(f.requests, &snapshot)

	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return nil, errors.New("fakeModel: out of replies")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func textResponse(text string) *model.Response {
	return &model.Response{Content: model.ModelContent(text)}
}

func callResponse(id, name string, args map[string]any) *model.Response {
	return &model.Response{Content: &genai.Content{
		Role: model.RoleModel,
		Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{ID: id, Name: name, Args: args}},
		},
	}}
}

// fakeSource serves canned agent cards.
type fakeSource struct {
	cards []*types.AgentCard
}

func (f *fakeSource) ListAgents(context.Context) ([]*types.AgentCard, error) {
	return f.cards, nil
}

func (f *fakeSource) GetAgentByName(_ context.Context, name string) (*types.AgentCard, error) {
	for _, card := range f.cards {
		if card.Name == name {
			return card, nil
		}
	}
	return nil, &types.AgentNotFoundError{Name: name}
}

func (f *fakeSource) Coordinator(context.Context) (*types.AgentCard, error) {
	for _, card := range f.cards {
		if card.Capabilities.Coordinator {
			return card, nil
		}
	}
	return nil, nil
}

func TestDirectExecuteAgentGenericFallback(t *testing.T) {
	t.Parallel()

	fm := &fakeModel{replies: []*model.Response{textResponse("All good.")}}
	d := executor.NewDirect(fm)

	input := &types.SimulationInput{
		ContextID: "ctx-1",
		Query:     "What should we do next?",
		MaxDepth:  2,
	}
	resp, err := d.ExecuteAgent(context.Background(), input, &types.AgentSpec{Count: 1}, 0)
	if err != nil {
		t.Fatalf("ExecuteAgent failed: %v", err)
	}

	if resp.AgentName != "Generic Agent" {
		t.Errorf("AgentName = %q, want Generic Agent", resp.AgentName)
	}
	if resp.Role != types.RoleLeader {
		t.Errorf("Role = %s, want LEADER", resp.Role)
	}
	if resp.FinalState != types.TaskStateCompleted {
		t.Errorf("FinalState = %s, want COMPLETED", resp.FinalState)
	}
	if got := resp.Text(); got != "All good." {
		t.Errorf("Text() = %q, want All good.", got)
	}
	if !strings.HasPrefix(resp.ResponseMessage.MessageID, types.MessagePrefixAgent) {
		t.Errorf("MessageID = %q, want %s prefix", resp.ResponseMessage.MessageID, types.MessagePrefixAgent)
	}
	if resp.ResponseMessage.TaskID != "sim-ctx-1" {
		t.Errorf("TaskID = %q, want sim-ctx-1", resp.ResponseMessage.TaskID)
	}

	if len(fm.requests) != 1 {
		t.Fatalf("model saw %d requests, want 1", len(fm.requests))
	}
	req := fm.requests[0]
	if req.SystemInstruction == "" {
		t.Error("request has no system instruction")
	}
	if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, input.Query) {
		t.Error("user content does not carry the query")
	}
}

func TestDirectResolvesNamedAgent(t *testing.T) {
	t.Parallel()

	source := &fakeSource{cards: []*types.AgentCard{
		{Name: "The Fool", Description: "A free spirit"},
		{Name: "The Magician", Description: "A manifestor"},
	}}
	fm := &fakeModel{replies: []*model.Response{textResponse("Leap taken.")}}
	d := executor.NewDirect(fm, executor.WithAgentSource(source))

	input := &types.SimulationInput{ContextID: "ctx-2", Query: "Leap?", MaxDepth: 1}
	spec := &types.AgentSpec{Count: 1, Agent: &types.AgentRef{Name: "The Fool"}}

	resp, err := d.ExecuteAgent(context.Background(), input, spec, 0)
	if err != nil {
		t.Fatalf("ExecuteAgent failed: %v", err)
	}
	if resp.AgentName != "The Fool" {
		t.Errorf("AgentName = %q, want The Fool", resp.AgentName)
	}

	spec = &types.AgentSpec{Count: 1, Agent: &types.AgentRef{Name: "Nobody"}}
	_, err = d.ExecuteAgent(context.Background(), input, spec, 0)
	if err == nil {
		t.Fatal("ExecuteAgent succeeded for unknown agent")
	}
	if !strings.Contains(err.Error(), "DirectExecutor failed: ") {
		t.Errorf("error = %v, want DirectExecutor failed prefix", err)
	}
	var notFound *types.AgentNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("error = %v, want AgentNotFoundError", err)
	}
}

func TestDirectToolDispatchLoop(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		seenScope *invocation.Scope
	)
	lookup := tool.New("lookup_number",
		"Look up a number by key.",
		&genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"key": {Type: genai.TypeString},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			seenScope, _ = invocation.ScopeFromContext(ctx)
			return "value-42", nil
		},
	)

	fm := &fakeModel{replies: []*model.Response{
		callResponse("call-1", "lookup_number", map[string]any{"key": "answer"}),
		textResponse("Done: value-42"),
	}}
	d := executor.NewDirect(fm, executor.WithToolRegistry(tool.NewRegistry(lookup)))

	input := &types.SimulationInput{ContextID: "ctx-7", Query: "Find the answer", MaxDepth: 2}
	resp, err := d.ExecuteAgent(context.Background(), input, nil, 0)
	if err != nil {
		t.Fatalf("ExecuteAgent failed: %v", err)
	}
	if got := resp.Text(); got != "Done: value-42" {
		t.Errorf("Text() = %q, want Done: value-42", got)
	}

	if len(fm.requests) != 2 {
		t.Fatalf("model saw %d requests, want 2", len(fm.requests))
	}
	if len(fm.requests[0].Tools) != 1 {
		t.Errorf("first request carries %d tool declarations, want 1", len(fm.requests[0].Tools))
	}

	// Second turn: user prompt, model call, function response.
	second := fm.requests[1]
	if len(second.Contents) != 3 {
		t.Fatalf("second request has %d contents, want 3", len(second.Contents))
	}
	fr := second.Contents[2].Parts[0].FunctionResponse
	if fr == nil || fr.Name != "lookup_number" {
		t.Fatalf("third content is not a lookup_number function response: %+v", second.Contents[2])
	}
	if got := fr.Response["result"]; got != "value-42" {
		t.Errorf("function response result = %v, want value-42", got)
	}

	if seenScope == nil {
		t.Fatal("tool did not observe an invocation scope")
	}
	if seenScope.AgentName != "Generic Agent" || seenScope.TaskID != "sim-ctx-7" || seenScope.RemainingDepth != 2 {
		t.Errorf("scope = %+v, want Generic Agent/sim-ctx-7/depth 2", seenScope)
	}
}

func TestDirectToolsDisabledAtDepthZero(t *testing.T) {
	t.Parallel()

	reg := tool.NewRegistry(tool.New("noop", "No-op.", nil,
		func(context.Context, map[string]any) (string, error) { return "", nil },
	))
	fm := &fakeModel{replies: []*model.Response{textResponse("No tools used.")}}
	d := executor.NewDirect(fm, executor.WithToolRegistry(reg))

	input := &types.SimulationInput{ContextID: "ctx-3", Query: "Just answer", MaxDepth: 0}
	if _, err := d.ExecuteAgent(context.Background(), input, nil, 0); err != nil {
		t.Fatalf("ExecuteAgent failed: %v", err)
	}
	if len(fm.requests[0].Tools) != 0 {
		t.Errorf("request carries %d tool declarations, want 0", len(fm.requests[0].Tools))
	}
}

func TestDirectFailureWrapped(t *testing.T) {
	t.Parallel()

	fm := &fakeModel{err: errors.New("model exploded")}
	d := executor.NewDirect(fm)

	input := &types.SimulationInput{ContextID: "ctx-4", Query: "Anything", MaxDepth: 1}
	_, err := d.ExecuteAgent(context.Background(), input, nil, 0)
	if err == nil {
		t.Fatal("ExecuteAgent succeeded, want error")
	}
	if !strings.HasPrefix(err.Error(), "DirectExecutor failed: ") {
		t.Errorf("error = %v, want DirectExecutor failed prefix", err)
	}
	if !strings.Contains(err.Error(), "model exploded") {
		t.Errorf("error = %v, want underlying cause preserved", err)
	}
}

func TestDirectToolIterationCap(t *testing.T) {
	t.Parallel()

	reg := tool.NewRegistry(tool.New("again", "Always asked again.", nil,
		func(context.Context, map[string]any) (string, error) { return "again", nil },
	))
	fm := &fakeModel{replies: []*model.Response{
		callResponse("call-1", "again", nil),
		callResponse("call-2", "again", nil),
	}}
	d := executor.NewDirect(fm,
		executor.WithToolRegistry(reg),
		executor.WithMaxToolIterations(1),
	)

	input := &types.SimulationInput{ContextID: "ctx-5", Query: "Loop", MaxDepth: 2}
	_, err := d.ExecuteAgent(context.Background(), input, nil, 0)
	if err == nil {
		t.Fatal("ExecuteAgent succeeded, want iteration cap error")
	}
	if !strings.Contains(err.Error(), "did not settle after 1 iterations") {
		t.Errorf("error = %v, want iteration cap message", err)
	}
}
