// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package narrator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-a2a/mantis/narrator"
	"github.com/go-a2a/mantis/team"
	"github.com/go-a2a/mantis/types"
)

// echoExecutor records the synthesis dispatch and answers with a fixed
// narrative.
type echoExecutor struct {
	mu        sync.Mutex
	input     *types.SimulationInput
	agent     *types.AgentInterface
	execution *types.ContextualExecution
	err       error
}

func (f *echoExecutor) StrategyType() types.ExecutionStrategy { return types.ExecutionDirect }

func (f *echoExecutor) ExecuteAgent(context.Context, *types.SimulationInput, *types.AgentSpec, int) (*types.AgentResponse, error) {
	return nil, errors.New("not dispatched by narrators")
}

func (f *echoExecutor) ExecuteResolved(_ context.Context, input *types.SimulationInput, agent *types.AgentInterface, execution *types.ContextualExecution) (*types.AgentResponse, error) {
	f.mu.Lock()
	f.input = input
	f.agent = agent
	f.execution = execution
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &types.AgentResponse{
		AgentName:       agent.Name(),
		Role:            execution.AssignedRole,
		ResponseMessage: types.NewMessage(types.NewMessageID(types.MessagePrefixAgent), types.RoleAgent, "The story so far."),
		FinalState:      types.TaskStateCompleted,
	}, nil
}

func memberResponse(agentName, text string, metadata map[string]any) *types.AgentResponse {
	return &types.AgentResponse{
		AgentName:       agentName,
		Role:            types.RoleFollower,
		ResponseMessage: types.NewMessage(types.NewMessageID(types.MessagePrefixAgent), types.RoleAgent, text),
		FinalState:      types.TaskStateCompleted,
		Metadata:        metadata,
	}
}

func TestSynthesizeNarrative(t *testing.T) {
	t.Parallel()

	exec := &echoExecutor{}
	n := narrator.NewSynthesizer(exec)

	input := &types.SimulationInput{ContextID: "ctx-n", Query: "Where next?", MaxDepth: 3}
	result := &types.TeamExecutionResult{
		ContextID:      "ctx-n",
		TeamFinalState: types.TaskStateCompleted,
		MemberResponses: []*types.AgentResponse{
			memberResponse("The Fool", "Leap without looking.", nil),
			memberResponse("Justice", "Weigh both sides first.", nil),
		},
	}

	resp, err := n.SynthesizeNarrative(context.Background(), input, result)
	if err != nil {
		t.Fatalf("SynthesizeNarrative failed: %v", err)
	}
	if resp.Role != types.RoleNarrator {
		t.Errorf("Role = %s, want NARRATOR", resp.Role)
	}
	if resp.FinalState != types.TaskStateCompleted {
		t.Errorf("FinalState = %s, want COMPLETED", resp.FinalState)
	}
	if got := resp.Text(); got != "The story so far." {
		t.Errorf("Text() = %q", got)
	}

	if exec.agent.Name() != "Narrator" {
		t.Errorf("narrator agent = %q, want Narrator", exec.agent.Name())
	}
	// Depth 1 of 1: no delegation budget left.
	if exec.execution.CurrentDepth != 1 || exec.execution.MaxDepth != 1 {
		t.Errorf("execution depth = %d/%d, want 1/1", exec.execution.CurrentDepth, exec.execution.MaxDepth)
	}
	if exec.execution.CanDelegate() {
		t.Error("narrator execution can delegate, want exhausted budget")
	}

	query := exec.input.Query
	for _, want := range []string{"Where next?", "## The Fool", "Leap without looking.", "## Justice", "Weigh both sides first."} {
		if !strings.Contains(query, want) {
			t.Errorf("synthesis prompt missing %q:\n%s", want, query)
		}
	}
}

func TestSynthesizeNarrativeEmptyResult(t *testing.T) {
	t.Parallel()

	n := narrator.NewSynthesizer(&echoExecutor{})
	input := &types.SimulationInput{ContextID: "ctx-n", Query: "Anything", MaxDepth: 1}

	if _, err := n.SynthesizeNarrative(context.Background(), input, &types.TeamExecutionResult{}); err == nil {
		t.Error("SynthesizeNarrative succeeded on empty result")
	}
	if _, err := n.SynthesizeNarrative(context.Background(), input, nil); err == nil {
		t.Error("SynthesizeNarrative succeeded on nil result")
	}
}

func TestSynthesizeNarrativeExecutorFailure(t *testing.T) {
	t.Parallel()

	exec := &echoExecutor{err: errors.New("DirectExecutor failed: model down")}
	n := narrator.NewSynthesizer(exec)

	input := &types.SimulationInput{ContextID: "ctx-n", Query: "Anything", MaxDepth: 1}
	result := &types.TeamExecutionResult{MemberResponses: []*types.AgentResponse{
		memberResponse("The Fool", "Leap.", nil),
	}}
	_, err := n.SynthesizeNarrative(context.Background(), input, result)
	if err == nil {
		t.Fatal("SynthesizeNarrative succeeded, want error")
	}
	if !strings.Contains(err.Error(), "narrative synthesis: ") {
		t.Errorf("error = %v, want narrative synthesis prefix", err)
	}
}

func TestTarotNarrativeFormatsSpread(t *testing.T) {
	t.Parallel()

	exec := &echoExecutor{}
	n := narrator.NewTarot(exec)

	input := &types.SimulationInput{ContextID: "ctx-t", Query: "What lies ahead?", MaxDepth: 3}
	result := &types.TeamExecutionResult{
		ContextID:      "ctx-t",
		TeamFinalState: types.TaskStateCompleted,
		MemberResponses: []*types.AgentResponse{
			memberResponse("The Fool", "A beginning.", map[string]any{
				team.MetadataCardName: "The Fool",
				team.MetadataInverted: false,
			}),
			memberResponse("The Tower", "An upheaval.", map[string]any{
				team.MetadataCardName: "The Tower",
				team.MetadataInverted: true,
			}),
			memberResponse("The Star", "A renewal.", map[string]any{
				team.MetadataCardName: "The Star",
				team.MetadataInverted: false,
			}),
		},
	}

	if _, err := n.SynthesizeNarrative(context.Background(), input, result); err != nil {
		t.Fatalf("SynthesizeNarrative failed: %v", err)
	}
	if exec.agent.Name() != "Master Tarot Reader" {
		t.Errorf("narrator agent = %q, want Master Tarot Reader", exec.agent.Name())
	}

	query := exec.input.Query
	for _, want := range []string{
		"You are the Master Tarot Reader conducting this reading.",
		"Cards drawn: The Fool, The Tower (Inverted), The Star",
		"### Past: The Fool",
		"### Present: The Tower (Inverted)",
		"### Future: The Star",
		"Draw upon your mastery of tarot to reveal the deeper story these cards tell together.",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("tarot prompt missing %q:\n%s", want, query)
		}
	}
}

func TestTarotKeepsExplicitAgent(t *testing.T) {
	t.Parallel()

	exec := &echoExecutor{}
	custom := types.NewAgentInterface(&types.AgentCard{Name: "The Hierophant"})
	n := narrator.NewTarot(exec, narrator.WithAgent(custom))

	input := &types.SimulationInput{ContextID: "ctx-t", Query: "Q", MaxDepth: 1}
	result := &types.TeamExecutionResult{MemberResponses: []*types.AgentResponse{
		memberResponse("The Fool", "A beginning.", nil),
	}}
	if _, err := n.SynthesizeNarrative(context.Background(), input, result); err != nil {
		t.Fatalf("SynthesizeNarrative failed: %v", err)
	}
	if exec.agent.Name() != "The Hierophant" {
		t.Errorf("narrator agent = %q, want The Hierophant", exec.agent.Name())
	}
}
