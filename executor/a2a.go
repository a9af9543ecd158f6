// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-a2a/mantis/a2a"
	"github.com/go-a2a/mantis/types"
)

// A2A delegates agent execution to a remote endpoint: the agent's card
// URL receives the query over the wire protocol and the executor polls
// the remote task until it completes or the wait budget runs out.
type A2A struct {
	client       *a2a.Client
	source       AgentSource
	defaultAgent *types.AgentInterface
	logger       *slog.Logger
}

var _ types.Executor = (*A2A)(nil)

// A2AOption configures an [A2A].
type A2AOption func(*A2A)

// WithA2ADefaultAgent sets the agent used for unpinned slots.
func WithA2ADefaultAgent(agent *types.AgentInterface) A2AOption {
	return func(e *A2A) {
		e.defaultAgent = agent
	}
}

// WithA2ALogger sets the executor's logger.
func WithA2ALogger(logger *slog.Logger) A2AOption {
	return func(e *A2A) {
		e.logger = logger
	}
}

// NewA2A creates an A2A executor delegating through client and resolving
// agents through source.
func NewA2A(client *a2a.Client, source AgentSource, opts ...A2AOption) *A2A {
	e := &A2A{
		client: client,
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StrategyType implements [types.Executor].
func (e *A2A) StrategyType() types.ExecutionStrategy {
	return types.ExecutionA2A
}

// ExecuteAgent implements [types.Executor].
func (e *A2A) ExecuteAgent(ctx context.Context, input *types.SimulationInput, spec *types.AgentSpec, agentIndex int) (*types.AgentResponse, error) {
	agent, err := resolveAgent(ctx, e.source, e.defaultAgent, spec)
	if err != nil {
		return nil, fmt.Errorf("A2AExecutor failed: %w", err)
	}

	execution := &types.ContextualExecution{
		CurrentDepth: 0,
		MaxDepth:     input.MaxDepth,
		TeamSize:     1,
		AgentIndex:   agentIndex,
	}
	execution.AssignedRole = DetermineAgentRole(agent, execution)
	return e.ExecuteResolved(ctx, input, agent, execution)
}

// ExecuteResolved implements [types.Executor].
func (e *A2A) ExecuteResolved(ctx context.Context, input *types.SimulationInput, agent *types.AgentInterface, execution *types.ContextualExecution) (*types.AgentResponse, error) {
	resp, err := e.execute(ctx, input, agent, execution)
	if err != nil {
		return nil, fmt.Errorf("A2AExecutor failed: %w", err)
	}
	return resp, nil
}

func (e *A2A) execute(ctx context.Context, input *types.SimulationInput, agent *types.AgentInterface, execution *types.ContextualExecution) (*types.AgentResponse, error) {
	if execution.AssignedRole == "" {
		execution.AssignedRole = DetermineAgentRole(agent, execution)
	}

	url := agent.Card().URL
	if url == "" {
		return nil, fmt.Errorf("agent %q has no endpoint URL", agent.Name())
	}

	sent, err := e.client.SendMessage(ctx, url, input.Query)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "Delegated agent execution",
		slog.String("agent", agent.Name()),
		slog.String("url", url),
		slog.String("remote_task_id", sent.ID),
	)

	task, err := e.client.WaitForCompletion(ctx, url, sent.ID)
	if err != nil {
		return nil, err
	}
	if task.Status.State != a2a.WireStateCompleted {
		return nil, fmt.Errorf("remote task %s finished %s: %s", task.ID, task.Status.State, task.Status.Error)
	}

	msg := types.NewMessage(types.NewMessageID(types.MessagePrefixAgent), types.RoleAgent, task.Result)
	msg.ContextID = input.ContextID
	msg.TaskID = types.NewTaskID(input.ContextID)
	return &types.AgentResponse{
		AgentName:       agent.Name(),
		Role:            execution.AssignedRole,
		ResponseMessage: msg,
		FinalState:      types.TaskStateCompleted,
	}, nil
}
