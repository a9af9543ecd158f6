// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-a2a/mantis/executor"
	"github.com/go-a2a/mantis/model"
	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// Artifact persistence keys when an artifact service is configured.
const (
	artifactAppName = "mantis"
	artifactUserID  = "simulation"
)

// Orchestrator runs simulation inputs against an executor and owns the
// resulting task lifecycle in the injected [types.TaskStore].
type Orchestrator struct {
	store     types.TaskStore
	exec      types.Executor
	model     model.Model
	registry  executor.AgentSource
	tools     *tool.Registry
	artifacts types.ArtifactService
	logger    *slog.Logger

	mu     sync.Mutex
	nested map[string][]*types.SimulationOutput
}

// Option configures an [Orchestrator].
type Option func(*Orchestrator)

// WithModel sets the LLM backing the default direct executor.
func WithModel(m model.Model) Option {
	return func(o *Orchestrator) {
		o.model = m
	}
}

// WithRegistry sets the agent registry for resolution and delegation.
func WithRegistry(source executor.AgentSource) Option {
	return func(o *Orchestrator) {
		o.registry = source
	}
}

// WithToolRegistry sets the tool registry exposed to direct executions.
func WithToolRegistry(tools *tool.Registry) Option {
	return func(o *Orchestrator) {
		o.tools = tools
	}
}

// WithArtifactService enables artifact persistence for completed
// simulations.
func WithArtifactService(svc types.ArtifactService) Option {
	return func(o *Orchestrator) {
		o.artifacts = svc
	}
}

// WithExecutor injects the executor, overriding the default direct
// executor assembled from the configured model, registry and tools.
func WithExecutor(exec types.Executor) Option {
	return func(o *Orchestrator) {
		o.exec = exec
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator owning store. Without [WithExecutor] a
// direct executor is assembled from the configured model, registry and
// tool registry; a model is then required.
func New(store types.TaskStore, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		store:  store,
		logger: slog.Default(),
		nested: make(map[string][]*types.SimulationOutput),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		return nil, fmt.Errorf("orchestrator requires a task store")
	}
	if o.exec == nil {
		if o.model == nil {
			return nil, fmt.Errorf("orchestrator requires an executor or a model")
		}
		o.exec = executor.NewDirect(o.model,
			executor.WithAgentSource(o.registry),
			executor.WithToolRegistry(o.tools),
			executor.WithLogger(o.logger),
		)
	}
	return o, nil
}

// Executor returns the executor simulations dispatch through.
func (o *Orchestrator) Executor() types.Executor {
	return o.exec
}

// Store returns the task store the orchestrator owns.
func (o *Orchestrator) Store() types.TaskStore {
	return o.store
}

// ExecuteSimulation runs one simulation input to completion.
//
// The simulation task "sim-{contextID}" moves SUBMITTED -> WORKING, the
// resolved agent executes, and the task ends COMPLETED with the response
// message and artifact appended, or FAILED with the execution error
// preserved verbatim in Status.Error. Execution failures never surface as
// bare errors: the returned output carries the FAILED task, an "error-"
// message and a "simulation_error" artifact. Only a broken store yields an
// output without a task.
func (o *Orchestrator) ExecuteSimulation(ctx context.Context, input *types.SimulationInput) (*types.SimulationOutput, error) {
	logger := logging.FromContext(ctx)

	task := types.NewTask(input.ContextID)
	if err := o.store.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create simulation task",
			slog.String("task_id", task.ID),
			slog.Any("error", err),
		)
		return o.storelessOutput(input, fmt.Errorf("create simulation task: %w", err)), nil
	}
	if err := o.store.Transition(ctx, task.ID, types.TaskStateWorking, ""); err != nil {
		return o.failSimulation(ctx, input, task.ID, fmt.Errorf("start simulation task: %w", err)), nil
	}

	logger.InfoContext(ctx, "Executing simulation",
		slog.String("task_id", task.ID),
		slog.String("context_id", input.ContextID),
		slog.Int("max_depth", input.MaxDepth),
		slog.String("strategy", string(o.exec.StrategyType())),
	)

	resp, err := o.exec.ExecuteAgent(ctx, input, firstAgentSpec(input), 0)
	if err != nil {
		return o.failSimulation(ctx, input, task.ID, err), nil
	}

	respText := resp.Text()
	msg := types.NewMessage(types.NewMessageID(types.MessagePrefixResponse), types.RoleAgent, respText)
	msg.ContextID = input.ContextID
	msg.TaskID = task.ID
	if err := o.store.AppendMessage(ctx, task.ID, msg); err != nil {
		return o.failSimulation(ctx, input, task.ID, fmt.Errorf("record simulation response: %w", err)), nil
	}
	if err := o.store.AppendArtifacts(ctx, task.ID, types.NewResponseArtifact(resp.AgentName, respText)); err != nil {
		return o.failSimulation(ctx, input, task.ID, fmt.Errorf("record simulation artifact: %w", err)), nil
	}
	if err := o.store.Transition(ctx, task.ID, types.TaskStateCompleted, ""); err != nil {
		logger.ErrorContext(ctx, "Failed to complete simulation task",
			slog.String("task_id", task.ID),
			slog.Any("error", err),
		)
	}

	output := o.buildOutput(ctx, input, task.ID)
	o.persistArtifacts(ctx, input.ContextID, output.ResponseArtifacts)

	logger.InfoContext(ctx, "Simulation completed",
		slog.String("task_id", task.ID),
		slog.String("final_state", output.FinalState.String()),
		slog.Int("nested_results", len(output.Results)),
	)
	return output, nil
}

// AddNestedResult records a nested output under the parent task. The
// parent's own output consumes the recorded results when it is built.
func (o *Orchestrator) AddNestedResult(parentTaskID string, output *types.SimulationOutput) {
	if output == nil {
		return
	}
	o.mu.Lock()
	o.nested[parentTaskID] = append(o.nested[parentTaskID], output)
	o.mu.Unlock()
}

// consumeNested removes and returns the nested outputs recorded for
// taskID.
func (o *Orchestrator) consumeNested(taskID string) []*types.SimulationOutput {
	o.mu.Lock()
	defer o.mu.Unlock()
	results := o.nested[taskID]
	delete(o.nested, taskID)
	return results
}

// failSimulation records the failure on the task and builds the
// error-shaped output. The error message and artifact are appended before
// the FAILED transition seals the history.
func (o *Orchestrator) failSimulation(ctx context.Context, input *types.SimulationInput, taskID string, execErr error) *types.SimulationOutput {
	logger := logging.FromContext(ctx)
	logger.ErrorContext(ctx, "Simulation failed",
		slog.String("task_id", taskID),
		slog.Any("error", execErr),
	)

	failureText := "Simulation failed: " + execErr.Error()
	msg := types.NewMessage(types.NewMessageID(types.MessagePrefixError), types.RoleAgent, failureText)
	msg.ContextID = input.ContextID
	msg.TaskID = taskID
	if err := o.store.AppendMessage(ctx, taskID, msg); err != nil {
		logger.WarnContext(ctx, "Failed to record simulation error message",
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
	}
	artifact := types.NewArtifact("simulation_error", "Simulation failure detail", failureText)
	if err := o.store.AppendArtifacts(ctx, taskID, artifact); err != nil {
		logger.WarnContext(ctx, "Failed to record simulation error artifact",
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
	}
	if err := o.store.Transition(ctx, taskID, types.TaskStateFailed, execErr.Error()); err != nil {
		logger.WarnContext(ctx, "Failed to fail simulation task",
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
	}
	return o.buildOutput(ctx, input, taskID)
}

// buildOutput assembles the simulation output from the stored task and
// the nested results recorded for it.
func (o *Orchestrator) buildOutput(ctx context.Context, input *types.SimulationInput, taskID string) *types.SimulationOutput {
	output := &types.SimulationOutput{
		ContextID:         input.ContextID,
		FinalState:        types.TaskStateFailed,
		Results:           o.consumeNested(taskID),
		RecursionDepth:    input.MaxDepth,
		ExecutionStrategy: o.exec.StrategyType(),
	}

	task, err := o.store.Get(ctx, taskID)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "Failed to load simulation task for output",
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
		return output
	}
	output.FinalState = task.Status.State
	output.Task = task
	output.ResponseMessage = task.LastMessage()
	output.ResponseArtifacts = task.Artifacts
	return output
}

// storelessOutput shapes a failure that happened before any task existed.
func (o *Orchestrator) storelessOutput(input *types.SimulationInput, err error) *types.SimulationOutput {
	msg := types.NewMessage(types.NewMessageID(types.MessagePrefixError), types.RoleAgent, "Simulation failed: "+err.Error())
	msg.ContextID = input.ContextID
	return &types.SimulationOutput{
		ContextID:         input.ContextID,
		FinalState:        types.TaskStateFailed,
		ResponseMessage:   msg,
		RecursionDepth:    input.MaxDepth,
		ExecutionStrategy: o.exec.StrategyType(),
	}
}

// persistArtifacts saves the produced artifacts when an artifact service
// is configured. Persistence failures are logged, never fatal.
func (o *Orchestrator) persistArtifacts(ctx context.Context, contextID string, artifacts []*types.Artifact) {
	if o.artifacts == nil {
		return
	}
	logger := logging.FromContext(ctx)
	for _, artifact := range artifacts {
		version, err := o.artifacts.SaveArtifact(ctx, artifactAppName, artifactUserID, contextID, artifact)
		if err != nil {
			logger.WarnContext(ctx, "Failed to persist simulation artifact",
				slog.String("artifact", artifact.Name),
				slog.String("context_id", contextID),
				slog.Any("error", err),
			)
			continue
		}
		logger.DebugContext(ctx, "Persisted simulation artifact",
			slog.String("artifact", artifact.Name),
			slog.Int("version", version),
		)
	}
}

// firstAgentSpec returns the input's first agent slot, or nil when the
// input leaves resolution to the executor.
func firstAgentSpec(input *types.SimulationInput) *types.AgentSpec {
	if len(input.Agents) == 0 {
		return nil
	}
	return input.Agents[0]
}
