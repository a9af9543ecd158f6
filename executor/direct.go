// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/invocation"
	"github.com/go-a2a/mantis/model"
	"github.com/go-a2a/mantis/pkg/py/pyasyncio"
	"github.com/go-a2a/mantis/prompt"
	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// DefaultMaxToolIterations bounds the function-call dispatch loop of one
// execution: a model that keeps requesting tools past this many rounds
// fails the execution instead of looping.
const DefaultMaxToolIterations = 10

// Direct runs agents in-process: resolve the agent, compose its prompt,
// perform the model round trip with the registered tool declarations and
// drive the function-call dispatch loop until the model produces text.
//
// Any failure surfaces as an error; no partial response is synthesized.
type Direct struct {
	model             model.Model
	source            AgentSource
	tools             *tool.Registry
	composer          *prompt.Composer
	defaultAgent      *types.AgentInterface
	maxToolIterations int
	logger            *slog.Logger
}

var _ types.Executor = (*Direct)(nil)

// DirectOption configures a [Direct].
type DirectOption func(*Direct)

// WithAgentSource sets the registry the executor resolves agents through.
func WithAgentSource(source AgentSource) DirectOption {
	return func(d *Direct) {
		d.source = source
	}
}

// WithToolRegistry sets the tools exposed to the model.
func WithToolRegistry(tools *tool.Registry) DirectOption {
	return func(d *Direct) {
		d.tools = tools
	}
}

// WithComposer sets the prompt composer.
func WithComposer(composer *prompt.Composer) DirectOption {
	return func(d *Direct) {
		d.composer = composer
	}
}

// WithDefaultAgent sets the agent used for unpinned slots.
func WithDefaultAgent(agent *types.AgentInterface) DirectOption {
	return func(d *Direct) {
		d.defaultAgent = agent
	}
}

// WithMaxToolIterations bounds the function-call dispatch loop.
func WithMaxToolIterations(n int) DirectOption {
	return func(d *Direct) {
		d.maxToolIterations = n
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) DirectOption {
	return func(d *Direct) {
		d.logger = logger
	}
}

// NewDirect creates a direct executor backed by m.
func NewDirect(m model.Model, opts ...DirectOption) *Direct {
	d := &Direct{
		model:             m,
		composer:          prompt.NewComposer(),
		maxToolIterations: DefaultMaxToolIterations,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// StrategyType implements [types.Executor].
func (d *Direct) StrategyType() types.ExecutionStrategy {
	return types.ExecutionDirect
}

// ExecuteAgent implements [types.Executor]. The slot's agent runs at the
// root of the simulation: depth 0, a team of one.
func (d *Direct) ExecuteAgent(ctx context.Context, input *types.SimulationInput, spec *types.AgentSpec, agentIndex int) (*types.AgentResponse, error) {
	agent, err := resolveAgent(ctx, d.source, d.defaultAgent, spec)
	if err != nil {
		return nil, fmt.Errorf("DirectExecutor failed: %w", err)
	}

	execution := &types.ContextualExecution{
		CurrentDepth: 0,
		MaxDepth:     input.MaxDepth,
		TeamSize:     1,
		AgentIndex:   agentIndex,
	}
	execution.AssignedRole = DetermineAgentRole(agent, execution)
	return d.ExecuteResolved(ctx, input, agent, execution)
}

// ExecuteResolved implements [types.Executor].
func (d *Direct) ExecuteResolved(ctx context.Context, input *types.SimulationInput, agent *types.AgentInterface, execution *types.ContextualExecution) (*types.AgentResponse, error) {
	resp, err := d.execute(ctx, input, agent, execution)
	if err != nil {
		return nil, fmt.Errorf("DirectExecutor failed: %w", err)
	}
	return resp, nil
}

func (d *Direct) execute(ctx context.Context, input *types.SimulationInput, agent *types.AgentInterface, execution *types.ContextualExecution) (*types.AgentResponse, error) {
	if execution.AssignedRole == "" {
		execution.AssignedRole = DetermineAgentRole(agent, execution)
	}

	names := availableAgentNames(ctx, d.source)
	composed := d.composer.Compose(ctx, prompt.NewContext(agent, input, execution, prompt.WithAvailableAgents(names)))

	taskID := types.NewTaskID(input.ContextID)
	contextual := prompt.NewSimulationPromptWithAgent(input.Query, agent, input.ContextID, taskID)
	if input.Context != "" {
		contextual.CoreContent += "\n\n## Additional Context\n" + input.Context
	}

	// Tools dispatched from function calls observe their caller through
	// the invocation scope.
	ctx = invocation.NewContext(ctx, &invocation.Scope{
		AgentName:      agent.Name(),
		TaskID:         taskID,
		ContextID:      input.ContextID,
		RemainingDepth: execution.MaxDepth - execution.CurrentDepth,
	})

	_, modelName := model.SplitModelSpec(input.Model())
	req := model.NewRequest(model.UserContent(contextual.Assemble())).
		WithModelName(modelName).
		WithSystemInstruction(composed.FinalPrompt).
		WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(input.Temperature())),
		})

	toolsEnabled := d.tools != nil && !input.ToolsDisabled()
	if toolsEnabled {
		req.WithTools(d.tools.Declarations()...)
	}

	d.logger.DebugContext(ctx, "Executing agent",
		slog.String("agent", agent.Name()),
		slog.String("role", string(execution.AssignedRole)),
		slog.String("context_id", input.ContextID),
		slog.Int("depth", execution.CurrentDepth),
		slog.Bool("tools_enabled", toolsEnabled),
	)

	resp, err := d.model.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}
	for iteration := 0; ; iteration++ {
		if resp.IsError() {
			return nil, fmt.Errorf("model error %s: %s", resp.ErrorCode, resp.ErrorMessage)
		}
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			break
		}
		if iteration >= d.maxToolIterations {
			return nil, fmt.Errorf("tool dispatch did not settle after %d iterations", d.maxToolIterations)
		}

		req.AppendContent(resp.Content)
		responses, err := d.dispatchCalls(ctx, calls)
		if err != nil {
			return nil, err
		}
		req.AppendContent(responses...)

		resp, err = d.model.GenerateContent(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	msg := types.NewMessage(types.NewMessageID(types.MessagePrefixAgent), types.RoleAgent, resp.Text())
	msg.ContextID = input.ContextID
	msg.TaskID = taskID
	return &types.AgentResponse{
		AgentName:       agent.Name(),
		Role:            execution.AssignedRole,
		ResponseMessage: msg,
		FinalState:      types.TaskStateCompleted,
	}, nil
}

// callResult pairs one tool result with its position among the calls of a
// single model turn, so results return to the model in call order.
type callResult struct {
	index   int
	content *genai.Content
}

// dispatchCalls runs the calls of one model turn concurrently and returns
// their function responses in call order.
func (d *Direct) dispatchCalls(ctx context.Context, calls []*genai.FunctionCall) ([]*genai.Content, error) {
	tg := pyasyncio.NewTaskGroup[callResult](ctx)
	for i, call := range calls {
		if _, err := tg.CreateNamedTask(call.Name, func(ctx context.Context) (callResult, error) {
			text := d.runTool(ctx, call)
			return callResult{
				index:   i,
				content: model.FunctionResponseContent(call.ID, call.Name, text),
			}, nil
		}); err != nil {
			tg.Cancel()
			return nil, fmt.Errorf("dispatch %s: %w", call.Name, err)
		}
	}

	results, err := tg.Wait(ctx)
	if err != nil {
		return nil, err
	}
	ordered := make([]*genai.Content, len(calls))
	for _, r := range results {
		ordered[r.index] = r.content
	}
	return ordered, nil
}

// runTool dispatches one function call. Dispatch failures return to the
// model as error result strings so it can recover within the conversation.
func (d *Direct) runTool(ctx context.Context, call *genai.FunctionCall) string {
	if d.tools == nil {
		return fmt.Sprintf("Error: tool %q not available", call.Name)
	}
	text, err := d.tools.Run(ctx, call.Name, call.Args)
	if err != nil {
		d.logger.WarnContext(ctx, "Tool dispatch failed",
			slog.String("tool", call.Name),
			slog.Any("err", err),
		)
		return "Error: " + err.Error()
	}
	return text
}
