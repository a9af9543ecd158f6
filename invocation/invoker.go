// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package invocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	deepcopy "github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/pkg/py/pyasyncio"
	"github.com/go-a2a/mantis/types"
)

// Orchestrator is the slice of the simulation layer the invoker dispatches
// through.
type Orchestrator interface {
	// ExecuteSimulation runs one simulation input to completion.
	ExecuteSimulation(ctx context.Context, input *types.SimulationInput) (*types.SimulationOutput, error)

	// AddNestedResult records a nested output under the parent task's
	// output tree.
	AddNestedResult(parentTaskID string, output *types.SimulationOutput)
}

// AgentLister is the slice of the registry client the invoker validates
// against.
type AgentLister interface {
	ListAgents(ctx context.Context) ([]*types.AgentCard, error)
}

// Invoker dispatches recursive agent invocations as nested simulations.
type Invoker struct {
	orchestrator Orchestrator
	registry     AgentLister
	store        types.TaskStore
}

// NewInvoker creates an invoker dispatching through orchestrator,
// validating targets against registry and aggregating artifacts into
// store.
func NewInvoker(orchestrator Orchestrator, registry AgentLister, store types.TaskStore) *Invoker {
	return &Invoker{
		orchestrator: orchestrator,
		registry:     registry,
		store:        store,
	}
}

// queryTemplate frames the delegated query in the target agent's voice.
const queryTemplate = `You are %s. Please provide your perspective on the following:

%s

%s

Please respond as %s would, drawing on your expertise and perspective. Keep your response focused and authentic to your role.`

// composeQuery renders the delegation query for agentName.
func composeQuery(agentName, query, extraContext string) string {
	contextLine := ""
	if extraContext != "" {
		contextLine = "Additional context: " + extraContext
	}
	return fmt.Sprintf(queryTemplate, agentName, query, contextLine, agentName)
}

// InvokeAgentByName runs agentName as a nested simulation and returns its
// response text.
//
// The target must exist in the registry; an unknown name fails with
// *[types.AgentNotFoundError] listing the names that do. The child runs
// under the caller's [Scope]: its context id is derived from the caller's
// and its depth budget is maxDepth capped at the caller's remaining budget
// minus one. An exhausted budget fails fast with
// *[types.DepthExceededError] before any child task is created.
func (inv *Invoker) InvokeAgentByName(ctx context.Context, agentName, query, extraContext string, maxDepth int) (string, error) {
	logger := logging.FromContext(ctx)

	scope, ok := ScopeFromContext(ctx)
	if !ok {
		scope = &Scope{
			AgentName:      "unknown",
			TaskID:         "unknown",
			ContextID:      "unknown",
			RemainingDepth: maxDepth + 1,
		}
	}

	if scope.RemainingDepth <= 0 {
		return "", &types.DepthExceededError{AgentName: agentName, MaxDepth: scope.RemainingDepth}
	}
	childDepth := min(maxDepth, scope.RemainingDepth-1)

	if err := inv.validateAgent(ctx, agentName); err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "Invoking agent through recursive simulation",
		slog.String("invoking_agent", scope.AgentName),
		slog.String("target_agent", agentName),
		slog.String("context_id", scope.ContextID),
		slog.Int("max_depth", childDepth),
	)

	childInput := &types.SimulationInput{
		ContextID:         types.ChildContextID(scope.ContextID, agentName),
		ParentContextID:   scope.ContextID,
		Query:             composeQuery(agentName, query, extraContext),
		ExecutionStrategy: types.ExecutionDirect,
		MaxDepth:          childDepth,
	}

	nested, err := inv.orchestrator.ExecuteSimulation(ctx, childInput)
	if err != nil {
		logger.ErrorContext(ctx, "Recursive agent invocation failed",
			slog.String("invoking_agent", scope.AgentName),
			slog.String("target_agent", agentName),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("invoke agent %q: %w", agentName, err)
	}

	responseText := nested.ResponseText()
	if responseText == "" {
		responseText = "No response generated"
	}

	inv.orchestrator.AddNestedResult(scope.TaskID, nested)
	inv.aggregateNestedOutput(ctx, scope.TaskID, nested, agentName)

	logger.InfoContext(ctx, "Completed recursive agent invocation",
		slog.String("invoking_agent", scope.AgentName),
		slog.String("target_agent", agentName),
		slog.Int("response_length", len(responseText)),
		slog.Int("artifacts_in_nested", len(nested.ResponseArtifacts)),
	)
	return responseText, nil
}

// InvokeMultipleAgents runs the named agents in parallel against the same
// query and returns their responses keyed by agent name.
//
// All targets are validated upfront; any unknown name fails the whole
// call. Execution errors are isolated per agent: a failed agent maps to an
// "Error: ..." value and its siblings are unaffected.
func (inv *Invoker) InvokeMultipleAgents(ctx context.Context, agentNames []string, queryTemplate string, individualContexts []string, maxDepth int) (map[string]string, error) {
	logger := logging.FromContext(ctx)

	for _, name := range agentNames {
		if err := inv.validateAgent(ctx, name); err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "Invoking multiple agents in parallel",
		slog.Int("agent_count", len(agentNames)),
	)

	tasks := make([]*pyasyncio.Task[string], len(agentNames))
	for i, name := range agentNames {
		extraContext := ""
		if i < len(individualContexts) {
			extraContext = individualContexts[i]
		}
		tasks[i] = pyasyncio.CreateNamedTask(ctx, name, func(ctx context.Context) (string, error) {
			return inv.InvokeAgentByName(ctx, name, queryTemplate, extraContext, maxDepth)
		})
	}

	results := make(map[string]string, len(agentNames))
	successful := 0
	for i, task := range tasks {
		text, err := task.Wait(ctx)
		if err != nil {
			results[agentNames[i]] = "Error: " + err.Error()
			logger.ErrorContext(ctx, "Parallel agent invocation failed",
				slog.String("agent", agentNames[i]),
				slog.Any("error", err),
			)
			continue
		}
		results[agentNames[i]] = text
		successful++
	}

	logger.InfoContext(ctx, "Multiple agent invocation completed",
		slog.Int("successful_invocations", successful),
		slog.Int("total_agents", len(agentNames)),
	)
	return results, nil
}

// validateAgent checks that agentName exists in the registry by name or
// id.
func (inv *Invoker) validateAgent(ctx context.Context, agentName string) error {
	agents, err := inv.registry.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("validate agent %q: %w", agentName, err)
	}
	if len(agents) == 0 {
		return types.ErrNoAgents
	}

	known := make([]string, 0, len(agents))
	for _, card := range agents {
		agent := types.NewAgentInterface(card)
		if agent.Name() == agentName || agent.AgentID() == agentName {
			return nil
		}
		known = append(known, agent.Name())
	}
	return &types.AgentNotFoundError{Name: agentName, Known: known}
}

// aggregateNestedOutput copies the nested output's artifacts onto the
// parent task with attribution to the generating agent. Aggregation
// failures are logged, never fatal: a missing artifact must not break the
// invocation that produced it.
func (inv *Invoker) aggregateNestedOutput(ctx context.Context, parentTaskID string, nested *types.SimulationOutput, sourceAgent string) {
	logger := logging.FromContext(ctx)

	if _, err := inv.store.Get(ctx, parentTaskID); err != nil {
		var notFound *types.TaskNotFoundError
		if errors.As(err, &notFound) {
			logger.WarnContext(ctx, "Cannot aggregate artifacts - parent task not found",
				slog.String("parent_task_id", parentTaskID),
				slog.String("source_agent", sourceAgent),
			)
			return
		}
		logger.ErrorContext(ctx, "Failed to aggregate nested artifacts",
			slog.String("parent_task_id", parentTaskID),
			slog.Any("error", err),
		)
		return
	}

	var aggregated []*types.Artifact
	for _, artifact := range nested.ResponseArtifacts {
		copied, err := copyArtifact(artifact)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to copy nested artifact",
				slog.String("artifact_id", artifact.ArtifactID),
				slog.Any("error", err),
			)
			continue
		}
		copied.Name = sourceAgent + "_response"
		copied.Description = "Response from " + sourceAgent
		aggregated = append(aggregated, copied)
	}

	// Artifacts of transitively nested results keep their own attribution
	// when it follows the "{agent}_response" pattern; anything else is
	// marked nested.
	for _, result := range nested.Results {
		for _, artifact := range result.ResponseArtifacts {
			copied, err := copyArtifact(artifact)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to copy nested artifact",
					slog.String("artifact_id", artifact.ArtifactID),
					slog.Any("error", err),
				)
				continue
			}
			if agent, ok := strings.CutSuffix(artifact.Name, "_response"); ok {
				copied.Name = agent + "_response"
				copied.Description = "Response from " + agent
			} else {
				copied.Name = "nested_" + artifact.Name
				copied.Description = "Nested response: " + artifact.Description
			}
			aggregated = append(aggregated, copied)
		}
	}

	if len(aggregated) == 0 {
		logger.DebugContext(ctx, "No artifacts to aggregate from nested output",
			slog.String("parent_task_id", parentTaskID),
			slog.String("source_agent", sourceAgent),
		)
		return
	}

	if err := inv.store.AppendArtifacts(ctx, parentTaskID, aggregated...); err != nil {
		logger.ErrorContext(ctx, "Failed to aggregate nested artifacts",
			slog.String("parent_task_id", parentTaskID),
			slog.String("source_agent", sourceAgent),
			slog.Any("error", err),
		)
		return
	}

	logger.InfoContext(ctx, "Aggregated nested artifacts",
		slog.String("parent_task_id", parentTaskID),
		slog.String("source_agent", sourceAgent),
		slog.Int("artifacts_added", len(aggregated)),
	)
}

// copyArtifact deep-copies an artifact so the parent task never shares
// parts with the nested output.
func copyArtifact(artifact *types.Artifact) (*types.Artifact, error) {
	copied := new(types.Artifact)
	if err := deepcopy.Copy(copied, artifact); err != nil {
		return nil, err
	}
	return copied, nil
}
