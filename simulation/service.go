// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-a2a/mantis/narrator"
	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/team"
	"github.com/go-a2a/mantis/types"
)

// HealthStatus is the status value reported by a healthy service.
const HealthStatus = "healthy"

// Version identifies the service build in health reports.
const Version = "0.1.0"

// Health is the service health report.
type Health struct {
	Status         string `json:"status"`
	ActiveTasks    int    `json:"activeTasks"`
	ActiveContexts int    `json:"activeContexts"`
	Tools          int    `json:"tools"`
	Version        string `json:"version"`
}

// Service is the outward simulation boundary: validation, team execution
// and status queries on top of an [Orchestrator].
type Service struct {
	orchestrator *Orchestrator
	narrator     narrator.Narrator
	logger       *slog.Logger
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithNarrator enables narrative synthesis of successful team executions.
func WithNarrator(n narrator.Narrator) ServiceOption {
	return func(s *Service) {
		s.narrator = n
	}
}

// WithServiceLogger sets the service's logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the service boundary over orchestrator.
func NewService(orchestrator *Orchestrator, opts ...ServiceOption) *Service {
	s := &Service{
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessSimulationInput validates and runs one simulation input.
//
// Validation failures return an error before any task is created. Past
// validation the caller always gets a well-formed output: internal
// failures are shaped into a FAILED output with an "error-" message.
func (s *Service) ProcessSimulationInput(ctx context.Context, input *types.SimulationInput) (*types.SimulationOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("simulation input cannot be nil")
	}
	if strings.TrimSpace(input.ContextID) == "" {
		return nil, types.ErrEmptyContextID
	}
	if strings.TrimSpace(input.Query) == "" {
		return nil, types.ErrEmptyQuery
	}

	output, err := s.orchestrator.ExecuteSimulation(ctx, input)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "Simulation processing failed",
			slog.String("context_id", input.ContextID),
			slog.Any("error", err),
		)
		msg := types.NewMessage(types.NewMessageID(types.MessagePrefixError), types.RoleAgent, "Simulation processing failed: "+err.Error())
		msg.ContextID = input.ContextID
		return &types.SimulationOutput{
			ContextID:         input.ContextID,
			FinalState:        types.TaskStateFailed,
			ResponseMessage:   msg,
			RecursionDepth:    input.MaxDepth,
			ExecutionStrategy: s.orchestrator.Executor().StrategyType(),
		}, nil
	}
	return output, nil
}

// ProcessTeamExecutionRequest validates the request, forms the team and
// executes the members. When a narrator is configured and every member
// succeeded, the synthesized narrative is appended to the member
// responses; synthesis failures are logged and leave the result intact.
func (s *Service) ProcessTeamExecutionRequest(ctx context.Context, req *types.TeamExecutionRequest) (*types.TeamExecutionResult, error) {
	if req == nil || req.Input == nil {
		return nil, fmt.Errorf("team execution request cannot be nil")
	}
	if strings.TrimSpace(req.Input.ContextID) == "" {
		return nil, types.ErrTeamEmptyContextID
	}
	if strings.TrimSpace(req.Input.Query) == "" {
		return nil, types.ErrTeamEmptyQuery
	}

	strategy := req.FormationStrategy
	if strategy == "" {
		strategy = req.Input.TeamStrategy
	}
	formation, err := team.NewTeam(strategy, s.orchestrator.registry, s.orchestrator.exec,
		team.WithTaskStore(s.orchestrator.store),
		team.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	members, err := formation.SelectTeamMembers(ctx, req.Input, req.Size())
	if err != nil {
		return nil, fmt.Errorf("form team: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "Executing team",
		slog.String("context_id", req.Input.ContextID),
		slog.String("formation", string(formation.Strategy())),
		slog.Int("members", len(members)),
	)

	result, err := formation.ExecuteTeam(ctx, req.Input, members)
	if err != nil {
		return nil, fmt.Errorf("execute team: %w", err)
	}
	if req.PreferredStrategy != "" {
		result.ExecutionStrategy = req.PreferredStrategy
	} else {
		result.ExecutionStrategy = s.orchestrator.exec.StrategyType()
	}

	if s.narrator != nil && result.Succeeded() {
		s.narrate(ctx, req.Input, result)
	}
	return result, nil
}

// narrate appends the synthesized narrative to the team result.
func (s *Service) narrate(ctx context.Context, input *types.SimulationInput, result *types.TeamExecutionResult) {
	resp, err := s.narrator.SynthesizeNarrative(ctx, input, result)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "Narrative synthesis failed",
			slog.String("context_id", input.ContextID),
			slog.Any("error", err),
		)
		return
	}
	result.MemberResponses = append(result.MemberResponses, resp)
	if resp.ResponseMessage != nil {
		result.MemberMessages = append(result.MemberMessages, resp.ResponseMessage)
	}
}

// ContextualExecutionStatus returns outputs for every task in the
// context, including tasks of derived child contexts.
func (s *Service) ContextualExecutionStatus(ctx context.Context, contextID string) ([]*types.SimulationOutput, error) {
	if strings.TrimSpace(contextID) == "" {
		return nil, types.ErrEmptyContextID
	}
	tasks, err := s.orchestrator.store.ListByContext(ctx, contextID)
	if err != nil {
		return nil, fmt.Errorf("list context %q: %w", contextID, err)
	}

	outputs := make([]*types.SimulationOutput, 0, len(tasks))
	for _, task := range tasks {
		outputs = append(outputs, &types.SimulationOutput{
			ContextID:         task.ContextID,
			FinalState:        task.Status.State,
			Task:              task,
			ResponseMessage:   task.LastMessage(),
			ResponseArtifacts: task.Artifacts,
		})
	}
	return outputs, nil
}

// ActiveContexts returns the distinct context ids of stored tasks.
func (s *Service) ActiveContexts(ctx context.Context) ([]string, error) {
	return s.orchestrator.store.ActiveContexts(ctx)
}

// Health reports the service health: task and context counts plus the
// size of the tool surface.
func (s *Service) Health(ctx context.Context) (*Health, error) {
	contexts, err := s.orchestrator.store.ActiveContexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active contexts: %w", err)
	}
	tools := 0
	if s.orchestrator.tools != nil {
		tools = s.orchestrator.tools.Len()
	}
	return &Health{
		Status:         HealthStatus,
		ActiveTasks:    s.orchestrator.store.Len(),
		ActiveContexts: len(contexts),
		Tools:          tools,
		Version:        Version,
	}, nil
}
