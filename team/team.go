// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package team

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"sync"
	"time"

	"github.com/go-a2a/mantis/executor"
	"github.com/go-a2a/mantis/pkg/py/pyasyncio"
	"github.com/go-a2a/mantis/types"
)

// Member is one selected team member: the resolved agent plus formation
// metadata, e.g. the tarot card that backs it.
type Member struct {
	Agent    *types.AgentInterface
	Metadata map[string]any
}

// Team forms and executes a member set for one simulation input.
type Team interface {
	// Strategy reports the formation strategy.
	Strategy() types.TeamStrategy

	// SelectTeamMembers draws up to teamSize members from the registry.
	// A registry holding fewer agents than requested shrinks the team; an
	// unreachable registry is an error.
	SelectTeamMembers(ctx context.Context, input *types.SimulationInput, teamSize int) ([]*Member, error)

	// AssignMemberContexts situates each member in the simulation tree:
	// depth 1, the shared team size, per-member index and role.
	AssignMemberContexts(ctx context.Context, members []*Member, input *types.SimulationInput) []*types.ContextualExecution

	// ExecuteTeam runs the members concurrently and aggregates their
	// tasks, messages and artifacts. Member failures are isolated; the
	// result state is COMPLETED only when every member completed.
	ExecuteTeam(ctx context.Context, input *types.SimulationInput, members []*Member) (*types.TeamExecutionResult, error)
}

// core holds the collaborators shared by the formation strategies.
type core struct {
	source executor.AgentSource
	exec   types.Executor
	store  types.TaskStore
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a team's shared execution core.
type Option func(*core)

// WithTaskStore records per-member tasks in store.
func WithTaskStore(store types.TaskStore) Option {
	return func(c *core) {
		c.store = store
	}
}

// WithRand seeds member selection.
func WithRand(rng *rand.Rand) Option {
	return func(c *core) {
		c.rng = rng
	}
}

// WithLogger sets the team's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *core) {
		c.logger = logger
	}
}

func newCore(c *core, source executor.AgentSource, exec types.Executor, opts ...Option) {
	c.source = source
	c.exec = exec
	c.logger = slog.Default()
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// NewTeam creates the team implementation for strategy. An unset strategy
// defaults to random formation.
func NewTeam(strategy types.TeamStrategy, source executor.AgentSource, exec types.Executor, opts ...Option) (Team, error) {
	switch strategy {
	case types.TeamRandom, "":
		return NewRandom(source, exec, opts...), nil
	case types.TeamHomogeneous:
		return NewHomogeneous(source, exec, opts...), nil
	case types.TeamTarot:
		return NewTarot(source, exec, nil, opts...), nil
	default:
		return nil, fmt.Errorf("unknown team strategy %q", strategy)
	}
}

// listAgents fetches the registry cards every strategy selects from.
func (c *core) listAgents(ctx context.Context) ([]*types.AgentCard, error) {
	if c.source == nil {
		return nil, fmt.Errorf("no registry configured")
	}
	cards, err := c.source.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registry agents: %w", err)
	}
	if len(cards) == 0 {
		return nil, types.ErrNoAgents
	}
	return cards, nil
}

func (c *core) perm(n int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Perm(n)
}

func (c *core) intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(n)
}

// AssignMemberContexts implements [Team]. Members execute one level below
// the team root.
func (c *core) AssignMemberContexts(_ context.Context, members []*Member, input *types.SimulationInput) []*types.ContextualExecution {
	executions := make([]*types.ContextualExecution, len(members))
	for i, member := range members {
		execution := &types.ContextualExecution{
			CurrentDepth: 1,
			MaxDepth:     input.MaxDepth,
			TeamSize:     len(members),
			AgentIndex:   i,
		}
		execution.AssignedRole = executor.DetermineAgentRole(member.Agent, execution)
		executions[i] = execution
	}
	return executions
}

// memberOutcome is the result of one member execution, failed or not.
type memberOutcome struct {
	response *types.AgentResponse
	task     *types.Task
	err      error
}

// ExecuteTeam implements [Team].
func (c *core) ExecuteTeam(ctx context.Context, input *types.SimulationInput, members []*Member) (*types.TeamExecutionResult, error) {
	result := &types.TeamExecutionResult{
		ContextID:         input.ContextID,
		ExecutionStrategy: input.ExecutionStrategy,
		TeamFinalState:    types.TaskStateFailed,
	}
	if len(members) == 0 {
		return result, nil
	}
	if c.exec == nil {
		return nil, fmt.Errorf("no executor configured")
	}

	executions := c.AssignMemberContexts(ctx, members, input)

	// Individual tasks rather than a task group: one member's failure
	// must not cancel its siblings.
	running := make([]*pyasyncio.Task[*memberOutcome], len(members))
	for i, member := range members {
		running[i] = pyasyncio.CreateNamedTask(ctx, member.Agent.Name(),
			func(ctx context.Context) (*memberOutcome, error) {
				return c.runMember(ctx, input, member, executions[i], i), nil
			})
	}

	allCompleted := true
	for i, t := range running {
		outcome, err := t.Wait(ctx)
		if err != nil {
			return nil, err
		}
		if outcome.task != nil {
			result.MemberTasks = append(result.MemberTasks, outcome.task)
			result.MemberArtifacts = append(result.MemberArtifacts, outcome.task.Artifacts...)
		}
		if outcome.err != nil {
			allCompleted = false
			c.logger.WarnContext(ctx, "Team member failed",
				slog.String("agent", members[i].Agent.Name()),
				slog.Int("member", i),
				slog.Any("err", outcome.err),
			)
			continue
		}
		result.MemberResponses = append(result.MemberResponses, outcome.response)
		result.MemberMessages = append(result.MemberMessages, outcome.response.ResponseMessage)
	}
	if allCompleted {
		result.TeamFinalState = types.TaskStateCompleted
	}
	return result, nil
}

// runMember executes one member in its own derived context and, when a
// store is configured, tracks the execution as a task.
func (c *core) runMember(ctx context.Context, input *types.SimulationInput, member *Member, execution *types.ContextualExecution, index int) *memberOutcome {
	outcome := &memberOutcome{}

	memberInput := *input
	memberInput.ContextID = types.MemberContextID(input.ContextID, index)
	memberInput.ParentContextID = input.ContextID

	var taskID string
	if c.store != nil {
		task := types.NewTask(memberInput.ContextID)
		if err := c.store.Create(ctx, task); err != nil {
			c.logger.WarnContext(ctx, "Failed to create member task",
				slog.String("task_id", task.ID),
				slog.Any("err", err),
			)
		} else {
			taskID = task.ID
			_ = c.store.Transition(ctx, taskID, types.TaskStateWorking, "")
		}
	}

	resp, err := c.exec.ExecuteResolved(ctx, &memberInput, member.Agent, execution)
	if err != nil {
		outcome.err = err
		if taskID != "" {
			_ = c.store.Transition(ctx, taskID, types.TaskStateFailed, err.Error())
			outcome.task, _ = c.store.Get(ctx, taskID)
		}
		return outcome
	}

	// Formation metadata rides on the member's response into synthesis.
	if len(member.Metadata) > 0 {
		if resp.Metadata == nil {
			resp.Metadata = make(map[string]any, len(member.Metadata))
		}
		maps.Copy(resp.Metadata, member.Metadata)
	}
	outcome.response = resp

	if taskID != "" {
		_ = c.store.AppendMessage(ctx, taskID, resp.ResponseMessage)
		_ = c.store.AppendArtifacts(ctx, taskID, types.NewResponseArtifact(resp.AgentName, resp.Text()))
		_ = c.store.Transition(ctx, taskID, types.TaskStateCompleted, "")
		outcome.task, _ = c.store.Get(ctx, taskID)
	}
	return outcome
}
