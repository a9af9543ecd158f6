// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/mantis/types"
)

// Narrator synthesizes a team's member responses into one narrative.
type Narrator interface {
	// SynthesizeNarrative runs one synthesis pass over the team result.
	// An empty result is an error; a successful synthesis returns a
	// COMPLETED response in the narrator role.
	SynthesizeNarrative(ctx context.Context, input *types.SimulationInput, result *types.TeamExecutionResult) (*types.AgentResponse, error)
}

// NarratorCard returns the default narrator persona card.
func NarratorCard() *types.AgentCard {
	return &types.AgentCard{
		Name:        "Narrator",
		Description: "Synthesizes multiple agent perspectives into a single coherent narrative",
		Version:     "1.0.0",
	}
}

// synthesisTemplate frames the member blocks for the base synthesizer.
var synthesisTemplate = heredoc.Doc(`
	You are the narrator of a multi-agent simulation.

	Query: %s

	The team has responded. Here are the member responses:

	%s

	---

	Synthesize these perspectives into a single coherent narrative: weave
	the responses together, surface where they agree and where they pull
	against each other, and close with the overall answer to the query.
`)

// Synthesizer is the base narrator: member responses aggregated in
// order, one model call with the narrator persona.
type Synthesizer struct {
	exec    types.Executor
	agent   *types.AgentInterface
	compose func(input *types.SimulationInput, result *types.TeamExecutionResult) string
	logger  *slog.Logger
}

var _ Narrator = (*Synthesizer)(nil)

// Option configures a [Synthesizer].
type Option func(*Synthesizer)

// WithAgent sets the narrator persona.
func WithAgent(agent *types.AgentInterface) Option {
	return func(s *Synthesizer) {
		s.agent = agent
	}
}

// WithLogger sets the synthesizer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// NewSynthesizer creates the base narrator dispatching through exec.
func NewSynthesizer(exec types.Executor, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		exec:    exec,
		compose: composeSynthesisPrompt,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.agent == nil {
		s.agent = types.NewAgentInterface(NarratorCard())
	}
	return s
}

// SynthesizeNarrative implements [Narrator].
func (s *Synthesizer) SynthesizeNarrative(ctx context.Context, input *types.SimulationInput, result *types.TeamExecutionResult) (*types.AgentResponse, error) {
	if result == nil || len(result.MemberResponses) == 0 {
		return nil, fmt.Errorf("no member responses to synthesize")
	}

	// The narrator speaks in the parent thread with an exhausted
	// delegation budget: depth 1 of 1 leaves no room to spawn agents.
	narratorInput := *input
	narratorInput.Query = s.compose(input, result)
	narratorInput.MaxDepth = 1

	execution := &types.ContextualExecution{
		CurrentDepth: 1,
		MaxDepth:     1,
		TeamSize:     1,
		AssignedRole: types.RoleNarrator,
	}

	s.logger.DebugContext(ctx, "Synthesizing narrative",
		slog.String("narrator", s.agent.Name()),
		slog.String("context_id", input.ContextID),
		slog.Int("members", len(result.MemberResponses)),
	)
	resp, err := s.exec.ExecuteResolved(ctx, &narratorInput, s.agent, execution)
	if err != nil {
		return nil, fmt.Errorf("narrative synthesis: %w", err)
	}
	return resp, nil
}

// composeSynthesisPrompt aggregates the member responses in order, each
// block attributed to its source agent.
func composeSynthesisPrompt(input *types.SimulationInput, result *types.TeamExecutionResult) string {
	blocks := make([]string, 0, len(result.MemberResponses))
	for _, member := range result.MemberResponses {
		blocks = append(blocks, fmt.Sprintf("## %s\n\n%s", member.AgentName, member.Text()))
	}
	return fmt.Sprintf(synthesisTemplate, input.Query, strings.Join(blocks, "\n\n"))
}
