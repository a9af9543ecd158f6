// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// AgentResponse is the result of executing one agent.
type AgentResponse struct {
	// AgentName is the executed agent's display name.
	AgentName string `json:"agentName"`

	// Role is the role the agent was assigned for this execution.
	Role AgentRole `json:"role,omitzero"`

	// ResponseMessage carries the agent's answer.
	ResponseMessage *Message `json:"responseMessage,omitzero"`

	// FinalState is COMPLETED on success; executors report failures as
	// errors, never as partial responses.
	FinalState TaskState `json:"finalState"`

	// Metadata carries strategy-specific details, e.g. the tarot card
	// backing a team member.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Text returns the text of the response message, or "".
func (r *AgentResponse) Text() string {
	if r == nil {
		return ""
	}
	return r.ResponseMessage.Text()
}

// Executor dispatches agent executions for one strategy.
//
// Implementations resolve the agent, assign its role, compose the prompt
// and perform the model or network round trip. A failure surfaces as an
// error carrying the agent context; no partial response is synthesized.
type Executor interface {
	// ExecuteAgent runs one agent slot of the input. The slot's agent
	// reference is resolved through the registry; an unpinned slot falls
	// back to the executor's default agent.
	ExecuteAgent(ctx context.Context, input *SimulationInput, spec *AgentSpec, agentIndex int) (*AgentResponse, error)

	// ExecuteResolved runs an already-resolved agent within the given
	// execution context. Team members and narrators are dispatched this
	// way: selection has already happened, only execution remains.
	ExecuteResolved(ctx context.Context, input *SimulationInput, agent *AgentInterface, execution *ContextualExecution) (*AgentResponse, error)

	// StrategyType reports the dispatch strategy of this executor.
	StrategyType() ExecutionStrategy
}
