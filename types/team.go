// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// DefaultTeamSize is the number of members formed when a
// [TeamExecutionRequest] leaves TeamSize unset.
const DefaultTeamSize = 3

// TeamExecutionRequest asks for a coordinated multi-agent execution of
// one simulation input.
type TeamExecutionRequest struct {
	// Input is the shared simulation context. Query and ContextID are
	// required.
	Input *SimulationInput `json:"simulationInput"`

	// TeamSize is the requested number of members. Defaults to
	// [DefaultTeamSize].
	TeamSize int `json:"teamSize,omitzero"`

	// FormationStrategy selects how members are drawn from the registry.
	FormationStrategy TeamStrategy `json:"formationStrategy,omitzero"`

	// PreferredStrategy is echoed into the result's ExecutionStrategy.
	PreferredStrategy ExecutionStrategy `json:"preferredExecutionStrategy,omitzero"`
}

// Size returns the effective team size.
func (r *TeamExecutionRequest) Size() int {
	if r.TeamSize > 0 {
		return r.TeamSize
	}
	return DefaultTeamSize
}

// TeamExecutionResult aggregates the outcome of a team execution.
// Member slices are ordered by completion, not by member index.
type TeamExecutionResult struct {
	// ContextID is the requesting input's context id.
	ContextID string `json:"contextId"`

	// TeamFinalState is COMPLETED iff every member completed; an empty
	// team or any member failure yields FAILED.
	TeamFinalState TaskState `json:"teamFinalState"`

	// ExecutionStrategy echoes the request's preferred strategy.
	ExecutionStrategy ExecutionStrategy `json:"executionStrategy,omitzero"`

	// MemberTasks are copies of the members' simulation tasks.
	MemberTasks []*Task `json:"memberTasks,omitzero"`

	// MemberMessages are the members' response messages.
	MemberMessages []*Message `json:"memberMessages,omitzero"`

	// MemberArtifacts are all artifacts the members produced.
	MemberArtifacts []*Artifact `json:"memberArtifacts,omitzero"`

	// MemberResponses attribute each member's answer to its agent,
	// preserving roles and formation metadata for synthesis.
	MemberResponses []*AgentResponse `json:"memberResponses,omitzero"`
}

// Succeeded reports whether the whole team completed.
func (r *TeamExecutionResult) Succeeded() bool {
	return r.TeamFinalState == TaskStateCompleted
}
