// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// Defaults applied when a [SimulationInput] leaves a knob unset.
const (
	// DefaultModel is the model spec used when none is given.
	DefaultModel = "anthropic:claude-3-5-haiku-20241022"

	// DefaultTemperature is the sampling temperature used when none is
	// given.
	DefaultTemperature = 0.7

	// DefaultMaxDepth is the recursion depth budget used when none is
	// given.
	DefaultMaxDepth = 3

	// MaxDepthLimit is the hard safety ceiling for the depth budget.
	MaxDepthLimit = 10

	// DefaultRegistryURL is the agent registry endpoint used when none is
	// given.
	DefaultRegistryURL = "http://localhost:8080"
)

// ExecutionStrategy selects how agent executions are dispatched.
type ExecutionStrategy string

const (
	// ExecutionDirect runs the agent in-process through the LLM layer.
	ExecutionDirect ExecutionStrategy = "direct"

	// ExecutionA2A delegates the agent to a remote A2A endpoint.
	ExecutionA2A ExecutionStrategy = "a2a"
)

// TeamStrategy selects how team members are drawn from the registry.
type TeamStrategy string

const (
	// TeamRandom samples distinct agents uniformly.
	TeamRandom TeamStrategy = "random"

	// TeamHomogeneous replicates one randomly chosen agent.
	TeamHomogeneous TeamStrategy = "homogeneous"

	// TeamTarot derives the team from a tarot spread matched against
	// registry agents.
	TeamTarot TeamStrategy = "tarot"
)

// RecursionPolicy governs whether an agent slot may delegate further.
type RecursionPolicy string

const (
	// RecursionMay allows delegation within the depth budget.
	RecursionMay RecursionPolicy = "may"

	// RecursionMust requires at least one delegation.
	RecursionMust RecursionPolicy = "must"

	// RecursionMustNot forbids delegation.
	RecursionMustNot RecursionPolicy = "must_not"
)

// ModelSpec selects a model and sampling temperature. The Model string
// accepts the "provider:model" form; the provider prefix is advisory.
type ModelSpec struct {
	Model       string  `json:"model,omitzero"`
	Temperature float64 `json:"temperature,omitzero"`
}

// AgentRef pins an agent slot to a concrete registry agent by name.
type AgentRef struct {
	Name    string `json:"name"`
	AgentID string `json:"agentId,omitzero"`
}

// AgentSpec describes one requested agent slot of a simulation.
type AgentSpec struct {
	// Count is the number of instances of this slot. At least 1.
	Count int `json:"count"`

	// Agent optionally pins the slot to a registry agent. When nil the
	// orchestrator resolves a coordinator or default agent.
	Agent *AgentRef `json:"agent,omitzero"`

	// ModelSpec optionally overrides the simulation-level model.
	ModelSpec *ModelSpec `json:"modelSpec,omitzero"`

	// Recursion is the slot's delegation policy.
	Recursion RecursionPolicy `json:"recursionPolicy,omitzero"`
}

// SimulationInput is the immutable description of one simulation run.
// Build instances through [NewSimulationInputBuilder]; inputs constructed
// by the runtime itself (recursive children) bypass builder validation.
type SimulationInput struct {
	// ContextID identifies the conversation thread. Required.
	ContextID string `json:"contextId"`

	// ParentContextID links a recursive child to its parent thread.
	ParentContextID string `json:"parentContextId,omitzero"`

	// Query is the task text. Required.
	Query string `json:"query"`

	// Context carries optional free-form additional context.
	Context string `json:"context,omitzero"`

	// Agents are the requested agent slots.
	Agents []*AgentSpec `json:"agents,omitzero"`

	// MaxDepth is the remaining recursion depth budget. Tool use is
	// disabled when it reaches zero.
	MaxDepth int `json:"maxDepth"`

	// MinDepth is the minimum depth expected of the execution. Only
	// MaxDepth bounds recursion.
	MinDepth int `json:"minDepth,omitzero"`

	// ExecutionStrategy selects DIRECT or A2A dispatch.
	ExecutionStrategy ExecutionStrategy `json:"executionStrategy,omitzero"`

	// TeamStrategy selects the formation strategy for team execution.
	TeamStrategy TeamStrategy `json:"teamStrategy,omitzero"`

	// ModelSpec optionally overrides the default model and temperature.
	ModelSpec *ModelSpec `json:"modelSpec,omitzero"`
}

// Model returns the effective model spec string.
func (in *SimulationInput) Model() string {
	if in.ModelSpec != nil && in.ModelSpec.Model != "" {
		return in.ModelSpec.Model
	}
	return DefaultModel
}

// Temperature returns the effective sampling temperature.
func (in *SimulationInput) Temperature() float64 {
	if in.ModelSpec != nil && in.ModelSpec.Temperature != 0 {
		return in.ModelSpec.Temperature
	}
	return DefaultTemperature
}

// ToolsDisabled reports whether tool use is disabled for this input: an
// exhausted depth budget stops all further delegation and tool calls.
func (in *SimulationInput) ToolsDisabled() bool {
	return in.MaxDepth <= 0
}

// SimulationOutput is the result of one simulation run. Outputs form a
// tree: delegated sub-simulations appear under Results.
type SimulationOutput struct {
	// ContextID is the thread the output belongs to.
	ContextID string `json:"contextId"`

	// FinalState is the terminal state of the simulation task.
	FinalState TaskState `json:"finalState"`

	// Task is a copy of the completed simulation task.
	Task *Task `json:"simulationTask,omitzero"`

	// ResponseMessage is the last message of the task history.
	ResponseMessage *Message `json:"responseMessage,omitzero"`

	// ResponseArtifacts are the artifacts produced by the task, including
	// artifacts aggregated from nested invocations.
	ResponseArtifacts []*Artifact `json:"responseArtifacts,omitzero"`

	// Results holds the outputs of nested recursive invocations.
	Results []*SimulationOutput `json:"results,omitzero"`

	// RecursionDepth echoes the input's depth budget.
	RecursionDepth int `json:"recursionDepth,omitzero"`

	// ExecutionStrategy echoes the input's dispatch strategy.
	ExecutionStrategy ExecutionStrategy `json:"executionStrategy,omitzero"`
}

// ResponseText returns the text of the response message, or "".
func (o *SimulationOutput) ResponseText() string {
	if o == nil {
		return ""
	}
	return o.ResponseMessage.Text()
}

// ContextualExecution situates one agent execution inside the simulation
// tree: its depth, team and assigned role.
type ContextualExecution struct {
	// CurrentDepth is the execution's depth; the root runs at 0, team
	// members at 1.
	CurrentDepth int

	// MaxDepth is the simulation depth budget.
	MaxDepth int

	// TeamSize is the number of agents executing alongside this one,
	// itself included.
	TeamSize int

	// AgentIndex is the execution's position within its team.
	AgentIndex int

	// AssignedRole is the role chosen for this execution.
	AssignedRole AgentRole
}

// CanDelegate reports whether this execution has depth budget left for
// delegating sub-tasks.
func (c *ContextualExecution) CanDelegate() bool {
	return c.CurrentDepth < c.MaxDepth
}
