// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// SimulationInputBuilder assembles a validated [SimulationInput].
//
// Setters are chainable and record the first invalid argument they see;
// [SimulationInputBuilder.Build] surfaces that error, runs the remaining
// cross-field validation and fills in defaults.
type SimulationInputBuilder struct {
	query          string
	context        string
	structuredData map[string]any
	agents         []*AgentSpec
	maxDepth       int
	minDepth       int
	strategy       ExecutionStrategy
	teamStrategy   TeamStrategy
	model          string
	temperature    *float64
	contextID      string
	parentContext  string
	err            error
}

// NewSimulationInputBuilder returns a builder primed with defaults: the
// direct execution strategy and a depth budget of [DefaultMaxDepth].
func NewSimulationInputBuilder() *SimulationInputBuilder {
	return &SimulationInputBuilder{
		maxDepth: DefaultMaxDepth,
		strategy: ExecutionDirect,
	}
}

func (b *SimulationInputBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// WithQuery sets the task text. The query must be non-blank.
func (b *SimulationInputBuilder) WithQuery(query string) *SimulationInputBuilder {
	query = strings.TrimSpace(query)
	if query == "" {
		b.setErr(fmt.Errorf("Query cannot be empty"))
		return b
	}
	b.query = query
	return b
}

// WithContext sets the free-form additional context.
func (b *SimulationInputBuilder) WithContext(context string) *SimulationInputBuilder {
	b.context = context
	return b
}

// WithStructuredData attaches structured context, folded into the
// context field at build time.
func (b *SimulationInputBuilder) WithStructuredData(data map[string]any) *SimulationInputBuilder {
	b.structuredData = data
	return b
}

// WithAgents parses a comma-separated agent specification string of the
// form "name", "name:count" or "name:count:policy".
func (b *SimulationInputBuilder) WithAgents(agents string) *SimulationInputBuilder {
	specs, err := ParseAgentSpecs(agents)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.agents = specs
	return b
}

// WithAgentSpecs sets the agent slots directly.
func (b *SimulationInputBuilder) WithAgentSpecs(specs ...*AgentSpec) *SimulationInputBuilder {
	b.agents = specs
	return b
}

// WithMaxDepth sets the recursion depth budget. The budget must stay
// within [1, [MaxDepthLimit]].
func (b *SimulationInputBuilder) WithMaxDepth(maxDepth int) *SimulationInputBuilder {
	switch {
	case maxDepth < 1:
		b.setErr(fmt.Errorf("Max depth must be at least 1, got %d", maxDepth))
	case maxDepth > MaxDepthLimit:
		b.setErr(fmt.Errorf("Max depth cannot exceed %d for safety, got %d", MaxDepthLimit, maxDepth))
	default:
		b.maxDepth = maxDepth
	}
	return b
}

// WithMinDepth sets the minimum expected depth.
func (b *SimulationInputBuilder) WithMinDepth(minDepth int) *SimulationInputBuilder {
	b.minDepth = minDepth
	return b
}

// WithTemperature sets the sampling temperature in [0, 2].
func (b *SimulationInputBuilder) WithTemperature(temperature float64) *SimulationInputBuilder {
	if temperature < 0 || temperature > 2 {
		b.setErr(fmt.Errorf("Temperature must be between 0.0 and 2.0, got %v", temperature))
		return b
	}
	b.temperature = &temperature
	return b
}

// WithModel sets the model spec string, e.g. "anthropic:claude-3-5-haiku-20241022".
func (b *SimulationInputBuilder) WithModel(model string) *SimulationInputBuilder {
	b.model = model
	return b
}

// WithExecutionStrategy selects DIRECT or A2A dispatch.
func (b *SimulationInputBuilder) WithExecutionStrategy(strategy ExecutionStrategy) *SimulationInputBuilder {
	b.strategy = strategy
	return b
}

// WithTeamStrategy selects the team formation strategy.
func (b *SimulationInputBuilder) WithTeamStrategy(strategy TeamStrategy) *SimulationInputBuilder {
	b.teamStrategy = strategy
	return b
}

// WithContextID pins the context id instead of generating one.
func (b *SimulationInputBuilder) WithContextID(contextID string) *SimulationInputBuilder {
	b.contextID = contextID
	return b
}

// WithParentContextID links the input to a parent context.
func (b *SimulationInputBuilder) WithParentContextID(parentContextID string) *SimulationInputBuilder {
	b.parentContext = parentContextID
	return b
}

// Validate reports the cross-field validation problems of the builder's
// current state. An empty slice means the input would build cleanly.
func (b *SimulationInputBuilder) Validate() []string {
	var problems []string
	if b.query == "" {
		problems = append(problems, "Query is required")
	}
	if b.maxDepth < 1 {
		problems = append(problems, "Max depth must be at least 1")
	}
	for i, spec := range b.agents {
		if spec.Count <= 0 {
			problems = append(problems, fmt.Sprintf("Agent %d count must be positive", i))
		}
	}
	return problems
}

// Build assembles the input. It returns the first setter error if one
// was recorded, or a combined validation error, otherwise the input with
// defaults applied: a generated context id, one MAY-policy agent slot
// and the default model spec when a model or temperature was given.
func (b *SimulationInputBuilder) Build() (*SimulationInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	if problems := b.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("Validation failed: %s", strings.Join(problems, "; "))
	}

	contextID := b.contextID
	if contextID == "" {
		contextID = NewContextID()
	}

	agents := b.agents
	if len(agents) == 0 {
		agents = []*AgentSpec{{Count: 1, Recursion: RecursionMay}}
	}

	contextParts := make([]string, 0, 2)
	if b.context != "" {
		contextParts = append(contextParts, b.context)
	}
	if len(b.structuredData) > 0 {
		data, err := sonic.ConfigFastest.MarshalToString(b.structuredData)
		if err != nil {
			return nil, fmt.Errorf("encode structured data: %w", err)
		}
		contextParts = append(contextParts, "Structured Data: "+data)
	}

	var modelSpec *ModelSpec
	if b.model != "" || b.temperature != nil {
		modelSpec = &ModelSpec{Model: b.model, Temperature: DefaultTemperature}
		if modelSpec.Model == "" {
			modelSpec.Model = DefaultModel
		}
		if b.temperature != nil {
			modelSpec.Temperature = *b.temperature
		}
	}

	return &SimulationInput{
		ContextID:         contextID,
		ParentContextID:   b.parentContext,
		Query:             b.query,
		Context:           strings.Join(contextParts, "\n\n"),
		Agents:            agents,
		MaxDepth:          b.maxDepth,
		MinDepth:          b.minDepth,
		ExecutionStrategy: b.strategy,
		TeamStrategy:      b.teamStrategy,
		ModelSpec:         modelSpec,
	}, nil
}

// ParseAgentSpecs parses a comma-separated list of agent specifications.
// Each entry has the form "name", "name:count" or "name:count:policy";
// blank entries are skipped.
func ParseAgentSpecs(agents string) ([]*AgentSpec, error) {
	var specs []*AgentSpec
	for entry := range strings.SplitSeq(agents, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		spec, err := parseAgentSpec(entry)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseAgentSpec(entry string) (*AgentSpec, error) {
	parts := strings.Split(entry, ":")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	spec := &AgentSpec{Count: 1, Recursion: RecursionMay}
	if parts[0] != "" {
		spec.Agent = &AgentRef{Name: parts[0]}
	}

	switch len(parts) {
	case 1:
		return spec, nil
	case 2, 3:
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("Invalid agent count in '%s': '%s' is not a number", entry, parts[1])
		}
		if count < 1 {
			return nil, fmt.Errorf("Agent count must be at least 1, got %d", count)
		}
		spec.Count = count
		if len(parts) == 3 {
			policy, err := ParseRecursionPolicy(parts[2])
			if err != nil {
				return nil, fmt.Errorf("Invalid agent specification '%s': %w", entry, err)
			}
			spec.Recursion = policy
		}
		return spec, nil
	default:
		return nil, fmt.Errorf("Invalid agent specification format '%s'. Expected format: 'name', 'name:count', or 'name:count:policy'", entry)
	}
}

// ParseRecursionPolicy parses a recursion policy name. "no" is accepted
// as an alias of must_not.
func ParseRecursionPolicy(policy string) (RecursionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "may":
		return RecursionMay, nil
	case "must":
		return RecursionMust, nil
	case "must_not", "no":
		return RecursionMustNot, nil
	default:
		return "", fmt.Errorf("Invalid recursion policy '%s'. Valid options: may, must, must_not, no", policy)
	}
}

// ParseExecutionStrategy parses an execution strategy name.
func ParseExecutionStrategy(strategy string) (ExecutionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "direct":
		return ExecutionDirect, nil
	case "a2a":
		return ExecutionA2A, nil
	default:
		return "", fmt.Errorf("Invalid execution strategy '%s'. Valid options: direct, a2a", strategy)
	}
}

// ParseTeamStrategy parses a team formation strategy name.
func ParseTeamStrategy(strategy string) (TeamStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "random":
		return TeamRandom, nil
	case "homogeneous":
		return TeamHomogeneous, nil
	case "tarot":
		return TeamTarot, nil
	default:
		return "", fmt.Errorf("Invalid team strategy '%s'. Valid options: random, homogeneous, tarot", strategy)
	}
}
