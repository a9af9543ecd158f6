// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"fmt"

	"github.com/go-a2a/mantis/types"
)

// AgentSource is the registry surface the executors resolve agents
// through. *registry.Client satisfies it.
type AgentSource interface {
	// ListAgents returns every registered agent card.
	ListAgents(ctx context.Context) ([]*types.AgentCard, error)

	// GetAgentByName returns the card whose name or id matches name.
	GetAgentByName(ctx context.Context, name string) (*types.AgentCard, error)

	// Coordinator returns the card flagged as coordinator, or nil when no
	// agent carries the flag.
	Coordinator(ctx context.Context) (*types.AgentCard, error)
}

// GenericAgentCard returns the minimal fallback card used when a slot is
// unpinned, no default agent is configured and no coordinator is
// reachable.
func GenericAgentCard() *types.AgentCard {
	return &types.AgentCard{
		Name:        "Generic Agent",
		Description: "A general-purpose agent for task execution",
		Version:     "1.0.0",
	}
}

// resolveAgent resolves the agent backing one slot. An explicit agent
// reference is looked up in the registry and must exist; an unpinned slot
// falls back to the configured default agent, then the registry
// coordinator, then [GenericAgentCard].
func resolveAgent(ctx context.Context, source AgentSource, defaultAgent *types.AgentInterface, spec *types.AgentSpec) (*types.AgentInterface, error) {
	if spec != nil && spec.Agent != nil && spec.Agent.Name != "" {
		if source == nil {
			return nil, fmt.Errorf("agent %q requested but no registry configured", spec.Agent.Name)
		}
		card, err := source.GetAgentByName(ctx, spec.Agent.Name)
		if err != nil {
			return nil, err
		}
		return types.NewAgentInterface(card), nil
	}

	if defaultAgent != nil {
		return defaultAgent, nil
	}

	if source != nil {
		// An unreachable registry is not fatal for an unpinned slot; the
		// generic card keeps the simulation running.
		if card, err := source.Coordinator(ctx); err == nil && card != nil {
			return types.NewAgentInterface(card), nil
		}
	}
	return types.NewAgentInterface(GenericAgentCard()), nil
}

// availableAgentNames lists registry agent names for delegation guidance.
// Best effort: an unreachable registry yields nil.
func availableAgentNames(ctx context.Context, source AgentSource) []string {
	if source == nil {
		return nil
	}
	cards, err := source.ListAgents(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(cards))
	for _, card := range cards {
		names = append(names, card.Name)
	}
	return names
}
