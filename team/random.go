// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package team

import (
	"context"

	"github.com/go-a2a/mantis/executor"
	"github.com/go-a2a/mantis/types"
)

// Random samples distinct agents uniformly from the registry.
type Random struct {
	core
}

var _ Team = (*Random)(nil)

// NewRandom creates a random-formation team.
func NewRandom(source executor.AgentSource, exec types.Executor, opts ...Option) *Random {
	t := &Random{}
	newCore(&t.core, source, exec, opts...)
	return t
}

// Strategy implements [Team].
func (t *Random) Strategy() types.TeamStrategy {
	return types.TeamRandom
}

// SelectTeamMembers implements [Team]: a uniform sample without
// replacement, shrunk to the registry size when it holds fewer agents
// than requested.
func (t *Random) SelectTeamMembers(ctx context.Context, _ *types.SimulationInput, teamSize int) ([]*Member, error) {
	if teamSize <= 0 {
		teamSize = types.DefaultTeamSize
	}
	cards, err := t.listAgents(ctx)
	if err != nil {
		return nil, err
	}

	n := min(teamSize, len(cards))
	perm := t.perm(len(cards))
	members := make([]*Member, 0, n)
	for i := range n {
		members = append(members, &Member{Agent: types.NewAgentInterface(cards[perm[i]])})
	}
	return members, nil
}
