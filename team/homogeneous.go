// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package team

import (
	"context"

	"github.com/go-a2a/mantis/executor"
	"github.com/go-a2a/mantis/types"
)

// Homogeneous replicates one randomly chosen agent across the whole team,
// so every member brings the same persona to the query.
type Homogeneous struct {
	core
}

var _ Team = (*Homogeneous)(nil)

// NewHomogeneous creates a homogeneous-formation team.
func NewHomogeneous(source executor.AgentSource, exec types.Executor, opts ...Option) *Homogeneous {
	t := &Homogeneous{}
	newCore(&t.core, source, exec, opts...)
	return t
}

// Strategy implements [Team].
func (t *Homogeneous) Strategy() types.TeamStrategy {
	return types.TeamHomogeneous
}

// SelectTeamMembers implements [Team].
func (t *Homogeneous) SelectTeamMembers(ctx context.Context, _ *types.SimulationInput, teamSize int) ([]*Member, error) {
	if teamSize <= 0 {
		teamSize = types.DefaultTeamSize
	}
	cards, err := t.listAgents(ctx)
	if err != nil {
		return nil, err
	}

	agent := types.NewAgentInterface(cards[t.intn(len(cards))])
	members := make([]*Member, teamSize)
	for i := range members {
		members[i] = &Member{Agent: agent}
	}
	return members, nil
}
