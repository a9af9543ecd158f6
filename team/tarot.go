// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package team

import (
	"context"
	"log/slog"

	"github.com/go-a2a/mantis/executor"
	"github.com/go-a2a/mantis/tool/tools"
	"github.com/go-a2a/mantis/types"
)

// Tarot metadata keys attached to members and their responses.
const (
	// MetadataCardName names the Major Arcana card backing a member.
	MetadataCardName = "card_name"

	// MetadataInverted records the card's orientation.
	MetadataInverted = "inverted"
)

// Tarot derives the team from a card spread: one card is drawn per slot
// and matched against registry agents by display name. Cards without a
// matching agent are skipped.
type Tarot struct {
	core
	diviner *tools.Diviner
}

var _ Team = (*Tarot)(nil)

// NewTarot creates a tarot-formation team drawing from diviner. A nil
// diviner gets a time-seeded one.
func NewTarot(source executor.AgentSource, exec types.Executor, diviner *tools.Diviner, opts ...Option) *Tarot {
	if diviner == nil {
		diviner = tools.NewDiviner(nil)
	}
	t := &Tarot{diviner: diviner}
	newCore(&t.core, source, exec, opts...)
	return t
}

// Strategy implements [Team].
func (t *Tarot) Strategy() types.TeamStrategy {
	return types.TeamTarot
}

// SelectTeamMembers implements [Team]. The drawn card and its orientation
// are preserved in the member metadata for narrative synthesis.
func (t *Tarot) SelectTeamMembers(ctx context.Context, _ *types.SimulationInput, teamSize int) ([]*Member, error) {
	if teamSize <= 0 {
		teamSize = types.DefaultTeamSize
	}
	cards, err := t.listAgents(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*types.AgentCard, len(cards))
	for _, card := range cards {
		byName[card.Name] = card
	}

	drawn := t.diviner.DrawCardsWithOrientation(teamSize)
	members := make([]*Member, 0, len(drawn))
	for _, dc := range drawn {
		card, ok := byName[dc.Card.Name]
		if !ok {
			t.logger.DebugContext(ctx, "No registry agent for drawn card",
				slog.String("card", dc.Card.Name),
			)
			continue
		}
		members = append(members, &Member{
			Agent: types.NewAgentInterface(card),
			Metadata: map[string]any{
				MetadataCardName: dc.Card.Name,
				MetadataInverted: dc.Inverted,
			},
		})
	}
	return members, nil
}
