// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package narrator

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/mantis/team"
	"github.com/go-a2a/mantis/tool/tools"
	"github.com/go-a2a/mantis/types"
)

// MasterTarotReaderCard returns the persona card of the tarot narrator.
func MasterTarotReaderCard() *types.AgentCard {
	return &types.AgentCard{
		Name:        "Master Tarot Reader",
		Description: "Conducts tarot readings and reveals the story the cards tell together",
		Version:     "1.0.0",
	}
}

// tarotSynthesisTemplate is the Master Tarot Reader's final
// interpretation prompt.
var tarotSynthesisTemplate = heredoc.Doc(`
	You are the Master Tarot Reader conducting this reading.

	Cards drawn: %s

	The individual cards have spoken. Here are their complete responses:

	%s

	---

	As the Master Tarot Reader, provide your final interpretation that:
	- Weaves together the messages from all three cards
	- Shows how they form a coherent narrative about the situation
	- Identifies patterns, tensions, and connections between the cards
	- Offers synthesis and deeper insight that emerges from their combination
	- Provides strategic guidance based on the complete reading

	Draw upon your mastery of tarot to reveal the deeper story these cards tell together.
`)

// Tarot narrates a tarot-formed team: each member response renders as
// its card position, and the Master Tarot Reader interprets the spread.
type Tarot struct {
	*Synthesizer
}

var _ Narrator = (*Tarot)(nil)

// NewTarot creates the tarot narrator dispatching through exec. The
// persona defaults to [MasterTarotReaderCard].
func NewTarot(exec types.Executor, opts ...Option) *Tarot {
	s := NewSynthesizer(exec, opts...)
	if s.agent.Name() == NarratorCard().Name {
		s.agent = types.NewAgentInterface(MasterTarotReaderCard())
	}
	s.compose = composeTarotPrompt
	return &Tarot{Synthesizer: s}
}

// composeTarotPrompt renders the member responses as spread positions
// and frames them with the Master Tarot Reader template.
func composeTarotPrompt(_ *types.SimulationInput, result *types.TeamExecutionResult) string {
	names := make([]string, 0, len(result.MemberResponses))
	sections := make([]string, 0, len(result.MemberResponses))
	for i, member := range result.MemberResponses {
		name := cardDisplayName(member)
		names = append(names, name)
		sections = append(sections, fmt.Sprintf("### %s: %s\n\n%s",
			tools.SpreadPosition(i), name, member.Text()))
	}
	return fmt.Sprintf(tarotSynthesisTemplate, strings.Join(names, ", "), strings.Join(sections, "\n\n"))
}

// cardDisplayName names a member by its drawn card, marking inverted
// orientation; members without card metadata fall back to the agent name.
func cardDisplayName(member *types.AgentResponse) string {
	name, _ := member.Metadata[team.MetadataCardName].(string)
	if name == "" {
		name = member.AgentName
	}
	if inverted, _ := member.Metadata[team.MetadataInverted].(bool); inverted {
		name += " (Inverted)"
	}
	return name
}
