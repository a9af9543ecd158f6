// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"strings"
)

// AgentInterface is a read-only facade over an [AgentCard] that gives the
// runtime flat access to the persona extension data without re-decoding it
// at every touch point.
//
// Construct one per lookup with [NewAgentInterface]; instances are never
// mutated and are safe for concurrent use.
type AgentInterface struct {
	card *AgentCard

	persona    *PersonaCharacteristics
	competency *CompetencyScores
	expertise  *DomainExpertise
	skills     *SkillsSummary
}

// NewAgentInterface creates an interface over card, decoding the persona
// extensions once.
func NewAgentInterface(card *AgentCard) *AgentInterface {
	return &AgentInterface{
		card:       card,
		persona:    card.PersonaCharacteristics(),
		competency: card.CompetencyScores(),
		expertise:  card.DomainExpertise(),
		skills:     card.SkillsSummary(),
	}
}

// Card returns the underlying agent card.
func (a *AgentInterface) Card() *AgentCard {
	return a.card
}

// AgentID returns the registry agent id, falling back to the name.
func (a *AgentInterface) AgentID() string {
	if a.card.ID != "" {
		return a.card.ID
	}
	return a.card.Name
}

// Name returns the agent name.
func (a *AgentInterface) Name() string {
	return a.card.Name
}

// Description returns the agent description.
func (a *AgentInterface) Description() string {
	return a.card.Description
}

// IsCoordinator reports whether the card carries the coordinator
// capability flag.
func (a *AgentInterface) IsCoordinator() bool {
	return a.card.Capabilities.Coordinator
}

// PersonaContent returns the full original persona text, or "".
func (a *AgentInterface) PersonaContent() string {
	if a.persona == nil {
		return ""
	}
	return a.persona.OriginalContent
}

// CommunicationStyle returns the agent's communication style, or "".
func (a *AgentInterface) CommunicationStyle() string {
	if a.persona == nil {
		return ""
	}
	return a.persona.CommunicationStyle
}

// DecisionFramework returns the agent's decision framework, or "".
func (a *AgentInterface) DecisionFramework() string {
	if a.persona == nil {
		return ""
	}
	return a.persona.DecisionFramework
}

// CorePrinciples returns the agent's core principles.
func (a *AgentInterface) CorePrinciples() []string {
	if a.persona == nil {
		return nil
	}
	return a.persona.CorePrinciples
}

// CharacteristicPhrases returns the agent's characteristic phrases.
func (a *AgentInterface) CharacteristicPhrases() []string {
	if a.persona == nil {
		return nil
	}
	return a.persona.CharacteristicPhrases
}

// PrimaryDomains returns the agent's primary expertise domains.
func (a *AgentInterface) PrimaryDomains() []string {
	if a.expertise == nil {
		return nil
	}
	return a.expertise.PrimaryDomains
}

// Methodologies returns the agent's preferred methodologies.
func (a *AgentInterface) Methodologies() []string {
	if a.expertise == nil {
		return nil
	}
	return a.expertise.Methodologies
}

// SkillOverview returns the skills-summary overview, or "".
func (a *AgentInterface) SkillOverview() string {
	if a.skills == nil {
		return ""
	}
	return a.skills.SkillOverview
}

// SignatureAbilities returns the agent's signature abilities.
func (a *AgentInterface) SignatureAbilities() []string {
	if a.skills == nil {
		return nil
	}
	return a.skills.SignatureAbilities
}

// CompetencyScore returns the score for one named competency and whether
// the card declares it.
func (a *AgentInterface) CompetencyScore(competency string) (float64, bool) {
	if a.competency == nil || a.competency.CompetencyScores == nil {
		return 0, false
	}
	score, ok := a.competency.CompetencyScores[competency]
	return score, ok
}

// LeaderScore returns the leadership capability score in [0, 1].
func (a *AgentInterface) LeaderScore() float64 {
	if a.competency == nil || a.competency.RoleAdaptation == nil {
		return 0
	}
	return a.competency.RoleAdaptation.LeaderScore
}

// FollowerScore returns the follower capability score in [0, 1].
func (a *AgentInterface) FollowerScore() float64 {
	if a.competency == nil || a.competency.RoleAdaptation == nil {
		return 0
	}
	return a.competency.RoleAdaptation.FollowerScore
}

// NarratorScore returns the narrator capability score in [0, 1].
func (a *AgentInterface) NarratorScore() float64 {
	if a.competency == nil || a.competency.RoleAdaptation == nil {
		return 0
	}
	return a.competency.RoleAdaptation.NarratorScore
}

// PreferredRole returns the card's declared role preference.
func (a *AgentInterface) PreferredRole() RolePreference {
	if a.competency == nil || a.competency.RoleAdaptation == nil {
		return RolePreferenceUnspecified
	}
	return a.competency.RoleAdaptation.PreferredRole
}

// CapabilitiesSummary returns a one-line capability summary: the skill
// overview when present, the leading primary domains otherwise, the card
// description as a last resort.
func (a *AgentInterface) CapabilitiesSummary() string {
	if overview := a.SkillOverview(); overview != "" {
		return overview
	}
	if domains := a.PrimaryDomains(); len(domains) > 0 {
		limit := min(len(domains), 3)
		return "Expert in: " + strings.Join(domains[:limit], ", ")
	}
	return a.card.Description
}

// String implements [fmt.Stringer].
func (a *AgentInterface) String() string {
	return fmt.Sprintf("AgentInterface(%s)", a.Name())
}
