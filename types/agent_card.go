// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/bytedance/sonic"
)

// Persona extension URIs. Agent cards carry their persona data as A2A
// capability extensions keyed by these URIs.
const (
	// ExtensionPersonaCharacteristics carries [PersonaCharacteristics].
	ExtensionPersonaCharacteristics = "https://mantis.ai/extensions/persona-characteristics/v1"

	// ExtensionCompetencyScores carries [CompetencyScores].
	ExtensionCompetencyScores = "https://mantis.ai/extensions/competency-scores/v1"

	// ExtensionDomainExpertise carries [DomainExpertise].
	ExtensionDomainExpertise = "https://mantis.ai/extensions/domain-expertise/v1"

	// ExtensionSkillsSummary carries [SkillsSummary].
	ExtensionSkillsSummary = "https://mantis.ai/extensions/skills-summary/v1"
)

// AgentProvider identifies the organization serving an agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitzero"`
}

// AgentExtension is a capability extension attached to an [AgentCard].
// Persona data travels in Params under the mantis extension URIs.
type AgentExtension struct {
	URI         string         `json:"uri"`
	Description string         `json:"description,omitzero"`
	Required    bool           `json:"required,omitzero"`
	Params      map[string]any `json:"params,omitzero"`
}

// AgentCapabilities declares what an agent supports.
type AgentCapabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications,omitzero"`

	// Coordinator marks the agent as the registry's coordination fallback:
	// simulations without a pinned agent are routed to a coordinator card.
	Coordinator bool `json:"coordinator,omitzero"`

	Extensions []*AgentExtension `json:"extensions,omitzero"`
}

// AgentSkill describes one advertised skill of an agent.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitzero"`
	Tags        []string `json:"tags,omitzero"`
	Examples    []string `json:"examples,omitzero"`
}

// AgentCard is the A2A descriptor of an agent: identity, endpoint,
// capabilities and skills, plus the mantis persona extensions.
type AgentCard struct {
	// ID is the registry-assigned agent id. Optional; Name stands in when
	// absent.
	ID string `json:"id,omitzero"`

	Name        string `json:"name"`
	Description string `json:"description,omitzero"`

	// URL is the agent's A2A endpoint.
	URL string `json:"url,omitzero"`

	Version         string `json:"version,omitzero"`
	ProtocolVersion string `json:"protocolVersion,omitzero"`

	Provider     *AgentProvider    `json:"provider,omitzero"`
	Capabilities AgentCapabilities `json:"capabilities,omitzero"`
	Skills       []AgentSkill      `json:"skills,omitzero"`

	DefaultInputModes  []string `json:"defaultInputModes,omitzero"`
	DefaultOutputModes []string `json:"defaultOutputModes,omitzero"`
}

// PersonaCharacteristics captures how an agent thinks and communicates.
type PersonaCharacteristics struct {
	// OriginalContent is the full source persona text; when present it is
	// used verbatim as the persona prompt.
	OriginalContent string `json:"original_content,omitzero"`

	CorePrinciples        []string `json:"core_principles,omitzero"`
	DecisionFramework     string   `json:"decision_framework,omitzero"`
	CommunicationStyle    string   `json:"communication_style,omitzero"`
	ThinkingPatterns      []string `json:"thinking_patterns,omitzero"`
	CharacteristicPhrases []string `json:"characteristic_phrases,omitzero"`
	BehavioralTendencies  []string `json:"behavioral_tendencies,omitzero"`
}

// RoleAdaptation scores an agent's fit for each simulation role.
// Scores are in [0, 1].
type RoleAdaptation struct {
	LeaderScore   float64        `json:"leader_score,omitzero"`
	FollowerScore float64        `json:"follower_score,omitzero"`
	NarratorScore float64        `json:"narrator_score,omitzero"`
	PreferredRole RolePreference `json:"preferred_role,omitzero"`
}

// CompetencyScores carries per-competency scores and role adaptation data.
type CompetencyScores struct {
	CompetencyScores map[string]float64 `json:"competency_scores,omitzero"`
	RoleAdaptation   *RoleAdaptation    `json:"role_adaptation,omitzero"`
}

// DomainExpertise lists an agent's expertise areas.
type DomainExpertise struct {
	PrimaryDomains   []string `json:"primary_domains,omitzero"`
	SecondaryDomains []string `json:"secondary_domains,omitzero"`
	Methodologies    []string `json:"methodologies,omitzero"`
	ToolsFrameworks  []string `json:"tools_frameworks,omitzero"`
}

// SkillsSummary condenses an agent's skills for prompt assembly.
type SkillsSummary struct {
	SkillOverview      string   `json:"skill_overview,omitzero"`
	PrimarySkillTags   []string `json:"primary_skill_tags,omitzero"`
	SignatureAbilities []string `json:"signature_abilities,omitzero"`
}

// extensionParams returns the params of the extension registered under uri.
func (c *AgentCard) extensionParams(uri string) (map[string]any, bool) {
	for _, ext := range c.Capabilities.Extensions {
		if ext.URI == uri {
			return ext.Params, true
		}
	}
	return nil, false
}

// setExtension replaces or appends the extension registered under uri.
func (c *AgentCard) setExtension(uri, description string, params map[string]any) {
	for _, ext := range c.Capabilities.Extensions {
		if ext.URI == uri {
			ext.Description = description
			ext.Params = params
			return
		}
	}
	c.Capabilities.Extensions = append(c.Capabilities.Extensions, &AgentExtension{
		URI:         uri,
		Description: description,
		Params:      params,
	})
}

// decodeExtension inflates the params map of the uri extension into T via a
// JSON round trip. It returns nil when the extension is absent or malformed.
func decodeExtension[T any](c *AgentCard, uri string) *T {
	if c == nil {
		return nil
	}
	params, ok := c.extensionParams(uri)
	if !ok || params == nil {
		return nil
	}

	data, err := sonic.ConfigFastest.Marshal(params)
	if err != nil {
		return nil
	}
	out := new(T)
	if err := sonic.ConfigFastest.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}

// encodeExtension deflates v into a params map via a JSON round trip.
func encodeExtension(v any) map[string]any {
	data, err := sonic.ConfigFastest.Marshal(v)
	if err != nil {
		return nil
	}
	var params map[string]any
	if err := sonic.ConfigFastest.Unmarshal(data, &params); err != nil {
		return nil
	}
	return params
}

// PersonaCharacteristics decodes the persona-characteristics extension, or
// nil when the card carries none.
func (c *AgentCard) PersonaCharacteristics() *PersonaCharacteristics {
	return decodeExtension[PersonaCharacteristics](c, ExtensionPersonaCharacteristics)
}

// CompetencyScores decodes the competency-scores extension, or nil when the
// card carries none.
func (c *AgentCard) CompetencyScores() *CompetencyScores {
	return decodeExtension[CompetencyScores](c, ExtensionCompetencyScores)
}

// DomainExpertise decodes the domain-expertise extension, or nil when the
// card carries none.
func (c *AgentCard) DomainExpertise() *DomainExpertise {
	return decodeExtension[DomainExpertise](c, ExtensionDomainExpertise)
}

// SkillsSummary decodes the skills-summary extension, or nil when the card
// carries none.
func (c *AgentCard) SkillsSummary() *SkillsSummary {
	return decodeExtension[SkillsSummary](c, ExtensionSkillsSummary)
}

// WithPersonaCharacteristics attaches persona characteristics to the card.
func (c *AgentCard) WithPersonaCharacteristics(p *PersonaCharacteristics) *AgentCard {
	c.setExtension(ExtensionPersonaCharacteristics, "Persona characteristics", encodeExtension(p))
	return c
}

// WithCompetencyScores attaches competency scores to the card.
func (c *AgentCard) WithCompetencyScores(s *CompetencyScores) *AgentCard {
	c.setExtension(ExtensionCompetencyScores, "Competency scores", encodeExtension(s))
	return c
}

// WithDomainExpertise attaches domain expertise to the card.
func (c *AgentCard) WithDomainExpertise(d *DomainExpertise) *AgentCard {
	c.setExtension(ExtensionDomainExpertise, "Domain expertise", encodeExtension(d))
	return c
}

// WithSkillsSummary attaches a skills summary to the card.
func (c *AgentCard) WithSkillsSummary(s *SkillsSummary) *AgentCard {
	c.setExtension(ExtensionSkillsSummary, "Skills summary", encodeExtension(s))
	return c
}
