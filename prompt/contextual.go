// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-a2a/mantis/internal/xmaps"
	"github.com/go-a2a/mantis/types"
)

// ContextualPrompt assembles a ready-to-send prompt from template
// sections: prefixes, an agent persona block, the core content, a task
// context block and suffixes. Construct instances directly, through
// [NewBuilder] or through the NewSimulationPrompt factories.
type ContextualPrompt struct {
	// AgentName identifies the target agent.
	AgentName string

	// ContextContent overrides template assembly entirely when set.
	ContextContent string

	// Priority orders prompts within a group.
	Priority int

	// Prefixes open the prompt, in order.
	Prefixes []string

	// CoreContent is the main prompt body.
	CoreContent string

	// Suffixes close the prompt, in order.
	Suffixes []string

	// Agent supplies the persona block. Preferred over Card.
	Agent *types.AgentInterface

	// Card supplies the persona block when no Agent is set.
	Card *types.AgentCard

	// TaskContext carries task metadata rendered under the task context
	// header. Nil values are skipped; keys render in sorted order.
	TaskContext map[string]any
}

// Assemble joins the non-empty prompt sections with blank lines:
// prefixes, persona block, core content, task context, suffixes.
func (p *ContextualPrompt) Assemble() string {
	parts := make([]string, 0, len(p.Prefixes)+len(p.Suffixes)+3)
	parts = append(parts, p.Prefixes...)

	if p.Agent != nil {
		parts = append(parts, PersonaContext(p.Agent, false))
	} else if p.Card != nil {
		parts = append(parts, cardContext(p.Card))
	}

	parts = append(parts, p.CoreContent, p.formatTaskContext())
	parts = append(parts, p.Suffixes...)

	return joinNonEmpty(parts)
}

// MessageTemplate creates a ready-to-use user message from the prompt.
// ContextContent wins over template assembly when set.
func (p *ContextualPrompt) MessageTemplate(contextID, taskID string) *types.Message {
	text := p.ContextContent
	if text == "" {
		text = p.Assemble()
	}

	msg := types.NewMessage(types.NewMessageID("ctx-"), types.RoleUser, text)
	msg.ContextID = contextID
	msg.TaskID = taskID
	return msg
}

func (p *ContextualPrompt) formatTaskContext() string {
	if len(p.TaskContext) == 0 {
		return ""
	}

	parts := []string{"## Task Context"}
	for _, key := range xmaps.SortedKeys(p.TaskContext) {
		value := p.TaskContext[key]
		if value == nil || value == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", titleKey(key), value))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "\n")
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n\n")
}

// titleKey renders a snake_case key as a label: "context_id" becomes
// "Context Id".
func titleKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

// PersonaContext renders the rich persona block for an agent: the full
// persona text (or a name/description fallback) followed by communication
// style, decision framework, core principles and characteristic phrase
// sections where the card declares them. includeTeamInfo appends a team
// context placeholder for prompts that splice coordination details in
// later.
func PersonaContext(a *types.AgentInterface, includeTeamInfo bool) string {
	if a == nil {
		return ""
	}

	var parts []string
	if content := a.PersonaContent(); content != "" {
		parts = append(parts, content)
	} else {
		parts = append(parts, fmt.Sprintf("You are %s.", a.Name()))
		if desc := a.Description(); desc != "" {
			parts = append(parts, desc)
		}
	}

	if style := a.CommunicationStyle(); style != "" {
		parts = append(parts, "\n## Communication Style\n"+style)
	}
	if framework := a.DecisionFramework(); framework != "" {
		parts = append(parts, "\n## Decision Framework\n"+framework)
	}
	if principles := a.CorePrinciples(); len(principles) > 0 {
		lines := make([]string, len(principles))
		for i, principle := range principles {
			lines[i] = "- " + principle
		}
		parts = append(parts, "\n## Core Principles\n"+strings.Join(lines, "\n"))
	}
	if phrases := a.CharacteristicPhrases(); len(phrases) > 0 {
		parts = append(parts, "\n## Characteristic Expressions\nTypical phrases: "+strings.Join(firstN(phrases, 3), ", "))
	}

	if includeTeamInfo {
		parts = append(parts, "\n"+TeamContextHeader+"\n[Team coordination context will be inserted here]")
	}

	return strings.Join(parts, "\n")
}

// CapabilitiesContext renders the agent's abilities block: signature
// abilities, expertise domains and preferred methodologies, capped at
// three entries each for the list sections.
func CapabilitiesContext(a *types.AgentInterface) string {
	if a == nil {
		return ""
	}

	var parts []string
	if abilities := a.SignatureAbilities(); len(abilities) > 0 {
		lines := make([]string, len(abilities))
		for i, ability := range abilities {
			lines[i] = "- " + ability
		}
		parts = append(parts, "## Your Signature Abilities\n"+strings.Join(lines, "\n"))
	}
	if domains := a.PrimaryDomains(); len(domains) > 0 {
		parts = append(parts, "\n## Your Expertise Domains\n"+strings.Join(firstN(domains, 3), ", "))
	}
	if methods := a.Methodologies(); len(methods) > 0 {
		parts = append(parts, "\n## Your Preferred Methodologies\n"+strings.Join(firstN(methods, 3), ", "))
	}

	return strings.Join(parts, "\n")
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// cardContext renders the compact persona block used when only a raw
// agent card is available.
func cardContext(card *types.AgentCard) string {
	if card == nil {
		return ""
	}

	var parts []string
	if card.Name != "" {
		parts = append(parts, "Agent: "+card.Name)
	}
	if card.Description != "" {
		parts = append(parts, "Role: "+card.Description)
	}

	if persona := card.PersonaCharacteristics(); persona != nil {
		if len(persona.CorePrinciples) > 0 {
			parts = append(parts, "Core Principles: "+strings.Join(persona.CorePrinciples, ", "))
		}
		if persona.DecisionFramework != "" {
			parts = append(parts, "Decision Framework: "+persona.DecisionFramework)
		}
		if persona.CommunicationStyle != "" {
			parts = append(parts, "Communication Style: "+persona.CommunicationStyle)
		}
	}
	if expertise := card.DomainExpertise(); expertise != nil {
		if len(expertise.PrimaryDomains) > 0 {
			parts = append(parts, "Primary Domains: "+strings.Join(expertise.PrimaryDomains, ", "))
		}
		if len(expertise.Methodologies) > 0 {
			parts = append(parts, "Methodologies: "+strings.Join(expertise.Methodologies, ", "))
		}
	}
	if skills := card.SkillsSummary(); skills != nil {
		if skills.SkillOverview != "" {
			parts = append(parts, "Skills: "+skills.SkillOverview)
		}
		if len(skills.SignatureAbilities) > 0 {
			parts = append(parts, "Signature Abilities: "+strings.Join(skills.SignatureAbilities, ", "))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return AgentContextHeader + "\n" + strings.Join(parts, "\n")
}

// Builder assembles a [ContextualPrompt] fluently.
type Builder struct {
	prompt ContextualPrompt
}

// NewBuilder returns an empty prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetAgentName sets the target agent name.
func (b *Builder) SetAgentName(name string) *Builder {
	b.prompt.AgentName = name
	return b
}

// SetContextContent sets content that bypasses template assembly.
func (b *Builder) SetContextContent(content string) *Builder {
	b.prompt.ContextContent = content
	return b
}

// SetPriority sets the ordering priority.
func (b *Builder) SetPriority(priority int) *Builder {
	b.prompt.Priority = priority
	return b
}

// AddPrefix appends a prefix section.
func (b *Builder) AddPrefix(prefix string) *Builder {
	b.prompt.Prefixes = append(b.prompt.Prefixes, prefix)
	return b
}

// SetCoreContent sets the main prompt body.
func (b *Builder) SetCoreContent(content string) *Builder {
	b.prompt.CoreContent = content
	return b
}

// AddSuffix appends a suffix section.
func (b *Builder) AddSuffix(suffix string) *Builder {
	b.prompt.Suffixes = append(b.prompt.Suffixes, suffix)
	return b
}

// WithCard attaches a raw agent card for the persona block, adopting its
// name when none is set.
func (b *Builder) WithCard(card *types.AgentCard) *Builder {
	b.prompt.Card = card
	if b.prompt.AgentName == "" && card != nil {
		b.prompt.AgentName = card.Name
	}
	return b
}

// WithAgent attaches an agent interface for the persona block, adopting
// its name when none is set. Preferred over [Builder.WithCard].
func (b *Builder) WithAgent(agent *types.AgentInterface) *Builder {
	b.prompt.Agent = agent
	if b.prompt.AgentName == "" && agent != nil {
		b.prompt.AgentName = agent.Name()
	}
	return b
}

// WithTaskContext merges task metadata into the task context block.
func (b *Builder) WithTaskContext(ctx map[string]any) *Builder {
	if b.prompt.TaskContext == nil {
		b.prompt.TaskContext = make(map[string]any, len(ctx))
	}
	for key, value := range ctx {
		b.prompt.TaskContext[key] = value
	}
	return b
}

// Build returns the assembled prompt. The builder remains usable; the
// returned prompt owns copies of the accumulated slices.
func (b *Builder) Build() *ContextualPrompt {
	prompt := b.prompt
	prompt.Prefixes = slices.Clone(b.prompt.Prefixes)
	prompt.Suffixes = slices.Clone(b.prompt.Suffixes)
	prompt.TaskContext = maps.Clone(b.prompt.TaskContext)
	return &prompt
}

// NewSimulationPrompt creates the standard simulation prompt around a raw
// agent card.
func NewSimulationPrompt(query string, card *types.AgentCard, contextID, taskID string) *ContextualPrompt {
	agentName := ""
	if card != nil {
		agentName = card.Name
	}
	return &ContextualPrompt{
		AgentName:   agentName,
		Prefixes:    []string{SimulationBasePrefix},
		CoreContent: "## Query\n" + query,
		Suffixes:    []string{SimulationBaseSuffix},
		Card:        card,
		TaskContext: taskContextIDs(contextID, taskID),
	}
}

// NewSimulationPromptWithAgent creates the simulation prompt around a
// resolved agent interface, with coordination constraints and persona
// adherence appended. Preferred over [NewSimulationPrompt].
func NewSimulationPromptWithAgent(query string, agent *types.AgentInterface, contextID, taskID string) *ContextualPrompt {
	agentName := ""
	if agent != nil {
		agentName = agent.Name()
	}
	return &ContextualPrompt{
		AgentName:   agentName,
		Prefixes:    []string{SimulationBasePrefix},
		CoreContent: CurrentTaskHeader + "\n" + query,
		Suffixes: []string{
			AgentCoordinationConstraints,
			SimulationBaseSuffix,
			PersonaAdherenceSuffix,
		},
		Agent:       agent,
		TaskContext: taskContextIDs(contextID, taskID),
	}
}

// taskContextIDs builds the task context block shared by the simulation
// prompt factories. Unset ids render as absent.
func taskContextIDs(contextID, taskID string) map[string]any {
	return map[string]any{
		"context_id": contextID,
		"task_id":    taskID,
	}
}
