// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt_test

import (
	"strings"
	"testing"

	"github.com/go-a2a/mantis/prompt"
	"github.com/go-a2a/mantis/types"
)

// sectionOrder asserts that each needle appears in s after the previous
// one.
func sectionOrder(t *testing.T, s string, needles ...string) {
	t.Helper()

	last := -1
	for _, needle := range needles {
		at := strings.Index(s, needle)
		if at < 0 {
			t.Errorf("missing section %q in:\n%s", needle, s)
			return
		}
		if at < last {
			t.Errorf("section %q out of order in:\n%s", needle, s)
			return
		}
		last = at
	}
}

func TestSimulationPromptWithAgentAssemble(t *testing.T) {
	t.Parallel()

	p := prompt.NewSimulationPromptWithAgent("What is our next move?", fullAgent(), "ctx-1", "sim-ctx-1")
	got := p.Assemble()

	sectionOrder(t, got,
		prompt.SimulationBasePrefix,
		"You are the Chief of Staff, the strategic right hand of the organization.",
		"## Communication Style\nCrisp and direct.",
		"## Current Task\nWhat is our next move?",
		"## Task Context\nContext Id: ctx-1\nTask Id: sim-ctx-1",
		"## Agent Coordination Protocol",
		prompt.SimulationBaseSuffix,
		prompt.PersonaAdherenceSuffix,
	)

	if p.AgentName != "Chief of Staff" {
		t.Errorf("AgentName = %q, want %q", p.AgentName, "Chief of Staff")
	}
}

func TestSimulationPromptCardBlock(t *testing.T) {
	t.Parallel()

	p := prompt.NewSimulationPrompt("What is our next move?", fullCard(), "ctx-1", "")
	got := p.Assemble()

	sectionOrder(t, got,
		prompt.SimulationBasePrefix,
		"## Agent Context",
		"Agent: Chief of Staff",
		"Role: Strategic coordination and team orchestration.",
		"Core Principles: Clarity before speed, Bias to action",
		"Decision Framework: Weigh impact against effort before committing.",
		"Communication Style: Crisp and direct.",
		"Primary Domains: strategy, operations",
		"Methodologies: OKRs, scenario planning",
		"Skills: Coordination across teams and workstreams.",
		"Signature Abilities: Team formation, Synthesis",
		"## Query\nWhat is our next move?",
		"## Task Context\nContext Id: ctx-1",
		prompt.SimulationBaseSuffix,
	)

	if strings.Contains(got, "Task Id:") {
		t.Errorf("empty task id rendered in task context:\n%s", got)
	}
}

func TestAssembleSkipsEmptySections(t *testing.T) {
	t.Parallel()

	p := &prompt.ContextualPrompt{
		Prefixes:    []string{"", prompt.TeamCoordinationPrefix},
		CoreContent: "Do the work.",
	}

	got := p.Assemble()
	want := prompt.TeamCoordinationPrefix + "\n\nDo the work."
	if got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestMessageTemplate(t *testing.T) {
	t.Parallel()

	p := prompt.NewSimulationPromptWithAgent("What is our next move?", fullAgent(), "ctx-1", "sim-ctx-1")
	msg := p.MessageTemplate("ctx-1", "sim-ctx-1")

	if !strings.HasPrefix(msg.MessageID, "ctx-") {
		t.Errorf("MessageID = %q, want ctx- prefix", msg.MessageID)
	}
	if got, want := len(msg.MessageID), len("ctx-")+12; got != want {
		t.Errorf("len(MessageID) = %d, want %d", got, want)
	}
	if msg.Role != types.RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, types.RoleUser)
	}
	if msg.ContextID != "ctx-1" || msg.TaskID != "sim-ctx-1" {
		t.Errorf("ContextID/TaskID = %q/%q, want ctx-1/sim-ctx-1", msg.ContextID, msg.TaskID)
	}
	if got, want := msg.Text(), p.Assemble(); got != want {
		t.Errorf("message text does not match assembly:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestMessageTemplateContextContentWins(t *testing.T) {
	t.Parallel()

	p := &prompt.ContextualPrompt{
		ContextContent: "Verbatim instructions.",
		CoreContent:    "Ignored by the override.",
	}

	msg := p.MessageTemplate("ctx-2", "")
	if got := msg.Text(); got != "Verbatim instructions." {
		t.Errorf("message text = %q, want the context content override", got)
	}
	if msg.TaskID != "" {
		t.Errorf("TaskID = %q, want empty", msg.TaskID)
	}
}

func TestBuilderChain(t *testing.T) {
	t.Parallel()

	agent := fullAgent()
	b := prompt.NewBuilder().
		AddPrefix(prompt.TeamCoordinationPrefix).
		SetCoreContent("Evaluate the proposal.").
		AddSuffix(prompt.TeamCollaborationSuffix).
		WithAgent(agent).
		WithTaskContext(map[string]any{"context_id": "ctx-3", "team_role": "LEADER"})

	p := b.Build()
	if p.AgentName != "Chief of Staff" {
		t.Errorf("AgentName = %q, want adopted from agent", p.AgentName)
	}

	got := p.Assemble()
	sectionOrder(t, got,
		prompt.TeamCoordinationPrefix,
		"You are the Chief of Staff",
		"Evaluate the proposal.",
		"## Task Context\nContext Id: ctx-3\nTeam Role: LEADER",
		prompt.TeamCollaborationSuffix,
	)

	// The builder keeps accumulating without mutating built prompts.
	b.AddSuffix("More.")
	if len(p.Suffixes) != 1 {
		t.Errorf("built prompt suffixes = %v, want unchanged after further builder use", p.Suffixes)
	}
}

func TestPersonaContext(t *testing.T) {
	t.Parallel()

	agent := fullAgent()
	got := prompt.PersonaContext(agent, false)

	sectionOrder(t, got,
		"You are the Chief of Staff, the strategic right hand of the organization.",
		"## Communication Style\nCrisp and direct.",
		"## Decision Framework\nWeigh impact against effort before committing.",
		"## Core Principles\n- Clarity before speed\n- Bias to action",
		"## Characteristic Expressions\nTypical phrases: Let's align on outcomes, What does success look like?, Next steps are",
	)
	if strings.Contains(got, "Circling back") {
		t.Errorf("characteristic phrases not capped at three:\n%s", got)
	}
	if strings.Contains(got, "## Team Context") {
		t.Errorf("team placeholder rendered without includeTeamInfo:\n%s", got)
	}

	withTeam := prompt.PersonaContext(agent, true)
	if !strings.Contains(withTeam, "## Team Context\n[Team coordination context will be inserted here]") {
		t.Errorf("missing team placeholder:\n%s", withTeam)
	}
}

func TestPersonaContextFallback(t *testing.T) {
	t.Parallel()

	card := &types.AgentCard{Name: "Generic Agent", Description: "A general-purpose agent for task execution"}
	got := prompt.PersonaContext(types.NewAgentInterface(card), false)

	want := "You are Generic Agent.\nA general-purpose agent for task execution"
	if got != want {
		t.Errorf("PersonaContext() = %q, want %q", got, want)
	}
}

func TestCapabilitiesContext(t *testing.T) {
	t.Parallel()

	card := fullCard()
	card.WithDomainExpertise(&types.DomainExpertise{
		PrimaryDomains: []string{"strategy", "operations", "finance", "marketing"},
		Methodologies:  []string{"OKRs"},
	})
	got := prompt.CapabilitiesContext(types.NewAgentInterface(card))

	sectionOrder(t, got,
		"## Your Signature Abilities\n- Team formation\n- Synthesis",
		"## Your Expertise Domains\nstrategy, operations, finance",
		"## Your Preferred Methodologies\nOKRs",
	)
	if strings.Contains(got, "marketing") {
		t.Errorf("expertise domains not capped at three:\n%s", got)
	}
}
