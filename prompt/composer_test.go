// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/mantis/prompt"
	"github.com/go-a2a/mantis/types"
)

// fullCard builds an agent card carrying every persona extension.
func fullCard() *types.AgentCard {
	card := &types.AgentCard{
		Name:        "Chief of Staff",
		Description: "Strategic coordination and team orchestration.",
	}
	card.WithPersonaCharacteristics(&types.PersonaCharacteristics{
		OriginalContent:       "You are the Chief of Staff, the strategic right hand of the organization.",
		CorePrinciples:        []string{"Clarity before speed", "Bias to action"},
		DecisionFramework:     "Weigh impact against effort before committing.",
		CommunicationStyle:    "Crisp and direct.",
		CharacteristicPhrases: []string{"Let's align on outcomes", "What does success look like?", "Next steps are", "Circling back"},
	})
	card.WithDomainExpertise(&types.DomainExpertise{
		PrimaryDomains: []string{"strategy", "operations"},
		Methodologies:  []string{"OKRs", "scenario planning"},
	})
	card.WithSkillsSummary(&types.SkillsSummary{
		SkillOverview:      "Coordination across teams and workstreams.",
		SignatureAbilities: []string{"Team formation", "Synthesis"},
	})
	return card
}

func fullAgent() *types.AgentInterface {
	return types.NewAgentInterface(fullCard())
}

func simInput(query string) *types.SimulationInput {
	return &types.SimulationInput{
		ContextID: "ctx-1",
		Query:     query,
		MaxDepth:  3,
	}
}

func TestComposeLeaderFullCard(t *testing.T) {
	t.Parallel()

	composer := prompt.NewComposer()
	c := prompt.NewContext(fullAgent(), simInput("Plan the product launch."), &types.ContextualExecution{
		CurrentDepth: 0,
		MaxDepth:     3,
		TeamSize:     1,
		AssignedRole: types.RoleLeader,
	})

	got := composer.Compose(t.Context(), c)

	wantModules := []string{"persona", "role", "leader", "context", "capability"}
	if diff := cmp.Diff(wantModules, got.ModulesUsed); diff != "" {
		t.Errorf("ModulesUsed mismatch (-want +got):\n%s", diff)
	}
	if got.Strategy != prompt.StrategyBlended {
		t.Errorf("Strategy = %q, want %q", got.Strategy, prompt.StrategyBlended)
	}

	if !strings.HasPrefix(got.FinalPrompt, "You are the Chief of Staff, the strategic right hand of the organization.") {
		t.Errorf("FinalPrompt does not open with the persona content:\n%s", got.FinalPrompt)
	}
	for _, want := range []string{
		"## Leadership Role",
		"## Strategic Leadership",
		"- Task: Plan the product launch.",
		"- Maximum delegation depth: 3",
		"- Team building available: yes",
		"**Situation:** You are operating at depth 0 of 3 in a hierarchical simulation.",
		"**Team:** Working solo \n**Constraints:** None",
		"## Your Capabilities & Expertise",
		"**Primary Domains:** strategy, operations",
		"**Key Methodologies:** OKRs, scenario planning",
	} {
		if !strings.Contains(got.FinalPrompt, want) {
			t.Errorf("FinalPrompt missing %q:\n%s", want, got.FinalPrompt)
		}
	}
}

func TestComposeLeaderGuidanceByDepth(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		currentDepth int
		maxDepth     int
		want         string
	}{
		"root leads strategically": {
			currentDepth: 0,
			maxDepth:     3,
			want:         "## Strategic Leadership",
		},
		"mid level builds teams": {
			currentDepth: 1,
			maxDepth:     4,
			want:         "## Team Building & Delegation",
		},
		"deepest delegating level builds teams": {
			currentDepth: 2,
			maxDepth:     4,
			want:         "## Team Building & Delegation",
		},
		"near max depth executes": {
			currentDepth: 2,
			maxDepth:     3,
			want:         "## Execution Leadership",
		},
		"at depth budget executes": {
			currentDepth: 3,
			maxDepth:     4,
			want:         "## Execution Leadership",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			composer := prompt.NewComposer()
			c := prompt.NewContext(fullAgent(), simInput("Coordinate the review."), &types.ContextualExecution{
				CurrentDepth: tt.currentDepth,
				MaxDepth:     tt.maxDepth,
				TeamSize:     2,
				AssignedRole: types.RoleLeader,
			})

			got := composer.Compose(t.Context(), c)
			if !strings.Contains(got.FinalPrompt, tt.want) {
				t.Errorf("FinalPrompt missing %q at depth %d/%d:\n%s", tt.want, tt.currentDepth, tt.maxDepth, got.FinalPrompt)
			}
		})
	}
}

func TestComposeFollowerSkipsLeaderGuidance(t *testing.T) {
	t.Parallel()

	composer := prompt.NewComposer()
	c := prompt.NewContext(fullAgent(), simInput("Analyze the market."), &types.ContextualExecution{
		CurrentDepth: 1,
		MaxDepth:     3,
		TeamSize:     3,
		AgentIndex:   1,
		AssignedRole: types.RoleFollower,
	})

	got := composer.Compose(t.Context(), c)

	wantModules := []string{"persona", "role", "context", "capability"}
	if diff := cmp.Diff(wantModules, got.ModulesUsed); diff != "" {
		t.Errorf("ModulesUsed mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(got.FinalPrompt, "## Team Member Role") {
		t.Errorf("FinalPrompt missing follower instructions:\n%s", got.FinalPrompt)
	}
	if strings.Contains(got.FinalPrompt, "## Strategic Leadership") {
		t.Errorf("FinalPrompt carries leader guidance for a follower:\n%s", got.FinalPrompt)
	}
	for _, want := range []string{
		"**Team:** Working with a team of 3 agents ",
		"**Constraints:** This is a delegated subtask",
	} {
		if !strings.Contains(got.FinalPrompt, want) {
			t.Errorf("FinalPrompt missing %q:\n%s", want, got.FinalPrompt)
		}
	}
}

func TestComposeNarratorRole(t *testing.T) {
	t.Parallel()

	composer := prompt.NewComposer()
	c := prompt.NewContext(fullAgent(), simInput("Summarize the findings."), &types.ContextualExecution{
		CurrentDepth: 0,
		MaxDepth:     3,
		TeamSize:     1,
		AssignedRole: types.RoleNarrator,
	})

	got := composer.Compose(t.Context(), c)
	if !strings.Contains(got.FinalPrompt, "## Synthesis Role") {
		t.Errorf("FinalPrompt missing narrator instructions:\n%s", got.FinalPrompt)
	}
}

func TestComposeLeafConstraints(t *testing.T) {
	t.Parallel()

	composer := prompt.NewComposer()
	c := prompt.NewContext(fullAgent(), simInput("Finish the report."), &types.ContextualExecution{
		CurrentDepth: 2,
		MaxDepth:     3,
		TeamSize:     1,
		AssignedRole: types.RoleFollower,
	})

	got := composer.Compose(t.Context(), c)
	want := "**Constraints:** Near maximum depth - focus on execution; This is a delegated subtask"
	if !strings.Contains(got.FinalPrompt, want) {
		t.Errorf("FinalPrompt missing %q:\n%s", want, got.FinalPrompt)
	}
}

func TestComposeWithoutExpertiseSkipsCapability(t *testing.T) {
	t.Parallel()

	card := &types.AgentCard{Name: "Generic Agent", Description: "A general-purpose agent for task execution"}
	composer := prompt.NewComposer()
	c := prompt.NewContext(types.NewAgentInterface(card), simInput("Do the thing."), &types.ContextualExecution{
		CurrentDepth: 0,
		MaxDepth:     3,
		TeamSize:     1,
		AssignedRole: types.RoleFollower,
	})

	got := composer.Compose(t.Context(), c)

	wantModules := []string{"persona", "role", "context"}
	if diff := cmp.Diff(wantModules, got.ModulesUsed); diff != "" {
		t.Errorf("ModulesUsed mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(got.FinalPrompt, "A general-purpose agent for task execution\n\nApply your authentic characteristics and expertise to this task.") {
		t.Errorf("FinalPrompt does not open with the description fallback:\n%s", got.FinalPrompt)
	}
}

func TestComposeNoApplicableModules(t *testing.T) {
	t.Parallel()

	composer := prompt.NewComposer(prompt.WithModules(prompt.Module{
		Name:     "noop",
		Priority: 100,
		Render:   func(*prompt.Context) string { return "   " },
	}))
	c := prompt.NewContext(fullAgent(), simInput("Anything."), nil)

	got := composer.Compose(t.Context(), c)
	if got.FinalPrompt != prompt.NoApplicableModules {
		t.Errorf("FinalPrompt = %q, want %q", got.FinalPrompt, prompt.NoApplicableModules)
	}
	if len(got.ModulesUsed) != 0 {
		t.Errorf("ModulesUsed = %v, want none", got.ModulesUsed)
	}
}

func TestComposeCustomModuleOrdering(t *testing.T) {
	t.Parallel()

	modules := append(prompt.CoreModules(), prompt.Module{
		Name:     "safety",
		Priority: 900,
		Render:   func(*prompt.Context) string { return "## Safety\nDo no harm." },
	})
	composer := prompt.NewComposer(prompt.WithModules(modules...))
	c := prompt.NewContext(fullAgent(), simInput("Assess the risk."), &types.ContextualExecution{
		CurrentDepth: 0,
		MaxDepth:     3,
		TeamSize:     1,
		AssignedRole: types.RoleFollower,
	})

	got := composer.Compose(t.Context(), c)

	wantModules := []string{"persona", "safety", "role", "context", "capability"}
	if diff := cmp.Diff(wantModules, got.ModulesUsed); diff != "" {
		t.Errorf("ModulesUsed mismatch (-want +got):\n%s", diff)
	}

	safetyAt := strings.Index(got.FinalPrompt, "## Safety")
	roleAt := strings.Index(got.FinalPrompt, "## Team Member Role")
	if safetyAt < 0 || roleAt < 0 || safetyAt > roleAt {
		t.Errorf("custom module not blended between persona and role (safety at %d, role at %d):\n%s", safetyAt, roleAt, got.FinalPrompt)
	}
}
