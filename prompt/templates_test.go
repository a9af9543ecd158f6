// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt_test

import (
	"strings"
	"testing"

	"github.com/go-a2a/mantis/prompt"
)

func TestCoordinationTemplatesRenderBackticks(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		template string
		want     []string
	}{
		"coordination constraints": {
			template: prompt.AgentCoordinationConstraints,
			want: []string{
				"## Agent Coordination Protocol",
				"`get_random_agents_from_registry(count=3)`",
				"`invoke_multiple_agents`",
				"```\nStep 1: Call get_random_agents_from_registry(count=3)",
				"Step 4: Synthesize the team responses\n```",
			},
		},
		"chief of staff formation": {
			template: prompt.ChiefOfStaffTeamFormation,
			want: []string{
				"## Chief of Staff - Team Formation and Coordination",
				"`get_random_agents_from_registry(count=N)`",
				"`invoke_multiple_agents(agent_names, query_template)`",
			},
		},
		"collaboration guidelines": {
			template: prompt.TeamCollaborationGuidelines,
			want: []string{
				"## Team Collaboration Guidelines",
				"- Maintain your authentic voice and decision-making approach",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, want := range tt.want {
				if !strings.Contains(tt.template, want) {
					t.Errorf("template missing %q:\n%s", want, tt.template)
				}
			}
			if strings.Contains(tt.template, "%[") {
				t.Errorf("unexpanded format verb in template:\n%s", tt.template)
			}
			if strings.Contains(tt.template, "\t") {
				t.Errorf("unstripped indentation in template:\n%s", tt.template)
			}
		})
	}
}
