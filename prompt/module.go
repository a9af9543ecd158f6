// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/go-a2a/mantis/types"
)

// Module priorities. Higher priority modules contribute earlier sections
// of the composed prompt; the persona foundation always leads.
const (
	PriorityPersona    = 1000
	PriorityRole       = 800
	PriorityLeader     = 700
	PriorityContext    = 600
	PriorityCapability = 500
)

// A Module contributes one section of a composed prompt.
//
// Applicable filters the module per context; nil means always
// applicable. Render returns the section text; whitespace-only output
// drops the module from the final prompt.
type Module struct {
	Name       string
	Priority   int
	Applicable func(*Context) bool
	Render     func(*Context) string
}

// CoreModules returns the built-in module set: persona foundation, role
// instructions, leader guidance, situational context and capability
// highlights.
func CoreModules() []Module {
	return []Module{
		{Name: "persona", Priority: PriorityPersona, Render: renderPersona},
		{Name: "role", Priority: PriorityRole, Render: renderRole},
		{Name: "leader", Priority: PriorityLeader, Applicable: leaderOnly, Render: renderLeader},
		{Name: "context", Priority: PriorityContext, Render: renderSituation},
		{Name: "capability", Priority: PriorityCapability, Render: renderCapability},
	}
}

// renderPersona establishes the agent's identity. The full persona text
// wins when the card carries one; otherwise the description or the bare
// agent name stands in.
func renderPersona(c *Context) string {
	if content := c.stringVar("persona.original_content"); content != "" {
		return content
	}
	if desc := c.stringVar("agent.description"); desc != "" {
		return desc + "\n\nApply your authentic characteristics and expertise to this task."
	}
	name := cmp.Or(c.stringVar("agent.name"), "Unknown Agent")
	return fmt.Sprintf("You are %s. Apply your authentic characteristics and expertise to this task.", name)
}

// renderRole emits the instructions for the execution's assigned role.
func renderRole(c *Context) string {
	switch c.stringVar("role.assigned") {
	case "leader":
		return leadershipRoleTemplate
	case "follower":
		return teamMemberRoleTemplate
	case "narrator":
		return synthesisRoleTemplate
	default:
		return agentRoleTemplate
	}
}

func leaderOnly(c *Context) bool {
	return c.boolVar("role.is_leader")
}

// renderLeader picks the leadership guidance by depth: strategic at the
// root, team building while delegation budget remains, execution focus
// near the bottom.
func renderLeader(c *Context) string {
	currentDepth := c.intVar("role.current_depth", 0)
	maxDepth := c.intVar("role.max_depth", types.DefaultMaxDepth)

	switch {
	case currentDepth == 0:
		return Substitute(strategicLeadershipTemplate, c.Vars())
	case c.boolVar("team.can_delegate") && currentDepth <= maxDepth-2:
		return Substitute(teamBuildingTemplate, c.Vars())
	default:
		return Substitute(executionLeadershipTemplate, c.Vars())
	}
}

// renderSituation describes where the execution sits in the simulation
// tree and which constraints apply there.
func renderSituation(c *Context) string {
	teamSize := c.intVar("team.size", 1)
	description := "solo"
	if teamSize != 1 {
		description = fmt.Sprintf("with a team of %d agents", teamSize)
	}
	c.SetVar("team_size_description", description)

	var constraints []string
	if c.boolVar("context.is_leaf") {
		constraints = append(constraints, "Near maximum depth - focus on execution")
	}
	if c.intVar("role.current_depth", 0) > 0 {
		constraints = append(constraints, "This is a delegated subtask")
	}
	if len(constraints) == 0 {
		c.SetVar("constraints", "None")
	} else {
		c.SetVar("constraints", strings.Join(constraints, "; "))
	}

	return Substitute(situationalContextTemplate, c.Vars())
}

// renderCapability highlights domain expertise; agents without declared
// domains or methodologies skip the section.
func renderCapability(c *Context) string {
	if len(c.listVar("domain.primary")) == 0 && len(c.listVar("domain.methodologies")) == 0 {
		return ""
	}
	return Substitute(capabilityTemplate, c.Vars())
}
