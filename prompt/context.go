// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-a2a/mantis/types"
)

// Context carries everything the composition modules draw from: the
// resolved agent, the simulation input and the execution slot. Template
// variables are resolved once at construction; modules read them through
// [Context.Var] and may add derived variables with [Context.SetVar].
//
// A Context belongs to a single agent execution and is not safe for
// concurrent use.
type Context struct {
	// Agent is the resolved agent the prompt is composed for.
	Agent *types.AgentInterface

	// Input is the simulation the execution belongs to.
	Input *types.SimulationInput

	// Execution situates the agent within the simulation tree.
	Execution *types.ContextualExecution

	// AvailableAgents lists registry agent names visible to this
	// execution, surfaced to delegation guidance.
	AvailableAgents []string

	vars map[string]any
}

// NewContext builds a composition context and resolves its template
// variables from the agent card, input and execution slot.
func NewContext(agent *types.AgentInterface, input *types.SimulationInput, execution *types.ContextualExecution, opts ...ContextOption) *Context {
	c := &Context{
		Agent:     agent,
		Input:     input,
		Execution: execution,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.vars = resolveVariables(c)
	return c
}

// ContextOption configures a [Context].
type ContextOption func(*Context)

// WithAvailableAgents records the registry agent names visible to this
// execution.
func WithAvailableAgents(names []string) ContextOption {
	return func(c *Context) {
		c.AvailableAgents = names
	}
}

// Var returns the value of one resolved variable, or nil when the
// variable is not set.
func (c *Context) Var(key string) any {
	return c.vars[key]
}

// SetVar sets a variable, overriding any resolved value. Modules use it
// to publish derived variables before substitution.
func (c *Context) SetVar(key string, value any) {
	c.vars[key] = value
}

// Vars returns the live variable map. Mutations are visible to later
// substitutions.
func (c *Context) Vars() map[string]any {
	return c.vars
}

func (c *Context) stringVar(key string) string {
	s, _ := c.vars[key].(string)
	return s
}

func (c *Context) intVar(key string, def int) int {
	if n, ok := c.vars[key].(int); ok {
		return n
	}
	return def
}

func (c *Context) boolVar(key string) bool {
	b, _ := c.vars[key].(bool)
	return b
}

func (c *Context) listVar(key string) []string {
	l, _ := c.vars[key].([]string)
	return l
}

// resolveVariables flattens the context into the ${name} template
// variable namespace.
func resolveVariables(c *Context) map[string]any {
	vars := make(map[string]any, 32)

	if a := c.Agent; a != nil {
		vars["agent.name"] = a.Name()
		vars["agent.description"] = a.Description()

		vars["persona.original_content"] = a.PersonaContent()
		vars["persona.core_principles"] = a.CorePrinciples()
		vars["persona.communication_style"] = a.CommunicationStyle()
		vars["persona.decision_framework"] = a.DecisionFramework()
		vars["persona.characteristic_phrases"] = a.CharacteristicPhrases()

		vars["competencies.leader_score"] = a.LeaderScore()
		vars["competencies.follower_score"] = a.FollowerScore()
		vars["competencies.narrator_score"] = a.NarratorScore()

		vars["domain.primary"] = a.PrimaryDomains()
		vars["domain.methodologies"] = a.Methodologies()
	}

	role := "agent"
	currentDepth, maxDepth, teamSize := 0, types.DefaultMaxDepth, 1
	if e := c.Execution; e != nil {
		if e.AssignedRole != "" {
			role = strings.ToLower(string(e.AssignedRole))
		}
		currentDepth = e.CurrentDepth
		maxDepth = e.MaxDepth
		if e.TeamSize > 0 {
			teamSize = e.TeamSize
		}
	}
	vars["role.assigned"] = role
	vars["role.is_leader"] = role == "leader"
	vars["role.is_follower"] = role == "follower"
	vars["role.is_narrator"] = role == "narrator"
	vars["role.current_depth"] = currentDepth
	vars["role.max_depth"] = maxDepth

	vars["team.size"] = teamSize
	vars["team.available_agents"] = c.AvailableAgents
	vars["team.can_delegate"] = currentDepth < maxDepth-1

	if in := c.Input; in != nil {
		vars["task.query"] = in.Query
		vars["task.parent_task"] = in.ParentContextID
	}

	remaining := maxDepth - currentDepth
	vars["context.recursion_remaining"] = remaining
	vars["context.is_leaf"] = remaining <= 1
	vars["context.depth_percentage"] = float64(currentDepth) / float64(max(maxDepth, 1))

	return vars
}

// Substitute replaces ${name} placeholders in template with formatted
// variable values. Lists render comma-joined with "None" for empty,
// booleans render as yes/no, nil renders as "None". Placeholders without
// a matching variable are left in place.
func Substitute(template string, vars map[string]any) string {
	for key, value := range vars {
		template = strings.ReplaceAll(template, "${"+key+"}", formatValue(value))
	}
	return template
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []string:
		if len(v) == 0 {
			return "None"
		}
		return strings.Join(v, ", ")
	case []any:
		if len(v) == 0 {
			return "None"
		}
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = formatValue(elem)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
