// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/invocation"
	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// truncate trims s to at most n runes for one-line summaries.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// toStringSlice extracts a validated string array argument.
func toStringSlice(args map[string]any, name string) []string {
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// RecursionTools returns the delegation tools: invoking one agent,
// invoking several in parallel and drawing a random team candidate set
// from the registry. Delegations resolve their caller through the
// [invocation.Scope] on the context, so the tools register statically.
func RecursionTools(invoker *invocation.Invoker, lister invocation.AgentLister, rng *rand.Rand) []types.Tool {
	diviner := NewDiviner(rng)

	return []types.Tool{
		tool.New("invoke_agent_by_name",
			"Invoke a specific agent from the registry to work on a query and return its response.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"agent_name": {Type: genai.TypeString, Description: "Name of the agent to invoke (must exist in the registry)"},
					"query":      {Type: genai.TypeString, Description: "Query to send to the agent"},
					"context":    {Type: genai.TypeString, Description: "Optional additional context for the agent"},
					"max_depth":  {Type: genai.TypeInteger, Description: "Maximum recursion depth for the invoked agent (default: 1)"},
				},
				Required: []string{"agent_name", "query"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				agentName := tool.ToString(args, "agent_name", "")
				query := tool.ToString(args, "query", "")
				extraContext := tool.ToString(args, "context", "")
				maxDepth := tool.ToInt(args, "max_depth", 1)

				return invoker.InvokeAgentByName(ctx, agentName, query, extraContext, maxDepth)
			},
		),
		tool.New("invoke_multiple_agents",
			"Invoke multiple agents in parallel on the same query and collect their responses.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"agent_names": {
						Type:        genai.TypeArray,
						Description: "Names of the agents to invoke",
						Items:       &genai.Schema{Type: genai.TypeString},
					},
					"query": {Type: genai.TypeString, Description: "Query to send to every agent"},
					"individual_contexts": {
						Type:        genai.TypeArray,
						Description: "Optional per-agent contexts, aligned with agent_names",
						Items:       &genai.Schema{Type: genai.TypeString},
					},
					"max_depth": {Type: genai.TypeInteger, Description: "Maximum recursion depth for the invoked agents (default: 1)"},
				},
				Required: []string{"agent_names", "query"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				agentNames := toStringSlice(args, "agent_names")
				query := tool.ToString(args, "query", "")
				individualContexts := toStringSlice(args, "individual_contexts")
				maxDepth := tool.ToInt(args, "max_depth", 1)

				if len(agentNames) == 0 {
					return "Error: agent_names must not be empty", nil
				}

				results, err := invoker.InvokeMultipleAgents(ctx, agentNames, query, individualContexts, maxDepth)
				if err != nil {
					return "", err
				}

				var sb strings.Builder
				for _, name := range agentNames {
					fmt.Fprintf(&sb, "## %s\n\n%s\n\n", name, results[name])
				}
				return strings.TrimSuffix(sb.String(), "\n"), nil
			},
		),
		tool.New("get_random_agents_from_registry",
			"Get a random selection of agents from the registry for team formation.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"count": {Type: genai.TypeInteger, Description: "Number of random agents to select (default: 3, max: 10)"},
				},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				count := tool.ToInt(args, "count", 3)
				if count < 1 || count > 10 {
					return "Error: Agent count must be between 1 and 10", nil
				}

				cards, err := lister.ListAgents(ctx)
				if err != nil {
					return fmt.Sprintf("Error selecting random agents: %v", err), nil
				}
				if len(cards) == 0 {
					return "Error: No agents available from registry", nil
				}
				count = min(count, len(cards))

				perm := diviner.rngPerm(len(cards))
				lines := []string{fmt.Sprintf("🎯 **Selected %d Random Agents for Team Assembly**\n", count)}
				for i := range count {
					agent := types.NewAgentInterface(cards[perm[i]])
					lines = append(lines, fmt.Sprintf("**%d. %s**", i+1, agent.Name()))
					lines = append(lines, fmt.Sprintf("   Role: %s...", truncate(agent.Description(), 100)))
					if domains := agent.PrimaryDomains(); len(domains) > 0 {
						limit := min(len(domains), 3)
						lines = append(lines, fmt.Sprintf("   Expertise: %s", strings.Join(domains[:limit], ", ")))
					}
					if style := agent.CommunicationStyle(); style != "" {
						lines = append(lines, fmt.Sprintf("   Communication Style: %s...", truncate(style, 80)))
					}
					lines = append(lines, "")
				}
				lines = append(lines, fmt.Sprintf("✅ **Team Assembly Complete**: %d agents ready for coordination", count))
				return strings.Join(lines, "\n"), nil
			},
		),
	}
}
