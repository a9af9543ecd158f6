// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// registrySearchResult is the response shape of the registry's plain HTTP
// search endpoint.
type registrySearchResult struct {
	Agents []struct {
		Name            string  `json:"name"`
		Description     string  `json:"description"`
		URL             string  `json:"url"`
		SimilarityScore float64 `json:"similarity_score"`
	} `json:"agents"`
}

// RegistryTools returns the registry discovery tools: natural-language
// agent search against the registry at registryURL and per-agent detail
// lookup. A nil hc gets a 30 second default client.
func RegistryTools(registryURL string, hc *http.Client) []types.Tool {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	registryURL = strings.TrimSuffix(registryURL, "/")

	return []types.Tool{
		tool.New("registry_search_agents",
			"Search for agents in the registry using natural language queries.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Search query describing the type of agent you're looking for"},
					"limit": {Type: genai.TypeInteger, Description: "Maximum number of results to return (default: 20)"},
				},
				Required: []string{"query"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				query := tool.ToString(args, "query", "")
				limit := tool.ToInt(args, "limit", 20)

				payload, err := sonic.ConfigFastest.Marshal(map[string]any{"query": query, "limit": limit})
				if err != nil {
					return fmt.Sprintf("Error searching agents: %v", err), nil
				}
				req, err := http.NewRequestWithContext(ctx, http.MethodPost, registryURL+"/search", bytes.NewReader(payload))
				if err != nil {
					return fmt.Sprintf("Error searching agents: %v", err), nil
				}
				req.Header.Set("Content-Type", "application/json")

				resp, err := hc.Do(req)
				if err != nil {
					return fmt.Sprintf("Error searching agents: %v", err), nil
				}
				defer resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					return fmt.Sprintf("Registry search failed: HTTP %d", resp.StatusCode), nil
				}

				body, err := io.ReadAll(resp.Body)
				if err != nil {
					return fmt.Sprintf("Error searching agents: %v", err), nil
				}
				var result registrySearchResult
				if err := sonic.ConfigFastest.Unmarshal(body, &result); err != nil {
					return fmt.Sprintf("Error searching agents: %v", err), nil
				}

				if len(result.Agents) == 0 {
					return fmt.Sprintf("No agents found matching query: '%s'", query), nil
				}

				formatted := make([]string, 0, len(result.Agents))
				for _, agent := range result.Agents {
					name := agent.Name
					if name == "" {
						name = "Unknown"
					}
					description := agent.Description
					if description == "" {
						description = "No description"
					}
					url := agent.URL
					if url == "" {
						url = "No URL"
					}
					simInfo := ""
					if agent.SimilarityScore != 0 {
						simInfo = fmt.Sprintf(" (similarity: %.3f)", agent.SimilarityScore)
					}
					formatted = append(formatted, fmt.Sprintf("- **%s**%s: %s\n  URL: %s", name, simInfo, description, url))
				}
				return fmt.Sprintf("Found %d agents matching '%s':\n\n%s",
					len(result.Agents), query, strings.Join(formatted, "\n\n")), nil
			},
		),
		tool.New("registry_get_agent_details",
			"Get detailed information about a specific agent.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"agent_url": {Type: genai.TypeString, Description: "URL of the agent to get details for"},
				},
				Required: []string{"agent_url"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				agentURL := tool.ToString(args, "agent_url", "")

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, agentURL, nil)
				if err != nil {
					return fmt.Sprintf("Error getting agent details for %s: %v", agentURL, err), nil
				}
				resp, err := hc.Do(req)
				if err != nil {
					return fmt.Sprintf("Error getting agent details for %s: %v", agentURL, err), nil
				}
				defer resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					return fmt.Sprintf("Failed to fetch agent details: HTTP %d", resp.StatusCode), nil
				}

				body, err := io.ReadAll(resp.Body)
				if err != nil {
					return fmt.Sprintf("Error getting agent details for %s: %v", agentURL, err), nil
				}
				var card struct {
					Name        string `json:"name"`
					Description string `json:"description"`
				}
				if err := sonic.ConfigFastest.Unmarshal(body, &card); err != nil {
					return fmt.Sprintf("Error getting agent details for %s: %v", agentURL, err), nil
				}
				if card.Name == "" {
					card.Name = "Unknown"
				}
				if card.Description == "" {
					card.Description = "No description"
				}
				return fmt.Sprintf("Agent Details: %s - %s", card.Name, card.Description), nil
			},
		),
	}
}
