// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"math/rand"
	"net/http"

	"github.com/go-a2a/mantis/invocation"
	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// Config assembles the builtin toolset.
type Config struct {
	// RegistryURL is the agent registry base URL for the discovery tools.
	RegistryURL string

	// HTTPClient is shared by the network-backed tools. Nil gets per-tool
	// 30 second defaults.
	HTTPClient *http.Client

	// SearchProvider backs web_search. Nil gets the DuckDuckGo default.
	SearchProvider SearchProvider

	// Git bounds git_analyze_repository. Nil gets [DefaultGitConfig].
	Git *GitConfig

	// GitLab enables the GitLab tools when set.
	GitLab *GitLabConfig

	// Jira enables the Jira tools when set.
	Jira *JiraConfig

	// Rand seeds the divination tools. Nil gets a time-seeded source.
	Rand *rand.Rand
}

// NewBuiltinRegistry creates a tool registry holding the builtin toolset:
// registry discovery, web fetch and search, git analysis, the divination
// utilities, and the GitLab and Jira integrations when configured.
//
// The recursion tools are registered separately through
// [RegisterRecursionTools] once an invoker exists: the invoker dispatches
// through the orchestrator, which itself holds this registry.
func NewBuiltinRegistry(cfg *Config) *tool.Registry {
	if cfg == nil {
		cfg = &Config{RegistryURL: types.DefaultRegistryURL}
	}
	registryURL := cfg.RegistryURL
	if registryURL == "" {
		registryURL = types.DefaultRegistryURL
	}

	var all []types.Tool
	all = append(all, RegistryTools(registryURL, cfg.HTTPClient)...)
	all = append(all, WebFetchTool(cfg.HTTPClient), WebSearchTool(cfg.SearchProvider))
	all = append(all, GitAnalyzeTool(cfg.Git))
	all = append(all, NewDiviner(cfg.Rand).Tools()...)
	if cfg.GitLab != nil {
		all = append(all, GitLabTools(cfg.GitLab)...)
	}
	if cfg.Jira != nil {
		all = append(all, JiraTools(cfg.Jira)...)
	}
	return tool.NewRegistry(all...)
}

// RegisterRecursionTools adds the delegation tools to reg.
func RegisterRecursionTools(reg *tool.Registry, invoker *invocation.Invoker, lister invocation.AgentLister, rng *rand.Rand) error {
	for _, t := range RecursionTools(invoker, lister, rng) {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
