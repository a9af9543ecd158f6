// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tools provides the builtin toolset agents call during direct
// execution: registry discovery, web fetch and search, git repository
// analysis, GitLab and Jira integration, divination utilities for
// randomized agent behavior, and the recursion tools that let agents
// delegate to other agents.
//
// Tools format their results for LLM consumption. Operational failures
// (an unreachable endpoint, a blocked URL) are reported as result strings
// rather than errors, so the calling agent can read the failure and
// self-correct.
package tools
