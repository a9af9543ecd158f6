// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// JiraConfig connects the Jira tools to one site.
type JiraConfig struct {
	// BaseURL is the site root, e.g. "https://example.atlassian.net".
	BaseURL string

	// Email and APIToken authenticate via HTTP basic auth.
	Email    string
	APIToken string

	// ReadOnly disables the mutating tools.
	ReadOnly bool

	// HTTPClient overrides the default 30 second client.
	HTTPClient *http.Client
}

func (c *JiraConfig) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// api performs one call against the Jira REST API v2 and decodes into
// out.
func (c *JiraConfig) api(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/rest/api/2" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := sonic.ConfigFastest.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Email != "" || c.APIToken != "" {
		req.SetBasicAuth(c.Email, c.APIToken)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return sonic.ConfigFastest.Unmarshal(data, out)
}

type jiraIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Status      struct {
			Name string `json:"name"`
		} `json:"status"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

func formatJiraIssue(issue *jiraIssue) string {
	assignee := "unassigned"
	if issue.Fields.Assignee != nil {
		assignee = issue.Fields.Assignee.DisplayName
	}
	return fmt.Sprintf("%s [%s] %s (assignee: %s)", issue.Key, issue.Fields.Status.Name, issue.Fields.Summary, assignee)
}

// JiraTools returns the Jira integration tools: project listing, JQL
// issue search, issue creation and issue lookup. The create tool reports
// read-only mode instead of mutating when config.ReadOnly is set.
func JiraTools(config *JiraConfig) []types.Tool {
	return []types.Tool{
		tool.New("jira_list_projects",
			"List Jira projects visible to the configured account.",
			nil,
			func(ctx context.Context, _ map[string]any) (string, error) {
				var projects []struct {
					Key  string `json:"key"`
					Name string `json:"name"`
				}
				if err := config.api(ctx, http.MethodGet, "/project", nil, nil, &projects); err != nil {
					return fmt.Sprintf("Failed to list Jira projects: %v", err), nil
				}
				if len(projects) == 0 {
					return "No Jira projects found", nil
				}

				formatted := make([]string, 0, len(projects))
				for _, p := range projects {
					formatted = append(formatted, fmt.Sprintf("- **%s**: %s", p.Key, p.Name))
				}
				return fmt.Sprintf("Found %d Jira projects:\n\n%s", len(projects), strings.Join(formatted, "\n")), nil
			},
		),
		tool.New("jira_list_issues",
			"List issues of a Jira project.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"project_key": {Type: genai.TypeString, Description: "Project key, e.g. PROJ"},
					"jql":         {Type: genai.TypeString, Description: "Optional JQL filter appended to the project clause"},
					"limit":       {Type: genai.TypeInteger, Description: "Maximum number of issues to return (default: 20)"},
				},
				Required: []string{"project_key"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				projectKey := tool.ToString(args, "project_key", "")
				jql := tool.ToString(args, "jql", "")
				limit := tool.ToInt(args, "limit", 20)

				fullJQL := fmt.Sprintf("project = %s", projectKey)
				if jql != "" {
					fullJQL += " AND " + jql
				}
				fullJQL += " ORDER BY updated DESC"

				query := url.Values{"jql": {fullJQL}, "maxResults": {strconv.Itoa(limit)}}
				var result struct {
					Issues []jiraIssue `json:"issues"`
				}
				if err := config.api(ctx, http.MethodGet, "/search", query, nil, &result); err != nil {
					return fmt.Sprintf("Failed to list issues for project %s: %v", projectKey, err), nil
				}
				if len(result.Issues) == 0 {
					return fmt.Sprintf("No issues found in project %s", projectKey), nil
				}

				formatted := make([]string, 0, len(result.Issues))
				for i := range result.Issues {
					formatted = append(formatted, formatJiraIssue(&result.Issues[i]))
				}
				return fmt.Sprintf("Found %d issues in project %s:\n\n%s",
					len(result.Issues), projectKey, strings.Join(formatted, "\n")), nil
			},
		),
		tool.New("jira_create_issue",
			"Create a new issue in a Jira project.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"project_key": {Type: genai.TypeString, Description: "Project key, e.g. PROJ"},
					"summary":     {Type: genai.TypeString, Description: "Issue summary"},
					"description": {Type: genai.TypeString, Description: "Optional issue description"},
					"issue_type":  {Type: genai.TypeString, Description: "Issue type name (default: Task)"},
				},
				Required: []string{"project_key", "summary"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				if config.ReadOnly {
					return "Cannot create issue: read-only mode is enabled", nil
				}
				projectKey := tool.ToString(args, "project_key", "")
				summary := tool.ToString(args, "summary", "")
				description := tool.ToString(args, "description", "")
				issueType := tool.ToString(args, "issue_type", "Task")

				payload := map[string]any{
					"fields": map[string]any{
						"project":     map[string]any{"key": projectKey},
						"summary":     summary,
						"description": description,
						"issuetype":   map[string]any{"name": issueType},
					},
				}
				var created struct {
					Key string `json:"key"`
				}
				if err := config.api(ctx, http.MethodPost, "/issue", nil, payload, &created); err != nil {
					return fmt.Sprintf("Failed to create issue in project %s: %v", projectKey, err), nil
				}
				return fmt.Sprintf("Created issue %s in project %s: %s", created.Key, projectKey, summary), nil
			},
		),
		tool.New("jira_get_issue",
			"Get one Jira issue by its key.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"issue_key": {Type: genai.TypeString, Description: "Issue key, e.g. PROJ-123"},
				},
				Required: []string{"issue_key"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				issueKey := tool.ToString(args, "issue_key", "")

				var issue jiraIssue
				if err := config.api(ctx, http.MethodGet, "/issue/"+url.PathEscape(issueKey), nil, nil, &issue); err != nil {
					return fmt.Sprintf("Failed to get issue %s: %v", issueKey, err), nil
				}

				result := formatJiraIssue(&issue)
				if issue.Fields.Description != "" {
					result += "\n\n" + issue.Fields.Description
				}
				return result, nil
			},
		),
	}
}
