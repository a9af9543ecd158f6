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

// GitLabConfig connects the GitLab tools to one instance.
type GitLabConfig struct {
	// BaseURL is the instance root, e.g. "https://gitlab.com".
	BaseURL string

	// Token is the private access token sent as PRIVATE-TOKEN.
	Token string

	// ReadOnly disables the mutating tools.
	ReadOnly bool

	// HTTPClient overrides the default 30 second client.
	HTTPClient *http.Client
}

func (c *GitLabConfig) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// apiGet performs one GET against the GitLab v4 API and decodes into out.
func (c *GitLabConfig) apiGet(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/api/v4" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// apiPost performs one POST against the GitLab v4 API and decodes into
// out.
func (c *GitLabConfig) apiPost(ctx context.Context, path string, payload, out any) error {
	body, err := sonic.ConfigFastest.Marshal(payload)
	if err != nil {
		return err
	}
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/api/v4" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *GitLabConfig) do(req *http.Request, out any) error {
	if c.Token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.Token)
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
	return sonic.ConfigFastest.Unmarshal(data, out)
}

type gitlabProject struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	Description       string `json:"description"`
	WebURL            string `json:"web_url"`
	OpenIssuesCount   int    `json:"open_issues_count"`
}

type gitlabIssue struct {
	IID    int      `json:"iid"`
	Title  string   `json:"title"`
	State  string   `json:"state"`
	WebURL string   `json:"web_url"`
	Labels []string `json:"labels"`
	Author struct {
		Username string `json:"username"`
	} `json:"author"`
	Description string `json:"description"`
}

func formatGitLabIssue(issue *gitlabIssue) string {
	line := fmt.Sprintf("#%d [%s] %s (by %s)", issue.IID, issue.State, issue.Title, issue.Author.Username)
	if len(issue.Labels) > 0 {
		line += " labels: " + strings.Join(issue.Labels, ", ")
	}
	return line + "\n  " + issue.WebURL
}

// GitLabTools returns the GitLab integration tools: project listing,
// issue listing, issue creation and issue lookup. The create tool reports
// read-only mode instead of mutating when config.ReadOnly is set.
func GitLabTools(config *GitLabConfig) []types.Tool {
	return []types.Tool{
		tool.New("gitlab_list_projects",
			"List GitLab projects, optionally filtered by a search term.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"search": {Type: genai.TypeString, Description: "Optional search term to filter projects"},
					"limit":  {Type: genai.TypeInteger, Description: "Maximum number of projects to return (default: 20)"},
				},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				search := tool.ToString(args, "search", "")
				limit := tool.ToInt(args, "limit", 20)

				query := url.Values{"per_page": {strconv.Itoa(limit)}, "membership": {"true"}}
				if search != "" {
					query.Set("search", search)
				}
				var projects []gitlabProject
				if err := config.apiGet(ctx, "/projects", query, &projects); err != nil {
					return fmt.Sprintf("Failed to list GitLab projects: %v", err), nil
				}
				if len(projects) == 0 {
					return "No GitLab projects found", nil
				}

				formatted := make([]string, 0, len(projects))
				for _, p := range projects {
					formatted = append(formatted, fmt.Sprintf("- **%s** (id: %d, open issues: %d)\n  %s",
						p.PathWithNamespace, p.ID, p.OpenIssuesCount, p.WebURL))
				}
				return fmt.Sprintf("Found %d GitLab projects:\n\n%s", len(projects), strings.Join(formatted, "\n")), nil
			},
		),
		tool.New("gitlab_list_issues",
			"List issues of a GitLab project.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"project_id": {Type: genai.TypeString, Description: "Project ID or URL-encoded path"},
					"state":      {Type: genai.TypeString, Description: "Issue state filter: opened, closed or all (default: opened)"},
					"limit":      {Type: genai.TypeInteger, Description: "Maximum number of issues to return (default: 20)"},
				},
				Required: []string{"project_id"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				projectID := tool.ToString(args, "project_id", "")
				state := tool.ToString(args, "state", "opened")
				limit := tool.ToInt(args, "limit", 20)

				query := url.Values{"state": {state}, "per_page": {strconv.Itoa(limit)}}
				var issues []gitlabIssue
				path := "/projects/" + url.PathEscape(projectID) + "/issues"
				if err := config.apiGet(ctx, path, query, &issues); err != nil {
					return fmt.Sprintf("Failed to list issues for project %s: %v", projectID, err), nil
				}
				if len(issues) == 0 {
					return fmt.Sprintf("No %s issues found in project %s", state, projectID), nil
				}

				formatted := make([]string, 0, len(issues))
				for i := range issues {
					formatted = append(formatted, formatGitLabIssue(&issues[i]))
				}
				return fmt.Sprintf("Found %d issues in project %s:\n\n%s",
					len(issues), projectID, strings.Join(formatted, "\n")), nil
			},
		),
		tool.New("gitlab_create_issue",
			"Create a new issue in a GitLab project.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"project_id":  {Type: genai.TypeString, Description: "Project ID or URL-encoded path"},
					"title":       {Type: genai.TypeString, Description: "Issue title"},
					"description": {Type: genai.TypeString, Description: "Optional issue description"},
				},
				Required: []string{"project_id", "title"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				if config.ReadOnly {
					return "Cannot create issue: read-only mode is enabled", nil
				}
				projectID := tool.ToString(args, "project_id", "")
				title := tool.ToString(args, "title", "")
				description := tool.ToString(args, "description", "")

				payload := map[string]any{"title": title}
				if description != "" {
					payload["description"] = description
				}
				var issue gitlabIssue
				path := "/projects/" + url.PathEscape(projectID) + "/issues"
				if err := config.apiPost(ctx, path, payload, &issue); err != nil {
					return fmt.Sprintf("Failed to create issue in project %s: %v", projectID, err), nil
				}
				return fmt.Sprintf("Created issue #%d in project %s: %s\n%s",
					issue.IID, projectID, issue.Title, issue.WebURL), nil
			},
		),
		tool.New("gitlab_get_issue",
			"Get one issue of a GitLab project by its iid.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"project_id": {Type: genai.TypeString, Description: "Project ID or URL-encoded path"},
					"issue_iid":  {Type: genai.TypeInteger, Description: "Project-local issue iid"},
				},
				Required: []string{"project_id", "issue_iid"},
			},
			func(ctx context.Context, args map[string]any) (string, error) {
				projectID := tool.ToString(args, "project_id", "")
				issueIID := tool.ToInt(args, "issue_iid", 0)

				var issue gitlabIssue
				path := fmt.Sprintf("/projects/%s/issues/%d", url.PathEscape(projectID), issueIID)
				if err := config.apiGet(ctx, path, nil, &issue); err != nil {
					return fmt.Sprintf("Failed to get issue %d in project %s: %v", issueIID, projectID, err), nil
				}

				result := formatGitLabIssue(&issue)
				if issue.Description != "" {
					result += "\n\n" + issue.Description
				}
				return result, nil
			},
		),
	}
}
