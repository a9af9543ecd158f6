// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/oauth2"

	"github.com/go-a2a/mantis/a2a"
	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/types"
)

// Endpoint is the JSON-RPC path below the registry base URL.
const Endpoint = "/jsonrpc"

// Search defaults.
const (
	// DefaultSearchMode is the registry-side matching strategy.
	DefaultSearchMode = "semantic"

	// DefaultSimilarityThreshold filters weak matches out of search
	// results.
	DefaultSimilarityThreshold = 0.3

	// DefaultMaxResults caps a search result set.
	DefaultMaxResults = 20
)

// Client talks to an agent registry over JSON-RPC 2.0. The zero value is
// not usable; construct instances with [NewClient].
type Client struct {
	baseURL string
	hc      *http.Client
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTokenSource wraps the HTTP transport with OAuth2 bearer
// authentication.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		base := c.hc
		c.hc = &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
			Timeout:   base.Timeout,
		}
	}
}

// NewClient creates a registry client for the registry at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the registry base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call performs one JSON-RPC round trip against the registry endpoint and
// decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	req, err := a2a.NewRequest(types.RandomHex(8), method, params)
	if err != nil {
		return err
	}
	body, err := sonic.ConfigFastest.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s round trip: %w", method, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: HTTP %d", method, httpResp.StatusCode)
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	var resp a2a.Response
	if err := sonic.ConfigFastest.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return resp.DecodeResult(out)
}

// listAgentsResult is the result shape of the list_agents method.
type listAgentsResult struct {
	Agents []*types.AgentCard `json:"agents"`
}

// ListAgents fetches the cards of every registered agent.
func (c *Client) ListAgents(ctx context.Context) ([]*types.AgentCard, error) {
	var result listAgentsResult
	if err := c.call(ctx, "list_agents", map[string]any{}, &result); err != nil {
		return nil, fmt.Errorf("list_agents: %w", err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "Listed registry agents",
		slog.String("registry", c.baseURL),
		slog.Int("count", len(result.Agents)),
	)
	return result.Agents, nil
}

// SearchOptions tune a [Client.SearchAgents] call. The zero value selects
// the search defaults.
type SearchOptions struct {
	// SearchMode names the registry-side matching strategy.
	SearchMode string

	// SimilarityThreshold filters out matches scoring below it.
	SimilarityThreshold float64

	// MaxResults caps the result set.
	MaxResults int
}

// searchAgentsParams is the wire shape of the search_agents parameters.
type searchAgentsParams struct {
	Query               string  `json:"query"`
	SearchMode          string  `json:"search_mode"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	MaxResults          int     `json:"max_results"`
}

// SearchResult pairs the matched agent cards with their similarity scores.
// Scores align with Agents by index; an empty Scores slice means the
// registry reported no scores for this search mode.
type SearchResult struct {
	Agents []*types.AgentCard
	Scores []float64
}

// searchAgentsResult is the result shape of the search_agents method.
type searchAgentsResult struct {
	Agents           []*types.AgentCard `json:"agents"`
	SimilarityScores []float64          `json:"similarity_scores"`
}

// SearchAgents queries the registry for agents matching a natural language
// query.
func (c *Client) SearchAgents(ctx context.Context, query string, opts *SearchOptions) (*SearchResult, error) {
	params := searchAgentsParams{
		Query:               query,
		SearchMode:          DefaultSearchMode,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxResults:          DefaultMaxResults,
	}
	if opts != nil {
		if opts.SearchMode != "" {
			params.SearchMode = opts.SearchMode
		}
		if opts.SimilarityThreshold > 0 {
			params.SimilarityThreshold = opts.SimilarityThreshold
		}
		if opts.MaxResults > 0 {
			params.MaxResults = opts.MaxResults
		}
	}

	var result searchAgentsResult
	if err := c.call(ctx, "search_agents", params, &result); err != nil {
		return nil, fmt.Errorf("search_agents: %w", err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "Searched registry agents",
		slog.String("query", query),
		slog.Int("count", len(result.Agents)),
	)
	return &SearchResult{Agents: result.Agents, Scores: result.SimilarityScores}, nil
}

// GetAgentByName finds the registered agent whose name or id equals name.
// An unknown name surfaces as *[types.AgentNotFoundError] carrying the
// names that do exist.
func (c *Client) GetAgentByName(ctx context.Context, name string) (*types.AgentCard, error) {
	agents, err := c.ListAgents(ctx)
	if err != nil {
		return nil, err
	}

	known := make([]string, 0, len(agents))
	for _, card := range agents {
		if card.Name == name || (card.ID != "" && card.ID == name) {
			return card, nil
		}
		known = append(known, card.Name)
	}
	return nil, &types.AgentNotFoundError{Name: name, Known: known}
}

// Coordinator finds the registry's coordination fallback: the first agent
// whose card carries the coordinator capability. It returns nil with no
// error when the registry has no coordinator, so callers can fall through
// their own resolution chain.
func (c *Client) Coordinator(ctx context.Context) (*types.AgentCard, error) {
	agents, err := c.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	for _, card := range agents {
		if card.Capabilities.Coordinator {
			return card, nil
		}
	}
	return nil, nil
}
