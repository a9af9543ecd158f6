// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// Web fetch limits.
const (
	// webFetchMaxBytes caps the bytes read from a fetched page.
	webFetchMaxBytes = 10 * 1024 * 1024

	// webFetchUserAgent identifies the fetcher.
	webFetchUserAgent = "Mantis-WebFetch/1.0"
)

// WebFetchTool returns the web_fetch_url tool. A nil hc gets a 30 second
// default client.
func WebFetchTool(hc *http.Client) types.Tool {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	return tool.New("web_fetch_url",
		"Fetch content from a web URL.",
		&genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"url": {Type: genai.TypeString, Description: "URL to fetch content from"},
			},
			Required: []string{"url"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			target := tool.ToString(args, "url", "")

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
			if err != nil {
				return fmt.Sprintf("Error fetching URL %s: %v", target, err), nil
			}
			req.Header.Set("User-Agent", webFetchUserAgent)

			resp, err := hc.Do(req)
			if err != nil {
				return fmt.Sprintf("Error fetching URL %s: %v", target, err), nil
			}
			defer resp.Body.Close()

			content, err := io.ReadAll(io.LimitReader(resp.Body, webFetchMaxBytes))
			if err != nil {
				return fmt.Sprintf("Error fetching URL %s: %v", target, err), nil
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Sprintf("Failed to fetch URL %s: HTTP %d", target, resp.StatusCode), nil
			}
			return fmt.Sprintf("Successfully fetched %d characters from %s (status: %d)",
				len(content), target, resp.StatusCode), nil
		},
	)
}

// SearchResult is one hit of a web search.
type SearchResult struct {
	Title string
	URL   string
	Body  string
}

// SearchProvider performs web searches on behalf of the web_search tool.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// DuckDuckGo searches through the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	hc       *http.Client
	endpoint string
}

// NewDuckDuckGo creates a DuckDuckGo search provider. A nil hc gets a 30
// second default client.
func NewDuckDuckGo(hc *http.Client) *DuckDuckGo {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &DuckDuckGo{hc: hc, endpoint: "https://html.duckduckgo.com/html/"}
}

var (
	ddgResultRe  = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	ddgSnippetRe = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// stripTags removes markup and unescapes entities from an HTML fragment.
func stripTags(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagRe.ReplaceAllString(fragment, "")))
}

// Search implements [SearchProvider].
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", webFetchUserAgent)

	resp, err := d.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: HTTP %d", resp.StatusCode)
	}
	page, err := io.ReadAll(io.LimitReader(resp.Body, webFetchMaxBytes))
	if err != nil {
		return nil, err
	}

	links := ddgResultRe.FindAllStringSubmatch(string(page), maxResults)
	snippets := ddgSnippetRe.FindAllStringSubmatch(string(page), maxResults)

	results := make([]SearchResult, 0, len(links))
	for i, link := range links {
		result := SearchResult{
			URL:   html.UnescapeString(link[1]),
			Title: stripTags(link[2]),
		}
		if i < len(snippets) {
			result.Body = stripTags(snippets[i][1])
		}
		results = append(results, result)
	}
	return results, nil
}

// WebSearchTool returns the web_search tool backed by provider. A nil
// provider gets the DuckDuckGo default.
func WebSearchTool(provider SearchProvider) types.Tool {
	if provider == nil {
		provider = NewDuckDuckGo(nil)
	}

	return tool.New("web_search",
		"Search the web for information.",
		&genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query":       {Type: genai.TypeString, Description: "Search query to look for"},
				"max_results": {Type: genai.TypeInteger, Description: "Maximum number of search results to return (default: 10)"},
			},
			Required: []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			query := tool.ToString(args, "query", "")
			maxResults := tool.ToInt(args, "max_results", 10)

			results, err := provider.Search(ctx, query, maxResults)
			if err != nil {
				return fmt.Sprintf("Error searching for '%s': %v", query, err), nil
			}
			if len(results) == 0 {
				return fmt.Sprintf("No results found for query: '%s'", query), nil
			}

			formatted := make([]string, 0, len(results))
			for i, result := range results {
				formatted = append(formatted, fmt.Sprintf("%d. **%s**\n   %s\n   %s",
					i+1, result.Title, result.URL, result.Body))
			}
			return fmt.Sprintf("Found %d results for '%s':\n\n%s",
				len(results), query, strings.Join(formatted, "\n\n")), nil
		},
	)
}
