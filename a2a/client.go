// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/oauth2"

	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/pkg/py/pyasyncio"
	"github.com/go-a2a/mantis/types"
)

// Client defaults. SendMessage returns immediately; completion is observed
// by polling tasks/get every PollInterval under the Timeout budget.
const (
	// DefaultPollInterval is the tasks/get polling cadence.
	DefaultPollInterval = 2 * time.Second

	// DefaultClientTimeout is the hard budget for waiting on a remote task.
	DefaultClientTimeout = 60 * time.Second
)

// AgentCardPath is the well-known path serving an agent's card.
const AgentCardPath = "/.well-known/agent.json"

// Client is an A2A protocol client. The zero value is not usable;
// construct instances with [NewClient].
//
// A Client holds no per-call state and is safe for concurrent use.
type Client struct {
	hc           *http.Client
	pollInterval time.Duration
	timeout      time.Duration
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

// WithPollInterval sets the tasks/get polling cadence.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithWaitTimeout sets the hard budget for [Client.WaitForCompletion].
func WithWaitTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates an A2A client with the default poll cadence and wait
// budget.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		hc:           &http.Client{Timeout: 30 * time.Second},
		pollInterval: DefaultPollInterval,
		timeout:      DefaultClientTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one JSON-RPC round trip against url and decodes the result
// into out.
func (c *Client) call(ctx context.Context, url, method string, params, out any) error {
	req, err := NewRequest(types.RandomHex(8), method, params)
	if err != nil {
		return err
	}
	body, err := sonic.ConfigFastest.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
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
	var resp Response
	if err := sonic.ConfigFastest.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return resp.DecodeResult(out)
}

// SendMessage posts a user message to the agent at url and returns the id
// of the remote task that will carry the answer.
func (c *Client) SendMessage(ctx context.Context, url, text string) (*SendMessageResult, error) {
	params := &MessageSendParams{
		Message: NewTextMessage("msg-"+types.RandomHex(12), string(types.RoleUser), text),
	}

	var result SendMessageResult
	if err := c.call(ctx, url, "message/send", params, &result); err != nil {
		return nil, fmt.Errorf("message/send: %w", err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "Sent A2A message",
		slog.String("url", url),
		slog.String("task_id", result.ID),
	)
	return &result, nil
}

// GetTask fetches the remote task's current status. An unknown task id
// surfaces as [types.TaskNotFoundError].
func (c *Client) GetTask(ctx context.Context, url, taskID string) (*Task, error) {
	var task Task
	if err := c.call(ctx, url, "tasks/get", &TaskGetParams{ID: taskID}, &task); err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) && rpcErr.Code == CodeTaskNotFound {
			return nil, &types.TaskNotFoundError{TaskID: taskID}
		}
		return nil, fmt.Errorf("tasks/get: %w", err)
	}
	return &task, nil
}

// WaitForCompletion polls the remote task until it reaches a terminal wire
// state, every poll interval, under the client's wait budget. Exceeding
// the budget returns a [*pyasyncio.TimeoutError].
func (c *Client) WaitForCompletion(ctx context.Context, url, taskID string) (*Task, error) {
	return pyasyncio.WaitFor(ctx, c.timeout, func(ctx context.Context) (*Task, error) {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			task, err := c.GetTask(ctx, url, taskID)
			if err != nil {
				return nil, err
			}
			if TerminalWireState(task.Status.State) {
				return task, nil
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	})
}

// AgentCard fetches the agent card served at the well-known path below
// url.
func (c *Client) AgentCard(ctx context.Context, url string) (*types.AgentCard, error) {
	cardURL := strings.TrimSuffix(url, "/") + AgentCardPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build agent card request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch agent card: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read agent card: %w", err)
	}
	var card types.AgentCard
	if err := sonic.ConfigFastest.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("decode agent card: %w", err)
	}
	return &card, nil
}
