// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-json-experiment/json"
	"golang.org/x/sync/semaphore"

	"github.com/go-a2a/mantis/internal/pool"
	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/types"
)

// Server defaults.
const (
	// DefaultProcessingTimeout is the hard budget for processing one
	// message/send task.
	DefaultProcessingTimeout = 120 * time.Second

	// DefaultMaxConcurrent bounds the number of tasks processed at once.
	DefaultMaxConcurrent = 16
)

// processingTimeoutError is the status error recorded when a task exceeds
// its processing budget.
const processingTimeoutError = "Processing timed out after 120 seconds"

// ProcessFunc handles the query of one inbound message/send task and
// returns the response text.
type ProcessFunc func(ctx context.Context, contextID, query string) (string, error)

// Server serves the A2A protocol over HTTP: the JSON-RPC endpoint at "/",
// the agent card at [AgentCardPath] and a health probe at "/health".
//
// message/send responds with a task id immediately; the query is handed to
// the process function on a background goroutine bounded by a weighted
// semaphore and a hard processing timeout. Results are observed through
// tasks/get.
type Server struct {
	card    *types.AgentCard
	process ProcessFunc

	sem               *semaphore.Weighted
	processingTimeout time.Duration

	mu    sync.RWMutex
	tasks map[string]*Task

	wg       sync.WaitGroup
	baseCtx  context.Context
	stopBase context.CancelFunc
}

var _ http.Handler = (*Server)(nil)

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithMaxConcurrent bounds the number of concurrently processed tasks.
func WithMaxConcurrent(n int64) ServerOption {
	return func(s *Server) {
		s.sem = semaphore.NewWeighted(n)
	}
}

// WithProcessingTimeout sets the hard per-task processing budget.
func WithProcessingTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.processingTimeout = d
	}
}

// NewServer creates an A2A server advertising card and dispatching inbound
// queries to process.
//
// The card is normalized to the protocol defaults: protocol version,
// provider and streaming capability are filled in when unset.
func NewServer(card *types.AgentCard, process ProcessFunc, opts ...ServerOption) *Server {
	baseCtx, stopBase := context.WithCancel(context.Background())
	s := &Server{
		card:              normalizeCard(card),
		process:           process,
		sem:               semaphore.NewWeighted(DefaultMaxConcurrent),
		processingTimeout: DefaultProcessingTimeout,
		tasks:             make(map[string]*Task),
		baseCtx:           baseCtx,
		stopBase:          stopBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// normalizeCard fills protocol defaults into a copy of card.
func normalizeCard(card *types.AgentCard) *types.AgentCard {
	normalized := *card
	if normalized.ProtocolVersion == "" {
		normalized.ProtocolVersion = "0.2.5"
	}
	if normalized.Version == "" {
		normalized.Version = "1.0.0"
	}
	if normalized.Provider == nil {
		normalized.Provider = &types.AgentProvider{
			Organization: "Mantis AI",
			URL:          "https://mantis.ai",
		}
	}
	if len(normalized.DefaultInputModes) == 0 {
		normalized.DefaultInputModes = []string{"application/json"}
	}
	if len(normalized.DefaultOutputModes) == 0 {
		normalized.DefaultOutputModes = []string{"application/json"}
	}
	normalized.Capabilities.Streaming = false
	return &normalized
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == AgentCardPath:
		s.serveCard(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/health":
		s.serveHealth(w, r)
	case r.Method == http.MethodPost:
		s.serveRPC(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serveCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.MarshalWrite(w, s.card); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write agent card", slog.Any("error", err))
	}
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	taskCount := len(s.tasks)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.MarshalWrite(w, map[string]any{
		"status":    "healthy",
		"agent":     s.card.Name,
		"tasks":     taskCount,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write health response", slog.Any("error", err))
	}
}

func (s *Server) serveRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeResponse(w, r, NewErrorResponse(nil, CodeParseError, "failed to read request body"))
		return
	}

	var req Request
	if err := sonic.ConfigFastest.Unmarshal(body, &req); err != nil {
		s.writeResponse(w, r, NewErrorResponse(nil, CodeParseError, "failed to parse request"))
		return
	}
	if req.JSONRPC != JSONRPCVersion {
		s.writeResponse(w, r, NewErrorResponse(req.ID, CodeInvalidRequest, "unsupported jsonrpc version"))
		return
	}

	var resp *Response
	switch req.Method {
	case "message/send":
		resp = s.handleMessageSend(r.Context(), &req)
	case "tasks/get":
		resp = s.handleTasksGet(&req)
	default:
		resp = NewErrorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Unsupported method: %s", req.Method))
	}
	s.writeResponse(w, r, resp)
}

func (s *Server) writeResponse(w http.ResponseWriter, r *http.Request, resp *Response) {
	buf := pool.Buffer.Get()
	defer func() {
		buf.Reset()
		pool.Buffer.Put(buf)
	}()

	if err := json.MarshalWrite(buf, resp); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write response", slog.Any("error", err))
	}
}

// handleMessageSend registers a pending task, kicks off background
// processing and returns the task id immediately.
func (s *Server) handleMessageSend(ctx context.Context, req *Request) *Response {
	var params MessageSendParams
	if err := sonic.ConfigFastest.Unmarshal(req.Params, &params); err != nil {
		return NewErrorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("invalid message/send params: %v", err))
	}
	if len(params.Message.Parts) == 0 {
		return NewErrorResponse(req.ID, CodeInvalidParams, "message carries no parts")
	}

	taskID := "task-" + types.RandomHex(12)
	contextID := "ctx-" + types.RandomHex(8)
	task := &Task{
		ID: taskID,
		Status: TaskStatus{
			State:     WireStatePending,
			Timestamp: time.Now().UTC(),
		},
		History: []Message{params.Message},
	}

	s.mu.Lock()
	s.tasks[taskID] = task
	s.mu.Unlock()

	logging.FromContext(ctx).InfoContext(ctx, "Accepted A2A message",
		slog.String("task_id", taskID),
		slog.String("message_id", params.Message.MessageID),
	)

	s.wg.Add(1)
	go s.processTask(taskID, contextID, params.Message.Text())

	resp, err := NewResponse(req.ID, &SendMessageResult{ID: taskID, ContextID: contextID})
	if err != nil {
		return NewErrorResponse(req.ID, CodeServerError, err.Error())
	}
	return resp
}

// processTask runs the process function for one task under the semaphore
// and the processing budget, then records the terminal state.
func (s *Server) processTask(taskID, contextID, query string) {
	defer s.wg.Done()

	if err := s.sem.Acquire(s.baseCtx, 1); err != nil {
		s.finishTask(taskID, WireStateFailed, "", err.Error())
		return
	}
	defer s.sem.Release(1)

	s.setState(taskID, WireStateRunning)

	ctx, cancel := context.WithTimeout(s.baseCtx, s.processingTimeout)
	defer cancel()

	result, err := s.process(ctx, contextID, query)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.finishTask(taskID, WireStateFailed, "", processingTimeoutError)
	case err != nil:
		s.finishTask(taskID, WireStateFailed, "", err.Error())
	default:
		s.finishTask(taskID, WireStateCompleted, result, "")
	}
}

func (s *Server) setState(taskID, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task, ok := s.tasks[taskID]; ok {
		task.Status.State = state
		task.Status.Timestamp = time.Now().UTC()
	}
}

func (s *Server) finishTask(taskID, state, result, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return
	}
	task.Status.State = state
	task.Status.Timestamp = time.Now().UTC()
	task.Status.Error = errMsg
	if state == WireStateCompleted {
		task.Result = result
		task.History = append(task.History, NewTextMessage("agent-"+types.RandomHex(8), string(types.RoleAgent), result))
	}
}

// handleTasksGet reports a task's status, history and result. Unknown ids
// answer with [CodeTaskNotFound].
func (s *Server) handleTasksGet(req *Request) *Response {
	var params TaskGetParams
	if err := sonic.ConfigFastest.Unmarshal(req.Params, &params); err != nil {
		return NewErrorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("invalid tasks/get params: %v", err))
	}

	s.mu.RLock()
	task, ok := s.tasks[params.ID]
	var snapshot Task
	if ok {
		snapshot = *task
		snapshot.History = append([]Message(nil), task.History...)
	}
	s.mu.RUnlock()

	if !ok {
		return NewErrorResponse(req.ID, CodeTaskNotFound, "Task not found")
	}

	resp, err := NewResponse(req.ID, &snapshot)
	if err != nil {
		return NewErrorResponse(req.ID, CodeServerError, err.Error())
	}
	return resp
}

// Shutdown stops accepting new background work and waits for in-flight
// task processing to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.stopBase()
		return nil
	case <-ctx.Done():
		s.stopBase()
		return ctx.Err()
	}
}
