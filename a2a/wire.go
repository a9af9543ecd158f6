// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"time"

	"github.com/go-a2a/mantis/types"
)

// Wire task states. The wire uses lowercase names and collapses the
// submitted/working pair into pending/running.
const (
	WireStatePending   = "pending"
	WireStateRunning   = "running"
	WireStateCompleted = "completed"
	WireStateFailed    = "failed"
	WireStateCancelled = "cancelled"
)

// ToWireState maps an internal task state to its wire name.
func ToWireState(s types.TaskState) string {
	switch s {
	case types.TaskStateSubmitted:
		return WireStatePending
	case types.TaskStateWorking:
		return WireStateRunning
	case types.TaskStateCompleted:
		return WireStateCompleted
	case types.TaskStateFailed:
		return WireStateFailed
	case types.TaskStateCancelled:
		return WireStateCancelled
	default:
		return WireStateFailed
	}
}

// FromWireState maps a wire state name to the internal task state.
func FromWireState(s string) (types.TaskState, error) {
	switch s {
	case WireStatePending:
		return types.TaskStateSubmitted, nil
	case WireStateRunning:
		return types.TaskStateWorking, nil
	case WireStateCompleted:
		return types.TaskStateCompleted, nil
	case WireStateFailed:
		return types.TaskStateFailed, nil
	case WireStateCancelled:
		return types.TaskStateCancelled, nil
	default:
		return "", fmt.Errorf("unknown wire task state %q", s)
	}
}

// TerminalWireState reports whether the wire state names a terminal state.
func TerminalWireState(s string) bool {
	switch s {
	case WireStateCompleted, WireStateFailed, WireStateCancelled:
		return true
	default:
		return false
	}
}

// Part is the wire shape of one message part.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitzero"`
}

// Message is the wire shape of a conversational turn.
type Message struct {
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
	Kind      string `json:"kind"`
	MessageID string `json:"messageId"`
}

// Text returns the concatenated text content of the message.
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		out += p.Text
	}
	return out
}

// NewTextMessage creates a single-part text message with the given role.
func NewTextMessage(id, role, text string) Message {
	return Message{
		Role:      role,
		Parts:     []Part{{Kind: "text", Text: text}},
		Kind:      "message",
		MessageID: id,
	}
}

// MessageSendParams are the parameters of the message/send method.
type MessageSendParams struct {
	Message       Message        `json:"message"`
	Configuration map[string]any `json:"configuration,omitzero"`
}

// SendMessageResult is the immediate result of message/send: the id of the
// task that will carry the answer.
type SendMessageResult struct {
	ID        string `json:"id"`
	ContextID string `json:"contextId"`
}

// TaskGetParams are the parameters of the tasks/get method.
type TaskGetParams struct {
	ID string `json:"id"`
}

// TaskStatus is the wire shape of a task's status.
type TaskStatus struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitzero"`
}

// Task is the wire shape of a server-side task: its status, the message
// history and, once completed, the result text.
type Task struct {
	ID      string     `json:"id"`
	Status  TaskStatus `json:"status"`
	History []Message  `json:"history,omitzero"`
	Result  string     `json:"result,omitzero"`
}
