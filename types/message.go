// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"strings"
)

// Role identifies the author side of a [Message].
type Role string

const (
	// RoleUser marks a message authored by the requesting side.
	RoleUser Role = "user"

	// RoleAgent marks a message authored by an agent.
	RoleAgent Role = "agent"
)

// Part is one piece of message or artifact content. Only text parts are
// produced by the runtime; the Kind discriminator keeps the wire shape open
// for other part types.
type Part struct {
	// Kind discriminates the part payload. Always "text" today.
	Kind string `json:"kind"`

	// Text is the payload of a text part.
	Text string `json:"text,omitzero"`
}

// NewTextPart creates a text [Part].
func NewTextPart(text string) *Part {
	return &Part{Kind: "text", Text: text}
}

// Message is a single conversational turn attached to a [Task]. Messages
// are immutable once appended to a task history.
type Message struct {
	// MessageID is the unique message id, prefixed by its origin
	// ([MessagePrefixResponse], [MessagePrefixError], [MessagePrefixAgent]).
	MessageID string `json:"messageId"`

	// Role is the author side.
	Role Role `json:"role"`

	// ContextID is the conversation thread the message belongs to.
	ContextID string `json:"contextId,omitzero"`

	// TaskID is the task the message is attached to.
	TaskID string `json:"taskId,omitzero"`

	// Parts is the message content.
	Parts []*Part `json:"parts"`
}

// NewMessage creates a single-part text message.
func NewMessage(id string, role Role, text string) *Message {
	return &Message{
		MessageID: id,
		Role:      role,
		Parts:     []*Part{NewTextPart(text)},
	}
}

// Text returns the concatenated text content of the message.
func (m *Message) Text() string {
	if m == nil || len(m.Parts) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
