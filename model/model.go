// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"

	"google.golang.org/genai"
)

// Role represents the role of a participant in a conversation.
type Role = string

const (
	// RoleSystem is the role of the system.
	RoleSystem Role = "system"

	// RoleAssistant is the role of the assistant.
	RoleAssistant Role = "assistant"

	// RoleUser is the role of the user.
	RoleUser Role = genai.RoleUser

	// RoleModel is the role of the model.
	RoleModel Role = genai.RoleModel
)

// Model represents a generative AI model.
//
// Implementations are safe for concurrent use; each request is handled
// independently with proper context propagation.
type Model interface {
	// Name returns the name of the model.
	Name() string

	// GenerateContent generates content from the model.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)
}
