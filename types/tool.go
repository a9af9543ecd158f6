// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"

	"google.golang.org/genai"
)

// Tool defines the interface that all tools must implement.
//
// Tools return strings: their output is fed back to the model verbatim
// as a function response.
type Tool interface {
	// Name returns the name of the tool.
	Name() string

	// Description returns the description of the tool.
	Description() string

	// GetDeclaration gets the schema of this tool in the form of a
	// [*genai.FunctionDeclaration].
	GetDeclaration() *genai.FunctionDeclaration

	// Run runs the tool with the given arguments and context.
	Run(ctx context.Context, args map[string]any) (string, error)
}
