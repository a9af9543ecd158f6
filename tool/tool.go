// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/types"
)

// Func is the body of a tool. args have already been validated against the
// tool's schema when the call comes through a [Registry].
type Func func(ctx context.Context, args map[string]any) (string, error)

// funcTool binds a name, description and argument schema to a [Func].
type funcTool struct {
	name        string
	description string
	schema      *genai.Schema
	fn          Func
}

var _ types.Tool = (*funcTool)(nil)

// New creates a tool from an explicit name, description, argument schema
// and body. A nil schema declares a tool without arguments.
func New(name, description string, schema *genai.Schema, fn Func) types.Tool {
	return &funcTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// Name implements [types.Tool].
func (t *funcTool) Name() string {
	return t.name
}

// Description implements [types.Tool].
func (t *funcTool) Description() string {
	return t.description
}

// GetDeclaration implements [types.Tool].
func (t *funcTool) GetDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.schema,
	}
}

// Run implements [types.Tool].
func (t *funcTool) Run(ctx context.Context, args map[string]any) (string, error) {
	return t.fn(ctx, args)
}
