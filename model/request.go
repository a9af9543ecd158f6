// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// Request represents a request to a language model.
type Request struct {
	// Model optionally overrides the model name the provider was created
	// with.
	Model string `json:"model,omitempty"`

	// Contents is the conversation so far, oldest first.
	Contents []*genai.Content `json:"contents"`

	// Config carries generation parameters (temperature, max tokens, ...).
	Config *genai.GenerateContentConfig `json:"config,omitempty"`

	// SystemInstruction is the system prompt. Providers place it in their
	// native system slot rather than in the message list.
	SystemInstruction string `json:"systemInstruction,omitempty"`

	// Tools are the function declarations the model may call.
	Tools []*genai.FunctionDeclaration `json:"tools,omitempty"`
}

// NewRequest creates a new [Request] from conversation contents.
func NewRequest(contents ...*genai.Content) *Request {
	return &Request{
		Contents: contents,
	}
}

// WithModelName sets the model name override.
func (r *Request) WithModelName(name string) *Request {
	r.Model = name
	return r
}

// WithSystemInstruction sets the system prompt.
func (r *Request) WithSystemInstruction(instruction string) *Request {
	r.SystemInstruction = instruction
	return r
}

// WithConfig sets the generation configuration.
func (r *Request) WithConfig(config *genai.GenerateContentConfig) *Request {
	r.Config = config
	return r
}

// WithTools adds function declarations to the request.
func (r *Request) WithTools(tools ...*genai.FunctionDeclaration) *Request {
	r.Tools = append(r.Tools, tools...)
	return r
}

// AppendContent appends a conversation turn to the request.
func (r *Request) AppendContent(contents ...*genai.Content) *Request {
	r.Contents = append(r.Contents, contents...)
	return r
}

// ToJSON converts the request to a JSON string.
func (r *Request) ToJSON() (string, error) {
	data, err := sonic.ConfigFastest.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Request to JSON: %w", err)
	}
	return string(data), nil
}

// UserContent creates a new user content.
func UserContent(parts ...string) *genai.Content {
	contentParts := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		contentParts = append(contentParts, genai.NewPartFromText(part))
	}
	return &genai.Content{
		Role:  RoleUser,
		Parts: contentParts,
	}
}

// ModelContent creates a new model content.
func ModelContent(parts ...string) *genai.Content {
	contentParts := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		contentParts = append(contentParts, genai.NewPartFromText(part))
	}
	return &genai.Content{
		Role:  RoleModel,
		Parts: contentParts,
	}
}

// FunctionResponseContent creates a user content carrying a tool result for
// a prior function call.
func FunctionResponseContent(id, name, result string) *genai.Content {
	part := genai.NewPartFromFunctionResponse(name, map[string]any{"result": result})
	part.FunctionResponse.ID = id
	return &genai.Content{
		Role:  RoleUser,
		Parts: []*genai.Part{part},
	}
}
