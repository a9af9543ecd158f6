// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"
)

const (
	// GeminiDefaultModel is the default model name for [Gemini].
	GeminiDefaultModel = "gemini-2.0-flash"

	// EnvGeminiAPIKey is the environment variable name for the Gemini API key.
	EnvGeminiAPIKey = "GEMINI_API_KEY"

	// EnvGoogleAPIKey is the environment variable name for the Google AI API
	// key, consulted after [EnvGeminiAPIKey].
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
)

// Gemini represents a Google Gemini Large Language Model.
type Gemini struct {
	model       string
	genAIClient *genai.Client
	logger      *slog.Logger
}

var _ Model = (*Gemini)(nil)

// NewGemini creates a new [Gemini] instance.
//
// When apiKey is empty the [EnvGeminiAPIKey] and [EnvGoogleAPIKey]
// environment variables are consulted in that order; when modelName is
// empty [GeminiDefaultModel] is used.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = GeminiDefaultModel
	}

	if apiKey == "" {
		apiKey = cmp.Or(os.Getenv(EnvGeminiAPIKey), os.Getenv(EnvGoogleAPIKey))
		if apiKey == "" {
			return nil, fmt.Errorf("either apiKey arg or %q or %q environment variable must be set", EnvGeminiAPIKey, EnvGoogleAPIKey)
		}
	}

	genAIClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		model:       modelName,
		genAIClient: genAIClient,
		logger:      slog.Default(),
	}, nil
}

// Name implements [Model].
func (m *Gemini) Name() string {
	return m.model
}

// appendUserContent checks if the last message is from the user and if not,
// appends a user message. The Gemini API requires the conversation to end
// with a user turn.
func (m *Gemini) appendUserContent(contents []*genai.Content) []*genai.Content {
	switch {
	case len(contents) == 0:
		return append(contents, &genai.Content{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				genai.NewPartFromText(`Handle the requests as specified in the System Instruction.`),
			},
		})

	case strings.ToLower(contents[len(contents)-1].Role) != genai.RoleUser:
		return append(contents, &genai.Content{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				genai.NewPartFromText(`Continue processing previous requests as instructed. Exit or provide a summary if no more outputs are needed.`),
			},
		})

	default:
		return contents
	}
}

// GenerateContent implements [Model].
func (m *Gemini) GenerateContent(ctx context.Context, request *Request) (*Response, error) {
	contents := m.appendUserContent(request.Contents)

	config := &genai.GenerateContentConfig{}
	if request.Config != nil {
		*config = *request.Config
	}
	if request.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(request.SystemInstruction)},
		}
	}
	if len(request.Tools) > 0 {
		config.Tools = append(config.Tools, &genai.Tool{
			FunctionDeclarations: request.Tools,
		})
	}

	modelName := cmp.Or(request.Model, m.model)

	response, err := m.genAIClient.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	m.logger.DebugContext(ctx, "response", buildResponseLog(response))

	return FromGenerateContentResponse(response), nil
}

const responseLogFmt = `
LLM Response:
-----------------------------------------------------------
Text:
%s
-----------------------------------------------------------
Function calls:
%s
-----------------------------------------------------------
`

func buildResponseLog(resp *genai.GenerateContentResponse) slog.Attr {
	functionCalls := resp.FunctionCalls()
	functionCallsText := make([]string, len(functionCalls))
	for i, funcCall := range functionCalls {
		functionCallsText[i] = fmt.Sprintf("name: %s, args: %s", funcCall.Name, funcCall.Args)
	}

	return slog.String("response", fmt.Sprintf(responseLogFmt, resp.Text(), strings.Join(functionCallsText, "\n")))
}
