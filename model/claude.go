// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

const (
	// ClaudeDefaultModel is the default model name for [Claude].
	ClaudeDefaultModel = "claude-3-5-haiku-20241022"

	// ClaudeDefaultMaxTokens is the max_tokens sent when the request config
	// does not set one. The Anthropic API requires the field.
	ClaudeDefaultMaxTokens = 4096

	// EnvAnthropicAPIKey is the environment variable name for the Anthropic
	// API key.
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Claude represents a Claude Large Language Model.
type Claude struct {
	model           string
	anthropicClient anthropic.Client
}

var _ Model = (*Claude)(nil)

// NewClaude creates a new Claude LLM instance.
//
// When apiKey is empty the [EnvAnthropicAPIKey] environment variable is
// used; when modelName is empty [ClaudeDefaultModel] is used.
func NewClaude(ctx context.Context, apiKey, modelName string) (*Claude, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAnthropicAPIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("either apiKey arg or %q environment variable must be set", EnvAnthropicAPIKey)
		}
	}
	if modelName == "" {
		modelName = ClaudeDefaultModel
	}

	return &Claude{
		model:           modelName,
		anthropicClient: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

// Name implements [Model].
func (m *Claude) Name() string {
	return m.model
}

// GenerateContent implements [Model].
func (m *Claude) GenerateContent(ctx context.Context, request *Request) (*Response, error) {
	messages := make([]anthropic.MessageParam, 0, len(request.Contents))
	for _, content := range request.Contents {
		msg, err := contentToClaudeMessageParam(content)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	modelName := m.model
	if request.Model != "" {
		modelName = request.Model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		Messages:  messages,
		MaxTokens: ClaudeDefaultMaxTokens,
	}

	if config := request.Config; config != nil {
		if config.MaxOutputTokens > 0 {
			params.MaxTokens = int64(config.MaxOutputTokens)
		}
		if config.Temperature != nil {
			params.Temperature = anthropic.Float(float64(*config.Temperature))
		}
		if config.TopK != nil {
			params.TopK = anthropic.Int(int64(*config.TopK))
		}
		if config.TopP != nil {
			params.TopP = anthropic.Float(float64(*config.TopP))
		}
	}

	if len(request.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(request.Tools))
		for _, declaration := range request.Tools {
			toolUnion, err := functionDeclarationToToolParam(declaration)
			if err != nil {
				return nil, err
			}
			tools = append(tools, toolUnion)
		}
		params.Tools = tools
	}

	if request.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Text: request.SystemInstruction,
				Type: constant.ValueOf[constant.Text]().Default(),
			},
		}
	}

	message, err := m.anthropicClient.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude API error: %w", err)
	}

	return claudeMessageToResponse(message), nil
}

// functionDeclarationToToolParam converts a [genai.FunctionDeclaration] to
// the Anthropic tool parameter shape.
func functionDeclarationToToolParam(funcDeclaration *genai.FunctionDeclaration) (toolUnion anthropic.ToolUnionParam, err error) {
	if funcDeclaration.Name == "" {
		return toolUnion, errors.New("functionDeclaration name is empty")
	}

	inputSchemaProps := make(map[string]*genai.Schema)
	if params := funcDeclaration.Parameters; params != nil && params.Properties != nil {
		maps.Insert(inputSchemaProps, maps.All(params.Properties))
	}
	inputSchema := anthropic.ToolInputSchemaParam{
		Type:       constant.ValueOf[constant.Object]().Default(),
		Properties: inputSchemaProps,
	}

	toolUnion = anthropic.ToolUnionParamOfTool(inputSchema, funcDeclaration.Name)
	toolUnion.OfTool.Description = param.NewOpt(funcDeclaration.Description)

	return toolUnion, nil
}

var genAIRoles = []Role{
	RoleModel,
	RoleAssistant,
}

func asClaudeRole(role string) anthropic.MessageParamRole {
	if slices.Contains(genAIRoles, role) {
		return anthropic.MessageParamRoleAssistant
	}
	return anthropic.MessageParamRoleUser
}

var claudeStopReasons = []anthropic.StopReason{
	anthropic.StopReasonEndTurn,
	anthropic.StopReasonStopSequence,
	anthropic.StopReasonToolUse,
}

func claudeFinishReason(stopReason anthropic.StopReason) genai.FinishReason {
	if slices.Contains(claudeStopReasons, stopReason) {
		return genai.FinishReasonStop
	}

	if stopReason == anthropic.StopReasonMaxTokens {
		return genai.FinishReasonMaxTokens
	}

	return genai.FinishReasonUnspecified
}

func partToClaudeMessageBlock(part *genai.Part) (anthropic.ContentBlockParamUnion, error) {
	if part.Text != "" {
		params := anthropic.NewTextBlock(part.Text)
		params.OfText.Type = constant.ValueOf[constant.Text]().Default()
		return params, nil
	}

	if part.FunctionCall != nil {
		funcCall := part.FunctionCall
		if funcCall.Name == "" {
			return anthropic.ContentBlockParamUnion{}, errors.New("FunctionCall name is empty")
		}

		params := anthropic.NewToolUseBlock(funcCall.ID, funcCall.Args, funcCall.Name)
		params.OfToolUse.Type = constant.ValueOf[constant.ToolUse]().Default()
		return params, nil
	}

	if part.FunctionResponse != nil {
		funcResp := part.FunctionResponse
		if result, ok := funcResp.Response["result"]; ok {
			params := anthropic.NewToolResultBlock(funcResp.ID, fmt.Sprintf("%s", result), false)
			params.OfToolResult.Type = constant.ValueOf[constant.ToolResult]().Default()
			return params, nil
		}
	}

	return anthropic.ContentBlockParamUnion{}, fmt.Errorf("not supported yet %T part type", part)
}

// contentToClaudeMessageParam converts [*genai.Content] to
// [anthropic.MessageParam].
func contentToClaudeMessageParam(content *genai.Content) (msgParam anthropic.MessageParam, err error) {
	msgParam.Role = asClaudeRole(content.Role)

	msgParam.Content = make([]anthropic.ContentBlockParamUnion, 0, len(content.Parts))
	for _, part := range content.Parts {
		msgBlock, err := partToClaudeMessageBlock(part)
		if err != nil {
			return msgParam, err
		}
		msgParam.Content = append(msgParam.Content, msgBlock)
	}

	return msgParam, nil
}

func claudeContentBlockToPart(contentBlock anthropic.ContentBlockUnion) (*genai.Part, error) {
	switch cBlock := contentBlock.AsAny().(type) {
	case anthropic.TextBlock:
		return genai.NewPartFromText(cBlock.Text), nil

	case anthropic.ToolUseBlock:
		if cBlock.Input == nil {
			return nil, fmt.Errorf("input field must be non-nil: %#v", cBlock)
		}
		var args map[string]any
		if err := sonic.ConfigFastest.Unmarshal(cBlock.Input, &args); err != nil {
			return nil, fmt.Errorf("unmarshal ToolUseBlock input: %w", err)
		}
		part := genai.NewPartFromFunctionCall(cBlock.Name, args)
		part.FunctionCall.ID = cBlock.ID
		return part, nil

	case anthropic.ThinkingBlock, anthropic.RedactedThinkingBlock:
		return nil, fmt.Errorf("not supported yet converts %T content block", cBlock)
	}

	return nil, fmt.Errorf("unreachable: no variant present")
}

// claudeMessageToResponse converts an Anthropic message to a [Response],
// mapping the stop reason onto the genai finish-reason vocabulary.
func claudeMessageToResponse(message *anthropic.Message) *Response {
	parts := make([]*genai.Part, 0, len(message.Content))
	for _, mcontent := range message.Content {
		part, err := claudeContentBlockToPart(mcontent)
		if err != nil {
			continue
		}
		parts = append(parts, part)
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  RoleModel,
					Parts: parts,
				},
				FinishReason: claudeFinishReason(message.StopReason),
			},
		},
	}
	return FromGenerateContentResponse(resp)
}
