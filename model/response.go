// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"strings"

	"google.golang.org/genai"
)

// Response represents a response from a language model. It provides
// structured access to content, errors, and function calls from the model's
// response.
type Response struct {
	// Content is the content of the response.
	Content *genai.Content

	// ErrorCode is the error code if the response is an error. Code varies
	// by model.
	ErrorCode string

	// ErrorMessage is the error message if the response is an error.
	ErrorMessage string
}

// FromGenerateContentResponse creates a [Response] from a
// [*genai.GenerateContentResponse].
func FromGenerateContentResponse(resp *genai.GenerateContentResponse) *Response {
	response := &Response{}

	if resp == nil {
		response.ErrorCode = "UNKNOWN_ERROR"
		response.ErrorMessage = "Generate content response is nil."
		return response
	}

	switch {
	case len(resp.Candidates) > 0:
		candidate := resp.Candidates[0]
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			response.Content = candidate.Content
		} else {
			response.ErrorCode = string(candidate.FinishReason)
			response.ErrorMessage = candidate.FinishMessage
		}

	case resp.PromptFeedback != nil:
		blockReason := "UNKNOWN_BLOCK"
		blockMessage := "Content was blocked. Check prompt feedback for details."
		for _, rating := range resp.PromptFeedback.SafetyRatings {
			if rating.Blocked {
				blockReason = string(rating.Category)
				blockMessage = "Content was blocked due to safety concerns."
				break
			}
		}
		response.ErrorCode = blockReason
		response.ErrorMessage = blockMessage

	default:
		response.ErrorCode = "UNKNOWN_ERROR"
		response.ErrorMessage = "Unknown error in generate content response."
	}

	return response
}

// IsError returns true if the response contains an error.
func (r *Response) IsError() bool {
	return r.ErrorCode != "" || r.ErrorMessage != ""
}

// Text returns the concatenated text content of the response. Returns the
// empty string if no text content is available.
func (r *Response) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range r.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// FunctionCalls returns the function-call parts of the response, in order.
func (r *Response) FunctionCalls() []*genai.FunctionCall {
	if r == nil || r.Content == nil {
		return nil
	}

	var calls []*genai.FunctionCall
	for _, part := range r.Content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}
