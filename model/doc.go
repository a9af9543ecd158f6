// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package model provides multi-provider LLM integration with a unified
// request/response shape and automatic model resolution.
//
// The package uses google.golang.org/genai content types as the common
// currency: providers convert to and from their native formats so callers
// compose requests once and run them against any registered model.
//
// # Model Registry
//
// Models are resolved using regex pattern matching:
//
//	// Claude models
//	claude-3-5-haiku-20241022
//	claude-3-7-sonnet-latest
//
//	// Gemini models
//	gemini-2.0-flash
//	projects/my-project/locations/us-central1/publishers/google/models/gemini-pro
//
// Model-spec strings may carry a provider prefix ("anthropic:claude-3-5-haiku-20241022");
// [SplitModelSpec] strips it before resolution.
//
// # Basic Usage
//
//	llm, err := model.NewLLM(ctx, apiKey, "claude-3-5-haiku-20241022")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	request := model.NewRequest(model.UserContent("What is the capital of France?")).
//		WithSystemInstruction("You are a helpful assistant")
//
//	response, err := llm.GenerateContent(ctx, request)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(response.Text())
//
// # Function Calling
//
// Requests carry [genai.FunctionDeclaration] tools; responses surface the
// model's calls through [Response.FunctionCalls]. Tool results flow back as
// [FunctionResponseContent] turns.
//
// # Custom Model Registration
//
//	model.RegisterLLMType(
//		[]string{`my-custom-model-.*`},
//		func(ctx context.Context, apiKey, modelName string) (model.Model, error) {
//			return NewCustomModel(ctx, apiKey, modelName)
//		},
//	)
package model
