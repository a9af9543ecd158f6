// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool provides the typed tool registry agents call into during
// direct execution.
//
// A tool is a named function paired with a [*genai.Schema] describing its
// arguments. The [Registry] validates model-supplied arguments against that
// schema before every dispatch, so malformed function calls never reach a
// tool body. Tools return strings: the output is fed back to the model
// verbatim as a function response.
//
// Creating and registering a tool:
//
//	t := tool.New("get_weather", "Get current weather for a location",
//		&genai.Schema{
//			Type: genai.TypeObject,
//			Properties: map[string]*genai.Schema{
//				"location": {Type: genai.TypeString, Description: "City name"},
//			},
//			Required: []string{"location"},
//		},
//		func(ctx context.Context, args map[string]any) (string, error) {
//			return fetchWeather(ctx, args["location"].(string))
//		},
//	)
//
//	reg := tool.NewRegistry()
//	if err := reg.Register(t); err != nil {
//		return err
//	}
//	out, err := reg.Run(ctx, "get_weather", map[string]any{"location": "Paris"})
package tool
