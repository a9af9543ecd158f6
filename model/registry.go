// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// init registers the built-in model types.
func init() {
	// Register Claude models
	RegisterLLMType(
		[]string{
			`claude-.*`, // General pattern for Claude models
		},
		func(ctx context.Context, apiKey string, modelName string) (Model, error) {
			return NewClaude(ctx, apiKey, modelName)
		},
	)

	// Register Google/Gemini models
	RegisterLLMType(
		[]string{
			`gemini-.*`,
			`projects\/.*\/locations\/.*\/publishers\/google\/models\/gemini-.*`,
		},
		func(ctx context.Context, apiKey string, modelName string) (Model, error) {
			return NewGemini(ctx, apiKey, modelName)
		},
	)
}

// ModelCreatorFunc is a function type that creates a model instance.
type ModelCreatorFunc func(ctx context.Context, apiKey string, modelName string) (Model, error)

// modelEntry represents a registry entry with a regex pattern and model
// creator function.
type modelEntry struct {
	pattern *regexp.Regexp
	creator ModelCreatorFunc
}

// LLMRegistry provides a registry for LLM models. It allows registering and
// resolving model implementations based on regex patterns.
type LLMRegistry struct {
	mu         sync.RWMutex
	registry   []modelEntry
	cacheSize  int
	modelCache map[string]ModelCreatorFunc
}

var (
	defaultRegistry *LLMRegistry
	once            sync.Once
)

// GetRegistry returns the singleton registry instance.
func GetRegistry() *LLMRegistry {
	once.Do(func() {
		defaultRegistry = NewLLMRegistry(32)
	})
	return defaultRegistry
}

// NewLLMRegistry creates a new LLM registry with the specified resolve cache
// size.
func NewLLMRegistry(cacheSize int) *LLMRegistry {
	return &LLMRegistry{
		registry:   make([]modelEntry, 0),
		cacheSize:  cacheSize,
		modelCache: make(map[string]ModelCreatorFunc),
	}
}

// RegisterLLM registers a model pattern with a creator function. If the
// pattern already exists, it will be updated with the new creator.
func (r *LLMRegistry) RegisterLLM(modelPattern string, creator ModelCreatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regex, err := regexp.Compile(modelPattern)
	if err != nil {
		slog.Warn("Failed to compile model pattern",
			slog.String("pattern", modelPattern),
			slog.Any("err", err),
		)
		return
	}

	for i, entry := range r.registry {
		if entry.pattern.String() == modelPattern {
			r.registry[i].creator = creator
			return
		}
	}

	r.registry = append(r.registry, modelEntry{
		pattern: regex,
		creator: creator,
	})
}

// ResolveLLM finds the appropriate model creator for the given model name.
// Uses regex pattern matching and caching for performance.
func (r *LLMRegistry) ResolveLLM(modelName string) (ModelCreatorFunc, error) {
	r.mu.RLock()
	if creator, ok := r.modelCache[modelName]; ok {
		r.mu.RUnlock()
		return creator, nil
	}

	var matchedCreator ModelCreatorFunc
	for _, entry := range r.registry {
		if entry.pattern.MatchString(modelName) {
			matchedCreator = entry.creator
			break
		}
	}
	r.mu.RUnlock()

	if matchedCreator == nil {
		return nil, fmt.Errorf("model %s not found", modelName)
	}

	r.mu.Lock()
	if len(r.modelCache) >= r.cacheSize {
		// Simple eviction strategy - clear cache when full
		r.modelCache = make(map[string]ModelCreatorFunc)
	}
	r.modelCache[modelName] = matchedCreator
	r.mu.Unlock()

	return matchedCreator, nil
}

// NewLLM creates a new LLM instance for the given model name. It resolves
// the appropriate model implementation and creates an instance.
func (r *LLMRegistry) NewLLM(ctx context.Context, apiKey string, modelName string) (Model, error) {
	_, name := SplitModelSpec(modelName)

	creator, err := r.ResolveLLM(name)
	if err != nil {
		return nil, err
	}

	return creator(ctx, apiKey, name)
}

// RegisterLLM is a convenience function to register a model pattern on the
// singleton registry.
func RegisterLLM(modelPattern string, creator ModelCreatorFunc) {
	GetRegistry().RegisterLLM(modelPattern, creator)
}

// RegisterLLMType registers multiple patterns for a single model creator.
func RegisterLLMType(patterns []string, creator ModelCreatorFunc) {
	registry := GetRegistry()
	for _, pattern := range patterns {
		registry.RegisterLLM(pattern, creator)
	}
}

// NewLLM is a convenience function to create a new LLM instance from the
// singleton registry.
func NewLLM(ctx context.Context, apiKey string, modelName string) (Model, error) {
	return GetRegistry().NewLLM(ctx, apiKey, modelName)
}

// SplitModelSpec splits a "provider:model" spec string into its provider
// and model name parts. Bare model names resolve through the pattern
// registry, so the provider part is optional and informational.
func SplitModelSpec(spec string) (provider, name string) {
	if i := strings.Index(spec, ":"); i >= 0 {
		return spec[:i], spec[i+1:]
	}
	return "", spec
}
