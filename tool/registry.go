// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/types"
)

// Registry holds the tools available to one execution. Registration order
// is preserved so tool declarations reach the model deterministically.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	names []string
	tools map[string]types.Tool
}

// NewRegistry creates an empty registry, registering any given tools.
// Duplicate names panic; use [Registry.Register] for error handling.
func NewRegistry(tools ...types.Tool) *Registry {
	r := &Registry{
		tools: make(map[string]types.Tool, len(tools)),
	}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a tool. Registering a name twice is an error.
func (r *Registry) Register(t types.Tool) error {
	if t == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	r.names = append(r.names, name)
	return nil
}

// Get returns the named tool and whether it is registered.
func (r *Registry) Get(name string) (types.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.names)
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}

// Declarations returns the function declarations of all registered tools
// in registration order.
func (r *Registry) Declarations() []*genai.FunctionDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]*genai.FunctionDeclaration, 0, len(r.names))
	for _, name := range r.names {
		decls = append(decls, r.tools[name].GetDeclaration())
	}
	return decls
}

// Clone returns a new registry with the same tools. Executions that bind
// per-run tools extend a clone rather than the shared base set.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Registry{
		names: slices.Clone(r.names),
		tools: make(map[string]types.Tool, len(r.tools)),
	}
	for name, t := range r.tools {
		clone.tools[name] = t
	}
	return clone
}

// Run validates args against the named tool's schema and dispatches.
// Unknown tools, missing required arguments, unknown arguments and type
// mismatches are rejected before the tool body runs.
func (r *Registry) Run(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("tool %q not registered", name)
	}
	if err := validateArgs(t.GetDeclaration(), args); err != nil {
		return "", fmt.Errorf("tool %q: %w", name, err)
	}
	return t.Run(ctx, args)
}

// validateArgs checks args against the declaration's parameter schema.
// A declaration without parameters accepts only an empty argument map.
func validateArgs(decl *genai.FunctionDeclaration, args map[string]any) error {
	var schema *genai.Schema
	if decl != nil {
		schema = decl.Parameters
	}
	if schema == nil {
		if len(args) > 0 {
			return fmt.Errorf("takes no arguments, got %d", len(args))
		}
		return nil
	}

	for _, required := range schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("missing required argument %q", required)
		}
	}

	for name, value := range args {
		prop, ok := schema.Properties[name]
		if !ok {
			return fmt.Errorf("unknown argument %q", name)
		}
		if err := validateType(prop, value); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}
	return nil
}

// validateType checks one argument value against its property schema.
// Integer properties accept whole float64 values: JSON decoding yields
// float64 for every number.
func validateType(prop *genai.Schema, value any) error {
	if value == nil {
		if prop.Nullable != nil && *prop.Nullable {
			return nil
		}
		return fmt.Errorf("must not be null")
	}

	switch prop.Type {
	case genai.TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case genai.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case genai.TypeInteger:
		switch v := value.(type) {
		case int, int32, int64:
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
	case genai.TypeNumber:
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case genai.TypeArray:
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	case genai.TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	}
	return nil
}

// ToInt coerces a validated integer argument to int, defaulting when the
// argument is absent. Tool bodies use it to read optional counts.
func ToInt(args map[string]any, name string, def int) int {
	value, ok := args[name]
	if !ok {
		return def
	}
	switch v := value.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// ToString coerces a validated string argument, defaulting when absent.
func ToString(args map[string]any, name, def string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return def
}
