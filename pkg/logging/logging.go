// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging carries a [*slog.Logger] through [context.Context] so that the
// orchestrator, executors and tools share one structured logger per request.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// contextKey is how we find [*slog.Logger] in a [context.Context].
type contextKey struct{}

// NewContext returns a new [context.Context], derived from ctx, which carries the provided [*slog.Logger].
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns a [slog.Logger] from ctx.
//
// If no [*slog.Logger] is found, this returns a JSON logger writing to stdout.
func FromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(contextKey{}); v != nil {
		return v.(*slog.Logger)
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// WithComponent returns a context whose logger is annotated with the component name.
//
// Components pass the returned context down so every record they emit carries
// the component attribute.
func WithComponent(ctx context.Context, component string) context.Context {
	return NewContext(ctx, FromContext(ctx).With(slog.String("component", component)))
}
