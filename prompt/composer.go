// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-a2a/mantis/internal/pool"
)

// Strategy selects how module sections are combined into the final
// prompt.
type Strategy string

// StrategyBlended merges the persona foundation with the remaining
// sections in priority order, separated by blank lines.
const StrategyBlended Strategy = "blended"

// NoApplicableModules is the prompt emitted when no module contributes
// content for a context.
const NoApplicableModules = "# No applicable modules found for this context."

// ComposedPrompt is the result of one composition run.
type ComposedPrompt struct {
	// FinalPrompt is the assembled prompt text.
	FinalPrompt string `json:"finalPrompt"`

	// ModulesUsed names the modules that contributed content, highest
	// priority first.
	ModulesUsed []string `json:"modulesUsed,omitzero"`

	// Strategy is the combination strategy that produced the prompt.
	Strategy Strategy `json:"strategy,omitzero"`
}

// Composer assembles prompts from prioritized modules. The zero value is
// not usable; construct instances with [NewComposer].
//
// A Composer holds no per-execution state and may be shared across
// goroutines as long as each call gets its own [Context].
type Composer struct {
	modules []Module
	logger  *slog.Logger
}

// ComposerOption configures a [Composer].
type ComposerOption func(*Composer)

// WithComposerLogger sets the composer's logger.
func WithComposerLogger(logger *slog.Logger) ComposerOption {
	return func(p *Composer) {
		p.logger = logger
	}
}

// WithModules replaces the composer's module set. The default set is
// [CoreModules]; extend it with append:
//
//	prompt.NewComposer(prompt.WithModules(append(prompt.CoreModules(), custom)...))
func WithModules(modules ...Module) ComposerOption {
	return func(p *Composer) {
		p.modules = modules
	}
}

// NewComposer returns a composer with the core module set registered.
func NewComposer(opts ...ComposerOption) *Composer {
	p := &Composer{
		modules: CoreModules(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compose selects the applicable modules for c, renders them in priority
// order and blends the sections into one prompt. Modules rendering only
// whitespace are dropped; when nothing remains the prompt falls back to
// [NoApplicableModules].
func (p *Composer) Compose(ctx context.Context, c *Context) *ComposedPrompt {
	selected := make([]Module, 0, len(p.modules))
	for _, m := range p.modules {
		if m.Applicable == nil || m.Applicable(c) {
			selected = append(selected, m)
		}
	}
	slices.SortStableFunc(selected, func(a, b Module) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	names := make([]string, 0, len(selected))
	contents := make([]string, 0, len(selected))
	for _, m := range selected {
		content := strings.TrimSpace(m.Render(c))
		if content == "" {
			continue
		}
		names = append(names, m.Name)
		contents = append(contents, content)
	}

	final := blend(names, contents)
	p.logger.DebugContext(ctx, "Composed prompt",
		slog.Any("modules_used", names),
		slog.Int("prompt_length", len(final)),
	)

	return &ComposedPrompt{
		FinalPrompt: final,
		ModulesUsed: names,
		Strategy:    StrategyBlended,
	}
}

// blend starts from the persona foundation and appends the remaining
// sections in order, separated by blank lines. The persona section leads
// even when a custom module outranks it.
func blend(names, contents []string) string {
	if len(contents) == 0 {
		return NoApplicableModules
	}

	var persona string
	rest := make([]string, 0, len(contents))
	for i, content := range contents {
		if names[i] == "persona" && persona == "" {
			persona = content
			continue
		}
		rest = append(rest, content)
	}

	sb := pool.String.Get()
	sb.WriteString(persona)
	for _, content := range rest {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
	}
	out := sb.String()
	sb.Reset()
	pool.String.Put(sb)
	return out
}
