// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools_test

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/tool/tools"
)

func seededRegistry(t *testing.T, seed int64) *tool.Registry {
	t.Helper()

	diviner := tools.NewDiviner(rand.New(rand.NewSource(seed)))
	return tool.NewRegistry(diviner.Tools()...)
}

func TestGetRandomNumber(t *testing.T) {
	t.Parallel()

	reg := seededRegistry(t, 1)
	ctx := context.Background()

	got, err := reg.Run(ctx, "get_random_number", map[string]any{"min_value": 5, "max_value": 5})
	if err != nil {
		t.Fatalf("get_random_number failed: %v", err)
	}
	if got != "Random number between 5 and 5: 5" {
		t.Errorf("result = %q", got)
	}

	got, err = reg.Run(ctx, "get_random_number", map[string]any{"min_value": 10, "max_value": 2})
	if err != nil {
		t.Fatalf("get_random_number failed: %v", err)
	}
	if got != "Error: min_value (10) cannot be greater than max_value (2)" {
		t.Errorf("result = %q", got)
	}

	// Defaults keep the result within [1, 100].
	got, err = reg.Run(ctx, "get_random_number", map[string]any{})
	if err != nil {
		t.Fatalf("get_random_number failed: %v", err)
	}
	if !strings.HasPrefix(got, "Random number between 1 and 100: ") {
		t.Errorf("result = %q", got)
	}
}

func TestDrawTarotCard(t *testing.T) {
	t.Parallel()

	reg := seededRegistry(t, 7)
	got, err := reg.Run(context.Background(), "draw_tarot_card", nil)
	if err != nil {
		t.Fatalf("draw_tarot_card failed: %v", err)
	}

	pattern := regexp.MustCompile(`^🔮 \*\*.+\*\* \(Card \d+\)\n\*\*Meaning:\*\* .+\n\*\*Guidance:\*\* This card suggests themes of .+\.$`)
	if !pattern.MatchString(got) {
		t.Errorf("result does not match reading format:\n%s", got)
	}
}

func TestCastIChingTrigram(t *testing.T) {
	t.Parallel()

	reg := seededRegistry(t, 7)
	got, err := reg.Run(context.Background(), "cast_i_ching_trigram", nil)
	if err != nil {
		t.Fatalf("cast_i_ching_trigram failed: %v", err)
	}
	if !strings.HasPrefix(got, "☯️ **") {
		t.Errorf("result = %q", got)
	}
	if !strings.Contains(got, "**Insight:** The ") {
		t.Errorf("result missing insight line:\n%s", got)
	}
}

func TestDrawMultipleTarotCards(t *testing.T) {
	t.Parallel()

	reg := seededRegistry(t, 42)
	ctx := context.Background()

	got, err := reg.Run(ctx, "draw_multiple_tarot_cards", map[string]any{"count": 3})
	if err != nil {
		t.Fatalf("draw_multiple_tarot_cards failed: %v", err)
	}
	if !strings.HasPrefix(got, "🔮 **3-Card Tarot Reading**\n\n") {
		t.Errorf("missing reading header:\n%s", got)
	}
	for _, position := range []string{"**Past: ", "**Present: ", "**Future: "} {
		if !strings.Contains(got, position) {
			t.Errorf("missing position %q:\n%s", position, got)
		}
	}

	// Cards are distinct.
	names := regexp.MustCompile(`\*\*\w[^:]*: ([^*]+)\*\*`).FindAllStringSubmatch(got, -1)
	seen := make(map[string]bool)
	for _, m := range names {
		if seen[m[1]] {
			t.Errorf("card %q drawn twice", m[1])
		}
		seen[m[1]] = true
	}

	got, err = reg.Run(ctx, "draw_multiple_tarot_cards", map[string]any{"count": 11})
	if err != nil {
		t.Fatalf("draw_multiple_tarot_cards failed: %v", err)
	}
	if got != "Error: Card count must be between 1 and 10" {
		t.Errorf("result = %q", got)
	}
}

func TestFlipCoin(t *testing.T) {
	t.Parallel()

	reg := seededRegistry(t, 3)
	got, err := reg.Run(context.Background(), "flip_coin", nil)
	if err != nil {
		t.Fatalf("flip_coin failed: %v", err)
	}
	headsForm := "🪙 **Coin Flip Result: Heads**\n**Guidance:** The coin suggests to proceed with confidence."
	tailsForm := "🪙 **Coin Flip Result: Tails**\n**Guidance:** The coin suggests to consider alternatives."
	if got != headsForm && got != tailsForm {
		t.Errorf("result = %q", got)
	}
}

func TestDrawCardsWithOrientation(t *testing.T) {
	t.Parallel()

	diviner := tools.NewDiviner(rand.New(rand.NewSource(9)))
	drawn := diviner.DrawCardsWithOrientation(5)
	if len(drawn) != 5 {
		t.Fatalf("drew %d cards, want 5", len(drawn))
	}
	seen := make(map[string]bool)
	for _, card := range drawn {
		if seen[card.Card.Name] {
			t.Errorf("card %q drawn twice", card.Card.Name)
		}
		seen[card.Card.Name] = true
	}

	// Clamped to deck size.
	if got := len(diviner.DrawCardsWithOrientation(50)); got != len(tools.MajorArcana) {
		t.Errorf("oversized draw returned %d cards, want %d", got, len(tools.MajorArcana))
	}
}

func TestSpreadPosition(t *testing.T) {
	t.Parallel()

	if got := tools.SpreadPosition(0); got != "Past" {
		t.Errorf("SpreadPosition(0) = %q, want Past", got)
	}
	if got := tools.SpreadPosition(9); got != "Hidden Influence" {
		t.Errorf("SpreadPosition(9) = %q, want Hidden Influence", got)
	}
	if got := tools.SpreadPosition(12); got != "Card 13" {
		t.Errorf("SpreadPosition(12) = %q, want Card 13", got)
	}
}
