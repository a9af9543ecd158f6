// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// TarotCard is one Major Arcana card.
type TarotCard struct {
	Number  int
	Name    string
	Meaning string
}

// MajorArcana is the full 22-card Major Arcana deck.
var MajorArcana = []TarotCard{
	{0, "The Fool", "New beginnings, innocence, spontaneity, free spirit"},
	{1, "The Magician", "Manifestation, resourcefulness, power, inspired action"},
	{2, "The High Priestess", "Intuition, sacred knowledge, divine feminine, subconscious"},
	{3, "The Empress", "Femininity, beauty, nature, nurturing, abundance"},
	{4, "The Emperor", "Authority, establishment, structure, father figure"},
	{5, "The Hierophant", "Spiritual wisdom, religious beliefs, conformity, tradition"},
	{6, "The Lovers", "Love, harmony, relationships, values alignment"},
	{7, "The Chariot", "Control, willpower, success, determination"},
	{8, "Strength", "Strength, courage, persuasion, influence, compassion"},
	{9, "The Hermit", "Soul searching, introspection, inner guidance"},
	{10, "Wheel of Fortune", "Good luck, karma, life cycles, destiny"},
	{11, "Justice", "Justice, fairness, truth, cause and effect"},
	{12, "The Hanged Man", "Suspension, restriction, letting go, sacrifice"},
	{13, "Death", "Endings, beginnings, change, transformation"},
	{14, "Temperance", "Balance, moderation, patience, purpose"},
	{15, "The Devil", "Shadow self, attachment, addiction, restriction"},
	{16, "The Tower", "Sudden change, upheaval, chaos, revelation"},
	{17, "The Star", "Hope, faith, purpose, renewal, spirituality"},
	{18, "The Moon", "Illusion, fear, anxiety, subconscious, intuition"},
	{19, "The Sun", "Positivity, fun, warmth, success, vitality"},
	{20, "Judgement", "Judgement, rebirth, inner calling, absolution"},
	{21, "The World", "Completion, accomplishment, travel, success"},
}

// Trigram is one I Ching trigram.
type Trigram struct {
	Symbol  string
	Name    string
	Meaning string
}

// Trigrams is the eight-trigram I Ching set.
var Trigrams = []Trigram{
	{"☰", "Heaven", "Creative force, leadership, strength, perseverance"},
	{"☷", "Earth", "Receptive, nurturing, yielding, supportive"},
	{"☵", "Water", "Danger, depth, flowing, adaptability"},
	{"☲", "Fire", "Clarity, brightness, illumination, passion"},
	{"☳", "Thunder", "Arousing, movement, initiative, shock"},
	{"☶", "Mountain", "Stillness, meditation, obstruction, waiting"},
	{"☴", "Wind", "Gentle penetration, influence, flexibility"},
	{"☱", "Lake", "Joyful, communication, reflection, pleasure"},
}

// spreadPositions names the slots of a multi-card reading in order.
var spreadPositions = []string{
	"Past",
	"Present",
	"Future",
	"Challenge",
	"Outcome",
	"Subconscious",
	"Environment",
	"Hopes/Fears",
	"Final Outcome",
	"Hidden Influence",
}

// SpreadPosition returns the name of slot i of a reading.
func SpreadPosition(i int) string {
	if i < len(spreadPositions) {
		return spreadPositions[i]
	}
	return fmt.Sprintf("Card %d", i+1)
}

// DrawnCard is one card drawn with a random orientation.
type DrawnCard struct {
	Card     TarotCard
	Inverted bool
}

// Diviner provides the randomness-backed divination tools. A Diviner is
// safe for concurrent use; the underlying source is guarded by a mutex.
type Diviner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDiviner creates a diviner drawing from rng. A nil rng gets a
// time-seeded source.
func NewDiviner(rng *rand.Rand) *Diviner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Diviner{rng: rng}
}

// DrawCardsWithOrientation draws count distinct cards from the Major
// Arcana, each with an independent random orientation. count is clamped to
// the deck size.
func (d *Diviner) DrawCardsWithOrientation(count int) []DrawnCard {
	d.mu.Lock()
	defer d.mu.Unlock()

	count = min(count, len(MajorArcana))
	perm := d.rng.Perm(len(MajorArcana))
	drawn := make([]DrawnCard, count)
	for i := range count {
		drawn[i] = DrawnCard{
			Card:     MajorArcana[perm[i]],
			Inverted: d.rng.Intn(2) == 1,
		}
	}
	return drawn
}

// rngPerm returns a random permutation of n indices.
func (d *Diviner) rngPerm(n int) []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Perm(n)
}

func (d *Diviner) intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(n)
}

// randRange returns a random integer in [lo, hi].
func (d *Diviner) randRange(lo, hi int) int {
	return lo + d.intn(hi-lo+1)
}

// sampleCards draws count distinct cards without orientation.
func (d *Diviner) sampleCards(count int) []TarotCard {
	d.mu.Lock()
	defer d.mu.Unlock()

	perm := d.rng.Perm(len(MajorArcana))
	cards := make([]TarotCard, count)
	for i := range count {
		cards[i] = MajorArcana[perm[i]]
	}
	return cards
}

// firstClause extracts the leading clause of a meaning, lowercased, for
// the guidance line.
func firstClause(meaning string) string {
	clause, _, _ := strings.Cut(strings.ToLower(meaning), ",")
	return strings.TrimSpace(clause)
}

// Tools returns the five divination tools backed by this diviner.
func (d *Diviner) Tools() []types.Tool {
	return []types.Tool{
		tool.New("get_random_number",
			"Generate a random number within the specified range.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"min_value": {Type: genai.TypeInteger, Description: "Minimum value (inclusive, default: 1)"},
					"max_value": {Type: genai.TypeInteger, Description: "Maximum value (inclusive, default: 100)"},
				},
			},
			func(_ context.Context, args map[string]any) (string, error) {
				minValue := tool.ToInt(args, "min_value", 1)
				maxValue := tool.ToInt(args, "max_value", 100)
				if minValue > maxValue {
					return fmt.Sprintf("Error: min_value (%d) cannot be greater than max_value (%d)", minValue, maxValue), nil
				}
				n := d.randRange(minValue, maxValue)
				return fmt.Sprintf("Random number between %d and %d: %d", minValue, maxValue, n), nil
			},
		),
		tool.New("draw_tarot_card",
			"Draw a random tarot card from the Major Arcana.",
			nil,
			func(_ context.Context, _ map[string]any) (string, error) {
				card := MajorArcana[d.intn(len(MajorArcana))]
				return fmt.Sprintf("🔮 **%s** (Card %d)\n**Meaning:** %s\n**Guidance:** This card suggests themes of %s.",
					card.Name, card.Number, card.Meaning, firstClause(card.Meaning)), nil
			},
		),
		tool.New("cast_i_ching_trigram",
			"Cast an I Ching trigram for divination.",
			nil,
			func(_ context.Context, _ map[string]any) (string, error) {
				trigram := Trigrams[d.intn(len(Trigrams))]
				return fmt.Sprintf("☯️ **%s** %s\n**Meaning:** %s\n**Insight:** The %s trigram indicates %s.",
					trigram.Name, trigram.Symbol, trigram.Meaning, trigram.Name, firstClause(trigram.Meaning)), nil
			},
		),
		tool.New("draw_multiple_tarot_cards",
			"Draw multiple tarot cards for complex readings.",
			&genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"count": {Type: genai.TypeInteger, Description: "Number of cards to draw (default: 3, max: 10)"},
				},
			},
			func(_ context.Context, args map[string]any) (string, error) {
				count := tool.ToInt(args, "count", 3)
				if count < 1 || count > 10 {
					return "Error: Card count must be between 1 and 10", nil
				}

				cards := d.sampleCards(min(count, len(MajorArcana)))

				var sb strings.Builder
				fmt.Fprintf(&sb, "🔮 **%d-Card Tarot Reading**\n\n", count)
				for i, card := range cards {
					fmt.Fprintf(&sb, "**%s: %s** (Card %d)\n", SpreadPosition(i), card.Name, card.Number)
					fmt.Fprintf(&sb, "   %s\n\n", card.Meaning)
				}
				return sb.String(), nil
			},
		),
		tool.New("flip_coin",
			"Flip a virtual coin for simple binary decisions.",
			nil,
			func(_ context.Context, _ map[string]any) (string, error) {
				result := "Heads"
				interpretation := "proceed with confidence"
				if d.intn(2) == 1 {
					result = "Tails"
					interpretation = "consider alternatives"
				}
				return fmt.Sprintf("🪙 **Coin Flip Result: %s**\n**Guidance:** The coin suggests to %s.", result, interpretation), nil
			},
		),
	}
}
