// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package relevance

import (
	"context"
	"strings"
	"unicode"
)

// KeywordConfig holds the keyword tiers and their weights.
type KeywordConfig struct {
	Primary     []string
	Secondary   []string
	Therapeutic []string
	Irrelevant  []string

	PrimaryWeight     int
	SecondaryWeight   int
	TherapeuticWeight int

	// Penalty is subtracted once when any irrelevant term matches.
	Penalty int
}

// DefaultKeywordConfig returns the built-in tables: +25 per primary term,
// +15 per secondary term, +20 per therapeutic term, and a flat 30 point
// penalty for off-topic content.
func DefaultKeywordConfig() KeywordConfig {
	return KeywordConfig{
		Primary: []string{
			"mental health", "anxiety", "depression", "stress", "mindfulness",
			"meditation", "therapy", "wellbeing", "well-being", "wellness",
			"self-care", "emotional", "psychology", "psychological", "trauma",
			"ptsd", "burnout", "panic", "resilience", "coping",
		},
		Secondary: []string{
			"sleep", "relaxation", "calm", "breathing", "support", "healing",
			"mood", "peace", "gratitude", "loneliness", "grief", "self-esteem",
			"motivation", "balance", "journaling", "affirmations",
		},
		Therapeutic: []string{
			"cbt", "cognitive behavioral", "dbt", "counseling", "counselling",
			"psychotherapy", "psychiatrist", "psychologist", "therapist",
			"treatment", "intervention", "clinical", "diagnosis", "medication",
			"antidepressant", "ssri", "mental illness", "bipolar", "ocd", "adhd",
		},
		Irrelevant: []string{
			"football", "soccer", "basketball", "baseball", "nfl", "nba",
			"election", "politics", "politician", "senate", "congress",
			"celebrity", "gossip", "box office", "red carpet", "stock market",
			"cryptocurrency", "bitcoin", "fashion week", "video game",
		},
		PrimaryWeight:     25,
		SecondaryWeight:   15,
		TherapeuticWeight: 20,
		Penalty:           30,
	}
}

// Merge returns c with every empty table or zero weight taken from d.
func (c KeywordConfig) Merge(d KeywordConfig) KeywordConfig {
	if len(c.Primary) == 0 {
		c.Primary = d.Primary
	}
	if len(c.Secondary) == 0 {
		c.Secondary = d.Secondary
	}
	if len(c.Therapeutic) == 0 {
		c.Therapeutic = d.Therapeutic
	}
	if len(c.Irrelevant) == 0 {
		c.Irrelevant = d.Irrelevant
	}
	if c.PrimaryWeight == 0 {
		c.PrimaryWeight = d.PrimaryWeight
	}
	if c.SecondaryWeight == 0 {
		c.SecondaryWeight = d.SecondaryWeight
	}
	if c.TherapeuticWeight == 0 {
		c.TherapeuticWeight = d.TherapeuticWeight
	}
	if c.Penalty == 0 {
		c.Penalty = d.Penalty
	}
	return c
}

// KeywordScorer is the deterministic fallback scorer. Each distinct term
// that appears as a whole word (or whole phrase) adds its tier weight, so
// "sad" never matches inside "crusade". The result is clipped to [0,100].
type KeywordScorer struct {
	primary     [][]string
	secondary   [][]string
	therapeutic [][]string
	irrelevant  [][]string
	cfg         KeywordConfig
}

// NewKeywordScorer compiles cfg's tables. Zero-valued fields fall back to
// DefaultKeywordConfig.
func NewKeywordScorer(cfg KeywordConfig) *KeywordScorer {
	cfg = cfg.Merge(DefaultKeywordConfig())
	return &KeywordScorer{
		primary:     compileTerms(cfg.Primary),
		secondary:   compileTerms(cfg.Secondary),
		therapeutic: compileTerms(cfg.Therapeutic),
		irrelevant:  compileTerms(cfg.Irrelevant),
		cfg:         cfg,
	}
}

// Score never fails and ignores ctx.
func (k *KeywordScorer) Score(_ context.Context, title, description string) (int, error) {
	return k.ScoreText(title, description), nil
}

// ScoreText is the pure scoring function behind Score.
func (k *KeywordScorer) ScoreText(title, description string) int {
	words := tokenize(title + " " + description)

	score := countMatches(words, k.primary)*k.cfg.PrimaryWeight +
		countMatches(words, k.secondary)*k.cfg.SecondaryWeight +
		countMatches(words, k.therapeutic)*k.cfg.TherapeuticWeight

	if countMatches(words, k.irrelevant) > 0 {
		score -= k.cfg.Penalty
	}
	return clamp(score)
}

// tokenize lower-cases s and splits it on anything that is not a letter or
// digit. "Self-Care" and "self care" both become ["self", "care"].
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func compileTerms(terms []string) [][]string {
	out := make([][]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		toks := tokenize(term)
		if len(toks) == 0 {
			continue
		}
		// "well-being" and "well being" are the same term once tokenized.
		key := strings.Join(toks, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, toks)
	}
	return out
}

// countMatches returns how many distinct terms occur in words.
func countMatches(words []string, terms [][]string) int {
	n := 0
	for _, term := range terms {
		if containsSequence(words, term) {
			n++
		}
	}
	return n
}

func containsSequence(words, term []string) bool {
	if len(term) > len(words) {
		return false
	}
outer:
	for i := 0; i <= len(words)-len(term); i++ {
		for j, t := range term {
			if words[i+j] != t {
				continue outer
			}
		}
		return true
	}
	return false
}
