// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package relevance

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/wellspring/internal/breaker"
	"github.com/tomtom215/wellspring/internal/llm"
	"github.com/tomtom215/wellspring/internal/metrics"
)

const rubricPrompt = `You are rating content for a mental health resource library.

Rate how relevant the following content is to mental health and emotional wellbeing on a scale from 0 to 100:

90-100: Highly relevant (directly about mental health, therapy, coping strategies, mindfulness or emotional wellbeing)
70-89: Moderately relevant (wellness, stress relief, sleep, relationships or self-care with a clear mental health angle)
50-69: Somewhat related (general health or lifestyle content that touches on mental wellbeing)
30-49: Tangentially related (mentions mental health only in passing)
0-29: Not relevant

Content about sports, politics, entertainment, celebrity gossip, finance or product promotion is not relevant unless it is primarily about mental health.

Title: %s
Description: %s

Respond with a single integer from 0 to 100 and nothing else.`

var (
	bareInteger  = regexp.MustCompile(`^-?\d+$`)
	anyInteger   = regexp.MustCompile(`-?\d+`)
	scaleMention = regexp.MustCompile(`(?i)\d+\s*(?:-|to)\s*\d+|out\s+of\s+\d+|/\s*\d+`)
)

// AIScorer grades items with a language model. Calls go through a circuit
// breaker so a failing model is skipped for the cooldown period; rejected
// calls surface as errors and the caller's fallback serves them.
type AIScorer struct {
	client llm.Client
	cb     *gobreaker.CircuitBreaker[string]
}

// NewAIScorer wraps client with the breaker described by settings.
func NewAIScorer(client llm.Client, settings breaker.Settings) *AIScorer {
	if settings.Name == "" {
		settings.Name = "scoring-" + strings.ReplaceAll(client.Name(), "/", "-")
	}
	return &AIScorer{
		client: client,
		cb:     breaker.New[string](settings),
	}
}

// Name identifies the backing model.
func (a *AIScorer) Name() string { return a.client.Name() }

// Score asks the model for a rating and parses it with ParseScore.
func (a *AIScorer) Score(ctx context.Context, title, description string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("ai score via %s: %w", a.client.Name(), err)
	}
	prompt := BuildPrompt(title, description)

	start := time.Now()
	reply, err := a.cb.Execute(func() (string, error) {
		reply, err := a.client.Complete(ctx, prompt)
		return reply, breaker.Classify(ctx, err)
	})
	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("ai score via %s: %w", a.client.Name(), err)
	}

	return ParseScore(reply)
}

// BuildPrompt renders the rubric for one item.
func BuildPrompt(title, description string) string {
	return fmt.Sprintf(rubricPrompt, strings.TrimSpace(title), strings.TrimSpace(description))
}

// ParseScore extracts the rating from reply. A bare integer is taken as is.
// Otherwise scale mentions such as "0-100", "0 to 100", "out of 100" and
// "/100" are ignored and the last remaining integer is the rating. A reply
// without one, or a rating outside [0,100], yields ErrUnparsableScore.
func ParseScore(reply string) (int, error) {
	match := strings.TrimSpace(reply)
	if !bareInteger.MatchString(match) {
		found := anyInteger.FindAllString(scaleMention.ReplaceAllString(match, " "), -1)
		if len(found) == 0 {
			return 0, fmt.Errorf("%w: no integer in %q", ErrUnparsableScore, truncateReply(reply))
		}
		match = found[len(found)-1]
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnparsableScore, err)
	}
	if n < MinScore || n > MaxScore {
		return 0, fmt.Errorf("%w: %d out of range", ErrUnparsableScore, n)
	}
	return n, nil
}

func truncateReply(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
