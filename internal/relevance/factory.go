// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package relevance

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/wellspring/internal/breaker"
	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/llm"
	"github.com/tomtom215/wellspring/internal/logging"
)

// NewFromConfig builds the production scorer: the configured language model
// behind a breaker as primary, and the keyword scorer as fallback. With no
// model configured the returned scorer is keyword-only.
func NewFromConfig(cfg *config.ScoringConfig) (*FallbackScorer, error) {
	keywords := NewKeywordScorer(KeywordConfig{
		Primary:           cfg.Keywords.Primary,
		Secondary:         cfg.Keywords.Secondary,
		Therapeutic:       cfg.Keywords.Therapeutic,
		Irrelevant:        cfg.Keywords.Irrelevant,
		PrimaryWeight:     cfg.Keywords.PrimaryWeight,
		SecondaryWeight:   cfg.Keywords.SecondaryWeight,
		TherapeuticWeight: cfg.Keywords.TherapeuticWeight,
		Penalty:           cfg.Keywords.Penalty,
	})

	scorer := NewFallbackScorer(nil, keywords)
	if cfg.Timeout > 0 {
		scorer.Timeout = cfg.Timeout
	}

	if !cfg.AIEnabled() {
		logging.Info().Str("component", "relevance").Msg("No scoring model configured, using keyword scorer only")
		return scorer, nil
	}

	client, err := llm.New(llm.Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: scorer.Timeout},
	})
	if errors.Is(err, llm.ErrNotConfigured) {
		return scorer, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create scoring client: %w", err)
	}

	scorer.Primary = NewAIScorer(client, breaker.Settings{
		Failures: cfg.BreakerFailures,
		Cooldown: cfg.BreakerCooldown,
	})

	logging.Info().
		Str("component", "relevance").
		Str("model", client.Name()).
		Dur("timeout", scorer.Timeout).
		Msg("AI relevance scoring enabled with keyword fallback")
	return scorer, nil
}
