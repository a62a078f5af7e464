// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package llm is a minimal text-completion client for the language models
// used by relevance scoring. Each backend turns one prompt into one reply
// over plain HTTPS; retries, breakers and fallbacks live with the caller.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrNotConfigured is returned by New when no backend or key is set.
	ErrNotConfigured = errors.New("llm: not configured")

	// ErrEmptyResponse means the backend answered without any text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// StatusError is a non-200 reply from a backend.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Client completes a single prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend and model, e.g. "claude/claude-haiku-4-5".
	Name() string
}

// Config selects and configures a backend.
type Config struct {
	Provider   string // claude, openai or gemini
	Model      string
	APIKey     string
	BaseURL    string // overrides the provider's public endpoint
	MaxTokens  int
	HTTPClient *http.Client
}

var defaultModels = map[string]string{
	"claude": "claude-haiku-4-5-20251001",
	"openai": "gpt-4o-mini",
	"gemini": "gemini-2.0-flash",
}

var defaultBaseURLs = map[string]string{
	"claude": "https://api.anthropic.com",
	"openai": "https://api.openai.com",
	"gemini": "https://generativelanguage.googleapis.com",
}

// New builds the client for cfg.Provider.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" || cfg.Provider == "" || cfg.Provider == "none" {
		return nil, ErrNotConfigured
	}
	if _, ok := defaultModels[cfg.Provider]; !ok {
		return nil, fmt.Errorf("unknown llm provider %q (valid: claude, openai, gemini)", cfg.Provider)
	}

	b := base{
		provider:  cfg.Provider,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		maxTokens: cfg.MaxTokens,
		client:    cfg.HTTPClient,
	}
	if b.model == "" {
		b.model = defaultModels[cfg.Provider]
	}
	if b.baseURL == "" {
		b.baseURL = defaultBaseURLs[cfg.Provider]
	}
	if b.maxTokens <= 0 {
		b.maxTokens = 16
	}
	if b.client == nil {
		b.client = &http.Client{Timeout: 30 * time.Second}
	}

	switch cfg.Provider {
	case "claude":
		return &claudeClient{b}, nil
	case "openai":
		return &openaiClient{b}, nil
	default:
		return &geminiClient{b}, nil
	}
}

type base struct {
	provider  string
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func (b *base) Name() string { return b.provider + "/" + b.model }

// post sends body as JSON and decodes a 200 reply into out.
func (b *base) post(ctx context.Context, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", b.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s API error: %w", b.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Provider: b.provider, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", b.provider, err)
	}
	return nil
}

// --- Claude ---

type claudeClient struct{ base }

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	var cr claudeResponse
	err := c.post(ctx, c.baseURL+"/v1/messages", map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}, claudeRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	}, &cr)
	if err != nil {
		return "", err
	}
	if len(cr.Content) == 0 || strings.TrimSpace(cr.Content[0].Text) == "" {
		return "", ErrEmptyResponse
	}
	return cr.Content[0].Text, nil
}

// --- OpenAI ---

type openaiClient struct{ base }

type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiClient) Complete(ctx context.Context, prompt string) (string, error) {
	var or openaiResponse
	err := o.post(ctx, o.baseURL+"/v1/chat/completions", map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}, openaiRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages:  []openaiMessage{{Role: "user", Content: prompt}},
	}, &or)
	if err != nil {
		return "", err
	}
	if len(or.Choices) == 0 || strings.TrimSpace(or.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return or.Choices[0].Message.Content, nil
}

// --- Gemini ---

type geminiClient struct{ base }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
	req.GenerationConfig.MaxOutputTokens = g.maxTokens

	var gr geminiResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	if err := g.post(ctx, url, map[string]string{"x-goog-api-key": g.apiKey}, req, &gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := gr.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
