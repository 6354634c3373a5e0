package main

import (
	"context"
	"fmt"

	"github.com/aktagon/llmkit/anthropic/agents"
)

// AnthropicSummarizer is the alternative enrichment provider, backed by an
// llmkit chat agent with a structured-output schema so responses arrive as the
// enrichment JSON object directly.
type AnthropicSummarizer struct {
	agent       *agents.ChatAgent
	schema      string
	maxTokens   int
	temperature float64
}

// NewAnthropicSummarizer creates the Anthropic provider from configuration.
func NewAnthropicSummarizer(cfg *Config) (*AnthropicSummarizer, error) {
	if cfg.Credentials.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	agent, err := agents.New(cfg.Credentials.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("creating enrichment agent: %w", err)
	}

	return &AnthropicSummarizer{
		agent:       agent,
		schema:      cfg.GetEnrichmentSchema(),
		maxTokens:   cfg.Settings.Enrichment.MaxOutputTokens,
		temperature: cfg.Settings.Enrichment.Temperature,
	}, nil
}

// Summarize sends one prompt and returns the agent's structured response text.
func (a *AnthropicSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	response, err := a.agent.Chat(prompt, &agents.ChatOptions{
		Schema:      a.schema,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("enrichment agent chat: %w", err)
	}
	return response.Text, nil
}
