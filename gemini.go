package main

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiSummarizer is the default enrichment provider, backed by the Google
// Gen AI SDK.
type GeminiSummarizer struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

// NewGeminiSummarizer creates the Gemini provider from configuration.
func NewGeminiSummarizer(cfg *Config) (*GeminiSummarizer, error) {
	if cfg.Credentials.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Credentials.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiSummarizer{
		client:          client,
		model:           cfg.Settings.Enrichment.Model,
		temperature:     float32(cfg.Settings.Enrichment.Temperature),
		maxOutputTokens: int32(cfg.Settings.Enrichment.MaxOutputTokens),
	}, nil
}

// Summarize sends one prompt and returns the raw text of the first candidate.
func (g *GeminiSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
