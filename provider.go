package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Summarizer is one enrichment provider: it takes a rendered prompt and returns
// the provider's free-form text response.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// NewSummarizer builds the configured enrichment provider.
func NewSummarizer(cfg *Config) (Summarizer, error) {
	switch cfg.Settings.Enrichment.Provider {
	case "gemini", "":
		return NewGeminiSummarizer(cfg)
	case "anthropic":
		return NewAnthropicSummarizer(cfg)
	default:
		return nil, fmt.Errorf("unknown enrichment provider: %q", cfg.Settings.Enrichment.Provider)
	}
}

// buildPrompt renders the summarization template. The template must carry both
// variables so a customized prompt cannot silently drop the content.
func buildPrompt(template, subject, text string) (string, error) {
	if !strings.Contains(template, "{{.text}}") {
		return "", fmt.Errorf("summarize prompt template must contain {{.text}} variable")
	}
	prompt := strings.ReplaceAll(template, "{{.subject}}", subject)
	prompt = strings.ReplaceAll(prompt, "{{.text}}", text)
	return prompt, nil
}

// truncateText bounds provider input length, cutting at a rune boundary so
// the truncated text stays valid UTF-8.
func truncateText(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

var (
	leadingFence  = regexp.MustCompile("^```(\\w+)?")
	trailingFence = regexp.MustCompile("```$")
)

// stripCodeFences removes surrounding markdown code fences so a fenced response
// parses the same as a bare one.
func stripCodeFences(text string) string {
	text = leadingFence.ReplaceAllString(strings.TrimSpace(text), "")
	text = trailingFence.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.TrimSpace(text)
}

// parseEnrichment decodes a provider response into an Enrichment. It tolerates
// code fences and surrounding prose; anything that still fails to decode
// returns an error for the caller to substitute defaults.
func parseEnrichment(raw string) (Enrichment, error) {
	clean := stripCodeFences(raw)

	var result Enrichment
	if err := json.Unmarshal([]byte(clean), &result); err == nil {
		result.Normalize()
		return result, nil
	}

	// Salvage a JSON object embedded in prose.
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(clean[start:end+1]), &result); err == nil {
			result.Normalize()
			return result, nil
		}
	}

	return Enrichment{}, fmt.Errorf("response is not valid enrichment JSON")
}

// enrichText is the single parse-with-fallback boundary around the provider: it
// truncates the input, calls the provider and always returns a total
// Enrichment. Provider failures are logged and replaced with defaults; they
// never propagate.
func enrichText(ctx context.Context, s Summarizer, template, subject, text string, maxChars int) Enrichment {
	prompt, err := buildPrompt(template, subject, truncateText(text, maxChars))
	if err != nil {
		log.Printf("✗ Error building enrichment prompt: %v", err)
		enrichmentCalls.WithLabelValues("error").Inc()
		return DefaultEnrichment()
	}

	debugLog("Enrichment prompt: %d chars", len(prompt))
	raw, err := s.Summarize(ctx, prompt)
	if err != nil {
		log.Printf("✗ Error calling enrichment provider: %v", err)
		enrichmentCalls.WithLabelValues("error").Inc()
		return DefaultEnrichment()
	}

	result, err := parseEnrichment(raw)
	if err != nil {
		log.Printf("✗ Enrichment response was not valid JSON: %.200s", raw)
		enrichmentCalls.WithLabelValues("unparseable").Inc()
		return DefaultEnrichment()
	}

	debugLog("Enrichment response: %.200s", raw)
	enrichmentCalls.WithLabelValues("ok").Inc()
	return result
}
