package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSettingsFallsBackToEmbeddedDefaults(t *testing.T) {
	settings, err := loadSettings(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.Subreddit != "msp" {
		t.Errorf("subreddit = %q, want msp", settings.Subreddit)
	}
	if settings.SubjectProduct == "" {
		t.Error("embedded defaults must name a subject product")
	}
	if len(settings.Queries) == 0 {
		t.Error("embedded defaults must carry search queries")
	}
	if settings.Enrichment.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", settings.Enrichment.Provider)
	}
}

func TestLoadSettingsRequiredMissingFile(t *testing.T) {
	if _, err := loadSettings(filepath.Join(t.TempDir(), "absent.yaml"), true); err == nil {
		t.Fatal("loadSettings() expected error for a required missing file")
	}
}

func TestLoadSettingsSparseFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	sparse := "subreddit: sysadmin\nqueries:\n  - Defender\n"
	if err := os.WriteFile(path, []byte(sparse), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := loadSettings(path, true)
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	if settings.Subreddit != "sysadmin" {
		t.Errorf("subreddit = %q, want sysadmin", settings.Subreddit)
	}
	if settings.MaxPostsPerQuery != 100 || settings.CommentLimit != 10 {
		t.Errorf("limits = %d/%d, want defaults 100/10", settings.MaxPostsPerQuery, settings.CommentLimit)
	}
	if settings.Enrichment.MaxInputChars != 2000 {
		t.Errorf("max_input_chars = %d, want 2000", settings.Enrichment.MaxInputChars)
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("queries: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadSettings(path, true); err == nil {
		t.Fatal("loadSettings() expected error for malformed YAML")
	}
}

func TestRequireEnrichmentCredentials(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		creds    Credentials
		wantErr  bool
	}{
		{"gemini with key", "gemini", Credentials{GeminiAPIKey: "k"}, false},
		{"gemini without key", "gemini", Credentials{}, true},
		{"anthropic with key", "anthropic", Credentials{AnthropicAPIKey: "k"}, false},
		{"anthropic without key", "anthropic", Credentials{}, true},
		{"unknown provider", "llama", Credentials{GeminiAPIKey: "k"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &Settings{}
			settings.applyDefaults()
			settings.Enrichment.Provider = tt.provider

			cfg := &Config{Settings: settings, Credentials: tt.creds}
			err := cfg.RequireEnrichmentCredentials()
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireEnrichmentCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireRedditCredentials(t *testing.T) {
	cfg := &Config{Credentials: Credentials{}}
	if err := cfg.RequireRedditCredentials(); err == nil {
		t.Error("RequireRedditCredentials() expected error with no credentials")
	}

	cfg.Credentials = Credentials{
		RedditClientID:     "id",
		RedditClientSecret: "secret",
		RedditUserAgent:    "ua",
	}
	if err := cfg.RequireRedditCredentials(); err != nil {
		t.Errorf("RequireRedditCredentials() error = %v", err)
	}
}

func TestEmbeddedPromptHasTemplateVariables(t *testing.T) {
	cfg := &Config{}
	prompt := cfg.GetSummarizePrompt()

	for _, variable := range []string{"{{.subject}}", "{{.text}}"} {
		if !strings.Contains(prompt, variable) {
			t.Errorf("embedded prompt missing %s variable", variable)
		}
	}
}
