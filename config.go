package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".threadpulse"

// Embedded configuration defaults, written out on first run.
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/summarize-prompt.md
var defaultSummarizePrompt string

//go:embed config/enrichment-output-schema.json
var enrichmentSchema string

// Settings is the YAML configuration surface: what to search, where to write,
// and how hard to lean on the providers.
type Settings struct {
	Subreddit        string   `yaml:"subreddit"`
	SubjectProduct   string   `yaml:"subject_product"`
	Queries          []string `yaml:"queries"`
	MaxPostsPerQuery int      `yaml:"max_posts_per_query"`
	CommentLimit     int      `yaml:"comment_limit"`
	Paths            struct {
		Raw      string `yaml:"raw"`
		Enriched string `yaml:"enriched"`
		Report   string `yaml:"report"`
	} `yaml:"paths"`
	Collector struct {
		PauseSeconds float64 `yaml:"pause_seconds"`
	} `yaml:"collector"`
	Enrichment struct {
		Provider        string  `yaml:"provider"`
		Model           string  `yaml:"model"`
		Temperature     float64 `yaml:"temperature"`
		MaxOutputTokens int     `yaml:"max_output_tokens"`
		MaxInputChars   int     `yaml:"max_input_chars"`
		PauseSeconds    float64 `yaml:"pause_seconds"`
	} `yaml:"enrichment"`
	Report struct {
		TopCompetitors int `yaml:"top_competitors"`
	} `yaml:"report"`
}

// Credentials are read from the environment (optionally via .env), never from
// the settings file.
type Credentials struct {
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	RedditUsername     string
	RedditPassword     string
	GeminiAPIKey       string
	AnthropicAPIKey    string
}

// ConfigOverrides holds file path overrides for embedded configuration.
type ConfigOverrides struct {
	SettingsPath *string
	PromptPath   *string
}

// Config is built once at process start and passed into each component.
type Config struct {
	Settings    *Settings
	Credentials Credentials
	Overrides   *ConfigOverrides
}

// NewConfig loads .env (when present), the settings file and credentials.
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	// Missing .env is fine; real environments export variables directly.
	_ = godotenv.Load()

	if err := ensureConfigExists(); err != nil {
		return nil, fmt.Errorf("ensuring config files exist: %w", err)
	}

	settingsPath := filepath.Join(defaultConfigDir, "settings.yaml")
	required := false
	if overrides != nil && overrides.SettingsPath != nil {
		settingsPath = *overrides.SettingsPath
		required = true
	}

	settings, err := loadSettings(settingsPath, required)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &Config{
		Settings:    settings,
		Credentials: loadCredentials(),
		Overrides:   overrides,
	}, nil
}

// GetSummarizePrompt returns the enrichment prompt template (override file or
// embedded default).
func (c *Config) GetSummarizePrompt() string {
	if c.Overrides != nil && c.Overrides.PromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.PromptPath); err == nil {
			return string(content)
		}
	}
	return defaultSummarizePrompt
}

// GetEnrichmentSchema returns the JSON schema used for structured provider output.
func (c *Config) GetEnrichmentSchema() string {
	return enrichmentSchema
}

// RequireRedditCredentials fails fast when the collector cannot authenticate.
func (c *Config) RequireRedditCredentials() error {
	cr := c.Credentials
	if cr.RedditClientID == "" || cr.RedditClientSecret == "" || cr.RedditUserAgent == "" {
		return fmt.Errorf("reddit credentials required: set REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET and REDDIT_USER_AGENT")
	}
	return nil
}

// RequireEnrichmentCredentials checks the key for the configured provider.
func (c *Config) RequireEnrichmentCredentials() error {
	switch c.Settings.Enrichment.Provider {
	case "gemini", "":
		if c.Credentials.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
	case "anthropic":
		if c.Credentials.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
	default:
		return fmt.Errorf("unknown enrichment provider: %q", c.Settings.Enrichment.Provider)
	}
	return nil
}

func loadCredentials() Credentials {
	return Credentials{
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		RedditUsername:     os.Getenv("REDDIT_USERNAME"),
		RedditPassword:     os.Getenv("REDDIT_PASSWORD"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// loadSettings reads the settings file. When required is false a missing file
// falls back to the embedded defaults.
func loadSettings(settingsPath string, required bool) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if required {
			return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
		}
		data = []byte(defaultSettings)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}
	settings.applyDefaults()

	return &settings, nil
}

// applyDefaults fills zero values so a sparse settings file still runs.
func (s *Settings) applyDefaults() {
	if s.Subreddit == "" {
		s.Subreddit = "msp"
	}
	if s.MaxPostsPerQuery <= 0 {
		s.MaxPostsPerQuery = 100
	}
	if s.CommentLimit <= 0 {
		s.CommentLimit = 10
	}
	if s.Paths.Raw == "" {
		s.Paths.Raw = "data/raw/posts.json"
	}
	if s.Paths.Enriched == "" {
		s.Paths.Enriched = "data/processed/enriched_posts.json"
	}
	if s.Paths.Report == "" {
		s.Paths.Report = "data/processed/analysis_report.json"
	}
	if s.Collector.PauseSeconds <= 0 {
		s.Collector.PauseSeconds = 1
	}
	if s.Enrichment.Provider == "" {
		s.Enrichment.Provider = "gemini"
	}
	if s.Enrichment.Model == "" {
		s.Enrichment.Model = "gemini-1.5-flash"
	}
	if s.Enrichment.MaxOutputTokens <= 0 {
		s.Enrichment.MaxOutputTokens = 400
	}
	if s.Enrichment.MaxInputChars <= 0 {
		s.Enrichment.MaxInputChars = 2000
	}
	if s.Enrichment.PauseSeconds <= 0 {
		s.Enrichment.PauseSeconds = 3
	}
	if s.Report.TopCompetitors <= 0 {
		s.Report.TopCompetitors = 10
	}
}

// ensureConfigExists creates the config directory and writes the default
// settings file on first run so users have something to edit.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsPath := filepath.Join(defaultConfigDir, "settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing default settings: %w", err)
		}
	}

	return nil
}
