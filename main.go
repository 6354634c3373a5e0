package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	settingsPath string
	promptPath   string
	apiKey       string
	listenAddr   string
	filterType   string
	filterAuthor string
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "threadpulse",
	Short: "Social-media sentiment pipeline for a security product",
	Long: `threadpulse collects subreddit posts about a configured product, enriches
every post and comment with LLM-derived sentiment and actionability labels, and
aggregates the results into an analysis report for a dashboard.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			SetDebugMode(true)
		}
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect raw posts and comments from the content source",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig()
		if err := cfg.RequireRedditCredentials(); err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		client := NewRedditClient(cfg.Credentials)
		ctx := context.Background()
		if err := client.Authenticate(ctx); err != nil {
			log.Fatalf("Reddit authentication failed: %v", err)
		}

		collector := NewCollector(client, cfg.Settings)
		if err := collector.RunAndSave(ctx); err != nil {
			log.Fatalf("Collection failed: %v", err)
		}
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Label collected posts and comments through the enrichment provider",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig()
		applyAPIKeyFlag(cfg)
		if err := cfg.RequireEnrichmentCredentials(); err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		provider, err := NewSummarizer(cfg)
		if err != nil {
			log.Fatalf("Failed to create enrichment provider: %v", err)
		}

		enricher := NewEnricher(provider, cfg)
		if err := enricher.Run(context.Background()); err != nil {
			log.Fatalf("Enrichment failed: %v", err)
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate enriched documents into the analysis report",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig()
		if err := RunAggregation(cfg.Settings); err != nil {
			log.Fatalf("Aggregation failed: %v", err)
		}
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the analysis report to the console",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig()
		if err := RunReport(cfg.Settings, filterType, filterAuthor); err != nil {
			log.Fatalf("Report failed: %v", err)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis report as a JSON API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig()
		if err := RunServer(cfg.Settings, listenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	},
}

// mustConfig builds the process configuration or exits.
func mustConfig() *Config {
	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if promptPath != "" {
		overrides.PromptPath = &promptPath
	}

	cfg, err := NewConfig(overrides)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// applyAPIKeyFlag lets --api-key override the environment for the configured
// enrichment provider.
func applyAPIKeyFlag(cfg *Config) {
	if apiKey == "" {
		return
	}
	switch cfg.Settings.Enrichment.Provider {
	case "anthropic":
		cfg.Credentials.AnthropicAPIKey = apiKey
	default:
		cfg.Credentials.GeminiAPIKey = apiKey
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a settings YAML file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	enrichCmd.Flags().StringVar(&promptPath, "prompt", "", "Path to a custom summarize prompt template")
	enrichCmd.Flags().StringVar(&apiKey, "api-key", "", "Enrichment provider API key (overrides environment)")

	reportCmd.Flags().StringVar(&filterType, "type", "", `Filter actionable items by type ("post" or "comment")`)
	reportCmd.Flags().StringVar(&filterAuthor, "author", "", "Filter actionable comments by author substring")

	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8787", "Listen address for the report API")

	rootCmd.AddCommand(collectCmd, enrichCmd, analyzeCmd, reportCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
