package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/YanFonsecaz/SiteAI/internal/config"
	"github.com/YanFonsecaz/SiteAI/internal/log"
	"github.com/YanFonsecaz/SiteAI/internal/model"
	"github.com/YanFonsecaz/SiteAI/internal/pipeline"
	"github.com/YanFonsecaz/SiteAI/internal/report"
	"github.com/spf13/cobra"
)

// apiKeyEnvVar is consulted when no API key is given by flag or file.
const apiKeyEnvVar = "OPENAI_API_KEY"

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [pillar-url] [satellite-url...]",
		Short: "Analyze a topic cluster for internal-link opportunities",
		Long: `Analyze fetches the pillar page and its satellite articles, classifies
each page, and proposes internal-link opportunities between them.

Pages can be given as positional arguments (pillar first, then
satellites) or via the --pillar and --satellites flags.

Each opportunity names an anchor phrase that already exists in the
source page's text, the sentence it appears in, and the target page it
should link to. Anchors are validated against the page text and DOM:
hallucinated phrases, placements inside existing links, and navigation
boilerplate are rejected.

Examples:
  # Satellites link toward the pillar (default mode)
  siteai analyze https://example.com/guide \
    https://example.com/post-a https://example.com/post-b

  # Same cluster via flags, both link directions
  siteai analyze --mode hybrid \
    --pillar https://example.com/guide \
    --satellites https://example.com/post-a,https://example.com/post-b

  # Markdown report written to a file
  siteai analyze --markdown -o report.md https://example.com/guide \
    https://example.com/post-a

  # Skip the headless-browser fetch tier
  siteai analyze --no-browser https://example.com/guide \
    https://example.com/post-a

The API key is read from --api-key, the config file, or the
` + apiKeyEnvVar + ` environment variable, in that order.`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Cluster flags
	cmd.Flags().StringP("pillar", "p", "",
		"Pillar page URL (alternative to the first positional argument)")
	cmd.Flags().StringSliceP("satellites", "s", nil,
		"Satellite page URLs, comma separated (alternative to positional arguments)")
	cmd.Flags().String("mode", string(model.ModeInlinks),
		"Link direction: inlinks, outlinks, or hybrid")
	cmd.Flags().IntP("max-anchors", "a", config.DefaultMaxAnchorsPerPage,
		"Maximum opportunities kept per source page")

	// Model service flags
	cmd.Flags().StringP("api-key", "k", "",
		"Model service API key (falls back to config file, then "+apiKeyEnvVar+")")
	cmd.Flags().String("model", config.DefaultModel,
		"Chat model for classification and anchor proposal")
	cmd.Flags().String("embedding-model", config.DefaultEmbeddingModel,
		"Embedding model for the vector index")
	cmd.Flags().String("base-url", "",
		"Model service base URL (default: the standard OpenAI endpoint)")

	// Fetch behavior flags
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Timeout for each fetch tier")
	cmd.Flags().Duration("model-timeout", config.DefaultModelTimeout,
		"Timeout for each model call")
	cmd.Flags().Duration("budget", config.DefaultOverallBudget,
		"Wall-clock budget for the whole run")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of pages processed concurrently")
	cmd.Flags().String("reader-proxy", config.DefaultReaderProxyURL,
		"Reader proxy prefix for the second fetch tier (\"off\" disables it)")
	cmd.Flags().Bool("no-browser", false,
		"Skip the headless-browser fetch tier")
	cmd.Flags().Bool("no-sanitizer", false,
		"Skip the model-based content sanitizer pass")

	// Storage flags
	cmd.Flags().String("db-dir", "",
		"Vector database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .siteai.yaml in current or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().Bool("csv", false,
		"Output CSV report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with secret masking
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalyze(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.PillarURL, err = cmd.Flags().GetString("pillar")
	if err != nil {
		return nil, err
	}

	cfg.SatelliteURLs, err = cmd.Flags().GetStringSlice("satellites")
	if err != nil {
		return nil, err
	}

	// Positional arguments fill in whatever the flags left empty:
	// the first argument is the pillar, the rest are satellites.
	if cfg.PillarURL == "" && len(args) > 0 {
		cfg.PillarURL = args[0]
		args = args[1:]
	}
	if len(cfg.SatelliteURLs) == 0 {
		cfg.SatelliteURLs = args
	}

	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode, err = model.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	cfg.MaxAnchorsPerPage, err = cmd.Flags().GetInt("max-anchors")
	if err != nil {
		return nil, err
	}

	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}

	cfg.Model, err = cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}

	cfg.EmbeddingModel, err = cmd.Flags().GetString("embedding-model")
	if err != nil {
		return nil, err
	}

	cfg.BaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("fetch-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ModelTimeout, err = cmd.Flags().GetDuration("model-timeout")
	if err != nil {
		return nil, err
	}

	cfg.OverallBudget, err = cmd.Flags().GetDuration("budget")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	readerProxy, err := cmd.Flags().GetString("reader-proxy")
	if err != nil {
		return nil, err
	}
	if readerProxy == "off" {
		cfg.ReaderProxyURL = ""
	} else {
		cfg.ReaderProxyURL = readerProxy
	}

	cfg.DisableBrowser, err = cmd.Flags().GetBool("no-browser")
	if err != nil {
		return nil, err
	}

	cfg.DisableSanitizer, err = cmd.Flags().GetBool("no-sanitizer")
	if err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Load the configuration file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Environment fallback for the API key, after flag and file.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(apiKeyEnvVar)
	}

	return cfg, nil
}

// runAnalyze executes the analysis.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"pillar", cfg.PillarURL,
		"satellites", len(cfg.SatelliteURLs),
		"mode", cfg.Mode,
		"batchSize", cfg.BatchSize,
	)

	analyzer, err := pipeline.NewAnalyzer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer func() {
		if err := analyzer.Close(); err != nil {
			logger.Error("failed to close analyzer", "error", err)
		}
	}()

	fmt.Printf("Analyzing cluster around %s (%d satellite pages)...\n",
		cfg.PillarURL, len(cfg.SatelliteURLs))
	startTime := time.Now()

	analyzeReport, runErr := analyzer.Run(ctx)
	if runErr == nil {
		fmt.Printf("Analysis completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))
	}

	// Partial results are still worth reporting, so the report is written
	// even when the run itself failed.
	if analyzeReport != nil {
		if err := outputReport(cfg, analyzeReport); err != nil {
			logger.Error("report failed", "pillar", cfg.PillarURL, "error", err)
			if runErr == nil {
				runErr = err
			}
		}
	}

	return runErr
}

// outputReport outputs the analysis report in the requested format.
func outputReport(cfg *config.Config, analyzeReport *model.AnalyzeReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report wrapped with the tool version)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(analyzeReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(analyzeReport)
		return err
	}

	// CSV output
	if cfg.CSVReport {
		writer := report.NewCSVWriter(output)
		_, err := writer.Write(analyzeReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(analyzeReport)
	return err
}
