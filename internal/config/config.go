package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// Default configuration values.
// These follow the behavior of the original analyzer where applicable.
const (
	// DefaultFetchTimeout bounds each fetch tier independently. Slow
	// origins are common; 30 seconds gives JS-heavy pages a fair chance
	// without stalling the whole batch.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultModelTimeout bounds a single model call. Structured-output
	// calls over long contexts routinely take tens of seconds.
	DefaultModelTimeout = 90 * time.Second

	// DefaultOverallBudget bounds the whole analysis run. Every stage
	// derives its context from this budget, so a stuck run cannot outlive it.
	DefaultOverallBudget = 5 * time.Minute

	// DefaultBatchSize is the number of source URLs processed concurrently
	// within one direction. Kept small so model-provider rate limits are
	// not tripped by a single run.
	DefaultBatchSize = 3

	// MaxBatchSize caps the concurrency a caller can request.
	MaxBatchSize = 32

	// DefaultMaxAnchorsPerPage is the opportunity budget per source page.
	DefaultMaxAnchorsPerPage = 3

	// DefaultMinContentLength is the tier-sufficiency threshold: cleaned
	// content shorter than this is treated as likely JS-rendered and
	// triggers escalation to the next fetch tier.
	DefaultMinContentLength = 500

	// DefaultMinMainContentLength is the minimum cleaned length an
	// article-like container must have to be chosen over the body.
	DefaultMinMainContentLength = 200

	// DefaultChunkSize is the chunk window in runes for embedding.
	DefaultChunkSize = 1200

	// DefaultChunkOverlap is the overlap between adjacent chunks.
	DefaultChunkOverlap = 200

	// DefaultSearchThreshold is the minimum similarity score a retrieved
	// chunk must reach; lower-scoring matches are discarded rather than
	// returned as low-confidence context.
	DefaultSearchThreshold = 0.75

	// DefaultReaderProxyURL is the prefix of the reader proxy used as the
	// second fetch tier. The target URL is appended verbatim.
	DefaultReaderProxyURL = "https://r.jina.ai/"

	// DefaultUserAgent is a browser-like User-Agent for the direct tier.
	// Plain bot agents get blocked or served consent walls far more often.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

	// DefaultModel is the chat model used for classification and anchor
	// proposal when the caller does not specify one.
	DefaultModel = "gpt-4o"

	// DefaultSanitizerModel is the cheaper model used for the optional
	// content-sanitizer pass.
	DefaultSanitizerModel = "gpt-4o-mini"

	// DefaultEmbeddingModel is the embedding model for the vector index.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// AppName is the application name used for XDG directory paths.
	AppName = "siteai"
)

// Config holds all options for one analysis run.
// It is populated from CLI flags and an optional YAML file, then passed
// through the application by value reference rather than global state.
type Config struct {
	// PillarURL is the pillar page of the cluster under analysis.
	PillarURL string

	// SatelliteURLs are the supporting pages. At least one is required.
	SatelliteURLs []string

	// Mode selects the link directions to compute.
	Mode model.Mode

	// MaxAnchorsPerPage caps the opportunities kept per source page.
	MaxAnchorsPerPage int

	// APIKey is the model-service credential. Supplied per run, never
	// read from a global; the secure log handler masks it.
	APIKey string

	// BaseURL overrides the model service endpoint. Empty means the
	// standard OpenAI endpoint.
	BaseURL string

	// Model is the chat model identifier.
	Model string

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string

	// FetchTimeout bounds each fetch tier.
	FetchTimeout time.Duration

	// ModelTimeout bounds each model call.
	ModelTimeout time.Duration

	// OverallBudget bounds the whole run's wall-clock time.
	OverallBudget time.Duration

	// BatchSize is the per-direction fetch/analyze concurrency, clamped
	// to [1, MaxBatchSize] by Validate.
	BatchSize int

	// ReaderProxyURL is the tier-2 reader proxy prefix. Empty disables
	// the reader tier.
	ReaderProxyURL string

	// DisableBrowser skips the tier-3 headless render. Useful where no
	// Chrome binary is available.
	DisableBrowser bool

	// DisableSanitizer skips the LLM content-sanitizer pass and keeps the
	// heuristic cleaner output as-is.
	DisableSanitizer bool

	// DBDir is the directory holding the vector-store SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// UserAgent is sent on direct fetches.
	UserAgent string

	// JSONReport, MarkdownReport, and CSVReport select the output format.
	// At most one may be set; the default is a human-readable summary.
	JSONReport     bool
	MarkdownReport bool
	CSVReport      bool

	// ReportFile is the output path. Empty writes to stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file path, when given.
	ConfigFilePath string

	// Verbose enables slog.LevelDebug output.
	Verbose bool
}

// NewConfig creates a Config with defaults. Many defaults are non-zero,
// so callers must start from this constructor rather than a zero value.
func NewConfig() *Config {
	return &Config{
		Mode:              model.ModeInlinks,
		MaxAnchorsPerPage: DefaultMaxAnchorsPerPage,
		Model:             DefaultModel,
		EmbeddingModel:    DefaultEmbeddingModel,
		FetchTimeout:      DefaultFetchTimeout,
		ModelTimeout:      DefaultModelTimeout,
		OverallBudget:     DefaultOverallBudget,
		BatchSize:         DefaultBatchSize,
		ReaderProxyURL:    DefaultReaderProxyURL,
		DBDir:             XDGDataDir(),
		UserAgent:         DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for the analyzer.
// On Linux: ~/.local/share/siteai.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the analyzer.
// On Linux: ~/.config/siteai.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// Called once after flag parsing, before any network activity.
func (c *Config) Validate() error {
	if c.PillarURL == "" {
		return ErrNoPillar
	}

	if len(c.SatelliteURLs) == 0 {
		return ErrNoSatellites
	}

	if _, err := model.ParseMode(string(c.Mode)); err != nil {
		return ErrInvalidMode
	}

	if c.MaxAnchorsPerPage <= 0 {
		return ErrInvalidMaxAnchors
	}

	if c.APIKey == "" {
		return ErrNoAPIKey
	}

	if c.FetchTimeout <= 0 || c.ModelTimeout <= 0 || c.OverallBudget <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.BatchSize > MaxBatchSize {
		c.BatchSize = MaxBatchSize
	}

	formats := 0
	for _, set := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
