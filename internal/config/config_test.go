package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	cfg := NewConfig()
	cfg.PillarURL = "https://x.test/guide"
	cfg.SatelliteURLs = []string{"https://x.test/post-a"}
	cfg.APIKey = "sk-test"
	return cfg
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		if err := validConfig().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing pillar",
			mutate:  func(c *Config) { c.PillarURL = "" },
			wantErr: ErrNoPillar,
		},
		{
			name:    "missing satellites",
			mutate:  func(c *Config) { c.SatelliteURLs = nil },
			wantErr: ErrNoSatellites,
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Mode = model.Mode("sideways") },
			wantErr: ErrInvalidMode,
		},
		{
			name:    "zero anchor budget",
			mutate:  func(c *Config) { c.MaxAnchorsPerPage = 0 },
			wantErr: ErrInvalidMaxAnchors,
		},
		{
			name:    "missing API key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: ErrNoAPIKey,
		},
		{
			name:    "zero fetch timeout",
			mutate:  func(c *Config) { c.FetchTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "conflicting report formats",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("oversized batch is clamped", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.BatchSize = 100
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BatchSize != MaxBatchSize {
			t.Errorf("expected batch size clamped to %d, got %d", MaxBatchSize, cfg.BatchSize)
		}
	})
}

// TestLoadConfigFile tests YAML file loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads and applies file values", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `api_key: sk-from-file
model: gpt-4-turbo
reader_proxy: "off"
batch_size: 5
fetch_timeout: 45s
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.APIKey != "sk-from-file" {
			t.Errorf("APIKey = %q", cfg.APIKey)
		}
		if cfg.Model != "gpt-4-turbo" {
			t.Errorf("Model = %q", cfg.Model)
		}
		if cfg.ReaderProxyURL != "" {
			t.Errorf("expected reader proxy disabled, got %q", cfg.ReaderProxyURL)
		}
		if cfg.BatchSize != 5 {
			t.Errorf("BatchSize = %d", cfg.BatchSize)
		}
		if cfg.FetchTimeout != 45*time.Second {
			t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
		}
	})

	t.Run("flags win over file values", func(t *testing.T) {
		t.Parallel()

		cf := &File{APIKey: "sk-from-file", BatchSize: 9}
		cfg := NewConfig()
		cfg.APIKey = "sk-from-flag"
		cfg.BatchSize = 7

		cf.Apply(cfg)

		if cfg.APIKey != "sk-from-flag" {
			t.Errorf("APIKey = %q, want flag value", cfg.APIKey)
		}
		if cfg.BatchSize != 7 {
			t.Errorf("BatchSize = %d, want flag value", cfg.BatchSize)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(":\nnot yaml: ["), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}
