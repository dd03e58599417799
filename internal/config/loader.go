package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".siteai.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file schema. Every field is optional;
// CLI flags take precedence over file values.
type File struct {
	// APIKey is the model-service credential.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the model service endpoint.
	BaseURL string `yaml:"base_url"`

	// Model is the chat model identifier.
	Model string `yaml:"model"`

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `yaml:"embedding_model"`

	// ReaderProxy is the reader proxy prefix; "off" disables the tier.
	ReaderProxy string `yaml:"reader_proxy"`

	// FetchTimeout and ModelTimeout as Go duration strings ("45s").
	FetchTimeout string `yaml:"fetch_timeout"`
	ModelTimeout string `yaml:"model_timeout"`

	// BatchSize is the per-direction concurrency.
	BatchSize int `yaml:"batch_size"`

	// DBDir overrides the vector database directory.
	DBDir string `yaml:"db_dir"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file:
// 1. the explicit path, when given
// 2. .siteai.yaml in the current directory
// 3. .siteai.yaml in the XDG config directory
//
// Returns the path found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(p); err == nil {
		return p
	}

	return ""
}

// Apply merges file values into the config. Only fields the config still
// holds at their zero/default value are overwritten, so flags win.
func (f *File) Apply(cfg *Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = f.APIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Model != "" && cfg.Model == DefaultModel {
		cfg.Model = f.Model
	}
	if f.EmbeddingModel != "" && cfg.EmbeddingModel == DefaultEmbeddingModel {
		cfg.EmbeddingModel = f.EmbeddingModel
	}
	if f.ReaderProxy != "" && cfg.ReaderProxyURL == DefaultReaderProxyURL {
		if f.ReaderProxy == "off" {
			cfg.ReaderProxyURL = ""
		} else {
			cfg.ReaderProxyURL = f.ReaderProxy
		}
	}
	if f.BatchSize > 0 && cfg.BatchSize == DefaultBatchSize {
		cfg.BatchSize = f.BatchSize
	}
	if f.DBDir != "" && cfg.DBDir == XDGDataDir() {
		cfg.DBDir = f.DBDir
	}
	if f.FetchTimeout != "" && cfg.FetchTimeout == DefaultFetchTimeout {
		if d, err := time.ParseDuration(f.FetchTimeout); err == nil && d > 0 {
			cfg.FetchTimeout = d
		}
	}
	if f.ModelTimeout != "" && cfg.ModelTimeout == DefaultModelTimeout {
		if d, err := time.ParseDuration(f.ModelTimeout); err == nil && d > 0 {
			cfg.ModelTimeout = d
		}
	}
}
