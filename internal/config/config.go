// Package config loads codelore configuration from defaults, an
// optional TOML file, and environment variables, in that order of
// precedence. Command-line flags are applied last by the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults for recognized options.
const (
	DefaultConcurrency       = 2
	DefaultMaxRetries        = 5
	DefaultBaseDelaySeconds  = 5.0
	DefaultChunkSizeChars    = 2000
	DefaultChunkOverlapChars = 100
)

// Environment variable names.
const (
	EnvProvider     = "CODELORE_ORACLE_PROVIDER"
	EnvModel        = "CODELORE_ORACLE_MODEL"
	EnvDBPath       = "CODELORE_DB_PATH"
	EnvConcurrency  = "CODELORE_CONCURRENCY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config holds all recognized options.
type Config struct {
	// Pipeline options
	Concurrency       int     `toml:"concurrency"`
	MaxRetries        int     `toml:"max_retries"`
	BaseDelaySeconds  float64 `toml:"base_delay_seconds"`
	ChunkSizeChars    int     `toml:"chunk_size_chars"`
	ChunkOverlapChars int     `toml:"chunk_overlap_chars"`

	// Oracle options
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`

	// Paths
	OutputPath string `toml:"output_path"`
	DBPath     string `toml:"db_path"`
}

// Default returns a config populated with default values.
func Default() Config {
	return Config{
		Concurrency:       DefaultConcurrency,
		MaxRetries:        DefaultMaxRetries,
		BaseDelaySeconds:  DefaultBaseDelaySeconds,
		ChunkSizeChars:    DefaultChunkSizeChars,
		ChunkOverlapChars: DefaultChunkOverlapChars,
		OutputPath:        filepath.Join("output", "extracted_knowledge.json"),
	}
}

// Load builds a Config from defaults, then the TOML file at path (if
// path is empty, ~/.codelore/config.toml is tried), then environment
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".codelore", "config.toml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Missing config file is fine; defaults apply.
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency = n
		}
	}
}

// Validate checks option ranges. Configuration errors are the only
// fatal errors discovered before the pipeline starts.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1, got %d", c.MaxRetries)
	}
	if c.BaseDelaySeconds <= 0 {
		return fmt.Errorf("base_delay_seconds must be > 0, got %v", c.BaseDelaySeconds)
	}
	if c.ChunkSizeChars < 1 {
		return fmt.Errorf("chunk_size_chars must be >= 1, got %d", c.ChunkSizeChars)
	}
	if c.ChunkOverlapChars < 0 {
		return fmt.Errorf("chunk_overlap_chars must be >= 0, got %d", c.ChunkOverlapChars)
	}
	return nil
}

// BaseDelay returns the retry base delay as a duration.
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds * float64(time.Second))
}
