package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, 2, cfg.Concurrency)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 5.0, cfg.BaseDelaySeconds)
	require.Equal(t, 2000, cfg.ChunkSizeChars)
	require.Equal(t, 100, cfg.ChunkOverlapChars)
	require.NoError(t, cfg.Validate())
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
concurrency = 8
max_retries = 3
chunk_size_chars = 1500
provider = "openai"
model = "gpt-4o"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Concurrency)
	require.Equal(t, 3, cfg.MaxRetries)
	require.Equal(t, 1500, cfg.ChunkSizeChars)
	require.Equal(t, "openai", cfg.Provider)
	require.Equal(t, "gpt-4o", cfg.Model)

	// Unset options keep their defaults.
	require.Equal(t, 100, cfg.ChunkOverlapChars)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default().Concurrency, cfg.Concurrency)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency = ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
concurrency = 8
provider = "openai"
`), 0o644))

	t.Setenv(EnvConcurrency, "4")
	t.Setenv(EnvProvider, "gemini")
	t.Setenv(EnvModel, "gemini-2.0-flash")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Concurrency)
	require.Equal(t, "gemini", cfg.Provider)
	require.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestEnvInvalidConcurrencyIgnored(t *testing.T) {
	t.Setenv(EnvConcurrency, "not-a-number")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default().Concurrency, cfg.Concurrency)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative delay", func(c *Config) { c.BaseDelaySeconds = -1 }},
		{"zero chunk size", func(c *Config) { c.ChunkSizeChars = 0 }},
		{"negative overlap", func(c *Config) { c.ChunkOverlapChars = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestBaseDelay(t *testing.T) {
	cfg := Default()
	cfg.BaseDelaySeconds = 2.5
	require.Equal(t, 2500*time.Millisecond, cfg.BaseDelay())
}
