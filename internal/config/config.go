package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lovrom/hoard/internal/progress"
)

// Config defines configuration for the hoard CLI.
type Config struct {
	// StoreURL is the gocloud bucket URL holding the persisted index and
	// token documents.
	StoreURL string

	// Jobs overrides the default worker pool size. Zero selects the
	// automatic policy (1 for a single task, 4 otherwise).
	Jobs int

	// ChunkSize is the transfer streaming chunk size.
	ChunkSize int64

	// Quiet suppresses per-chunk progress output.
	Quiet bool
}

// Default returns a Config with sensible defaults. The store lives in a
// file:// bucket under the user's home directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		StoreURL:  "file://" + filepath.ToSlash(filepath.Join(home, ".hoard")) + "?create_dir=true",
		ChunkSize: 64 * 1024,
	}
}

// yamlConfig is used for YAML unmarshaling with string chunk size.
type yamlConfig struct {
	StoreURL  string `yaml:"store_url"`
	Jobs      int    `yaml:"jobs"`
	ChunkSize string `yaml:"chunk_size"`
	Quiet     bool   `yaml:"quiet"`
}

// LoadFromFile loads configuration from a YAML file, applied over defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.StoreURL != "" {
		cfg.StoreURL = yc.StoreURL
	}
	if yc.Jobs != 0 {
		cfg.Jobs = yc.Jobs
	}
	if yc.ChunkSize != "" {
		size, err := progress.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	cfg.Quiet = yc.Quiet

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the HOARD_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HOARD_STORE_URL"); v != "" {
		c.StoreURL = v
	}
	if v := os.Getenv("HOARD_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse HOARD_JOBS: %w", err)
		}
		c.Jobs = n
	}
	if v := os.Getenv("HOARD_CHUNK_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse HOARD_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("HOARD_QUIET"); v != "" {
		c.Quiet = v == "true" || v == "1"
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.StoreURL == "" {
		return errors.New("config: store_url is required")
	}
	if c.Jobs < 0 {
		return errors.New("config: jobs must not be negative")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	return nil
}
