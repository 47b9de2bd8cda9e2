// ABOUTME: Centralized configuration for the equivocal tools
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/malbsmeyer/equivocal/internal/storage"
)

// Config holds all configuration for the scene engine
type Config struct {
	// Paths
	ModelPath   string
	MapPath     string
	CatalogPath string

	// Extraction settings
	SampleRate   int
	TrainWorkers int

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// OpenAI settings (narration only; everything works without a key)
	OpenAIKey  string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		ModelPath:    getEnv("EQUIVOCAL_MODEL_PATH", storage.DefaultModelPath()),
		MapPath:      getEnv("EQUIVOCAL_MAP_PATH", storage.DefaultMapPath()),
		CatalogPath:  getEnv("EQUIVOCAL_CATALOG_PATH", filepath.Join(storage.DataDir(), "catalog.db")),
		SampleRate:   getEnvInt("EQUIVOCAL_SAMPLE_RATE", 22050),
		TrainWorkers: getEnvInt("EQUIVOCAL_TRAIN_WORKERS", 4),
		CharmHost:    getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:  getEnv("EQUIVOCAL_CHARM_DB", "equivocal"),
		AutoSync:     getEnvBool("EQUIVOCAL_AUTO_SYNC", false),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		ChatModel:    getEnv("EQUIVOCAL_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:      getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:   getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:   getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("EQUIVOCAL_SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.TrainWorkers < 1 || c.TrainWorkers > 64 {
		return fmt.Errorf("EQUIVOCAL_TRAIN_WORKERS must be 1-64, got %d", c.TrainWorkers)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// HasNarration reports whether scene narration can be attempted at all.
func (c *Config) HasNarration() bool {
	return c.OpenAIKey != ""
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
