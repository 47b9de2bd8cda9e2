// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if !strings.HasSuffix(cfg.ModelPath, "model.json") {
		t.Errorf("ModelPath = %s, want a model.json default", cfg.ModelPath)
	}
	if !strings.HasSuffix(cfg.MapPath, "semantic_map.yaml") {
		t.Errorf("MapPath = %s, want a semantic_map.yaml default", cfg.MapPath)
	}
	if !strings.HasSuffix(cfg.CatalogPath, "catalog.db") {
		t.Errorf("CatalogPath = %s, want a catalog.db default", cfg.CatalogPath)
	}
	if cfg.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", cfg.SampleRate)
	}
	if cfg.TrainWorkers != 4 {
		t.Errorf("TrainWorkers = %d, want 4", cfg.TrainWorkers)
	}
	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "equivocal" {
		t.Errorf("CharmDBName = %s, want equivocal", cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.HasNarration() {
		t.Error("HasNarration() = true without an API key")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	// Set custom environment variables
	os.Clearenv()
	os.Setenv("EQUIVOCAL_MODEL_PATH", "/data/custom_model.json")
	os.Setenv("EQUIVOCAL_MAP_PATH", "/data/custom_map.yaml")
	os.Setenv("EQUIVOCAL_CATALOG_PATH", "/data/runs.db")
	os.Setenv("EQUIVOCAL_SAMPLE_RATE", "44100")
	os.Setenv("EQUIVOCAL_TRAIN_WORKERS", "8")
	os.Setenv("CHARM_HOST", "custom.charm.sh")
	os.Setenv("EQUIVOCAL_CHARM_DB", "test_db")
	os.Setenv("EQUIVOCAL_AUTO_SYNC", "true")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("EQUIVOCAL_OPENAI_MODEL", "gpt-4")
	os.Setenv("OPENAI_TIMEOUT", "60s")
	os.Setenv("OPENAI_MAX_RETRIES", "5")
	os.Setenv("OPENAI_RETRY_DELAY", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify custom values
	if cfg.ModelPath != "/data/custom_model.json" {
		t.Errorf("ModelPath = %s, want /data/custom_model.json", cfg.ModelPath)
	}
	if cfg.MapPath != "/data/custom_map.yaml" {
		t.Errorf("MapPath = %s, want /data/custom_map.yaml", cfg.MapPath)
	}
	if cfg.CatalogPath != "/data/runs.db" {
		t.Errorf("CatalogPath = %s, want /data/runs.db", cfg.CatalogPath)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.TrainWorkers != 8 {
		t.Errorf("TrainWorkers = %d, want 8", cfg.TrainWorkers)
	}
	if cfg.CharmHost != "custom.charm.sh" {
		t.Errorf("CharmHost = %s, want custom.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if !cfg.HasNarration() {
		t.Error("HasNarration() = false with an API key set")
	}
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	os.Clearenv()
	os.Setenv("EQUIVOCAL_SAMPLE_RATE", "-1")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for a negative sample rate")
	}
}

func TestValidate_InvalidTrainWorkers(t *testing.T) {
	cfg := &Config{
		SampleRate:   22050,
		TrainWorkers: 0,
		MaxRetries:   3,
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for TrainWorkers < 1")
	}

	cfg.TrainWorkers = 100
	err = cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for TrainWorkers > 64")
	}
}

func TestValidate_InvalidMaxRetries(t *testing.T) {
	cfg := &Config{
		SampleRate:   22050,
		TrainWorkers: 4,
		MaxRetries:   15,
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for MaxRetries > 10")
	}

	cfg.MaxRetries = -1
	err = cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for MaxRetries < 0")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
