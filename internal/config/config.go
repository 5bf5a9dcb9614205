// Package config provides environment-based configuration for repolens.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment
// variables.
type Config struct {
	Username string // GitHub account to analyze
	Token    string // GitHub personal access token

	Workers               int           // default: 4; 1 = sequential
	InactiveAfter         time.Duration // default: 180 days
	LargeRepoLOCThreshold int           // default: 1000

	SkipForks    bool   // default: false
	SkipArchived bool   // default: false
	Visibility   string // all, public, private (default: all)

	EnableCheckpointing  bool   // default: true
	ResumeFromCheckpoint bool   // default: true
	CheckpointFile       string // default: .repolens_checkpoint.json
	CheckpointThreshold  int    // default: 100

	ReportsDir string // default: reports

	LogLevel  string // debug, info, warn, error (default: info)
	LogFormat string // text, json (default: text)
}

// validLogLevels contains the allowed log level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// validLogFormats contains the allowed log format values.
var validLogFormats = []string{"text", "json"}

// validVisibilities contains the allowed repository visibility filters.
var validVisibilities = []string{"all", "public", "private"}

// Load reads configuration from environment variables, with .env file
// as optional override. The .env file is loaded if present but errors
// are ignored if it doesn't exist.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Username:              getEnv("REPOLENS_USERNAME", ""),
		Token:                 getEnv("GITHUB_TOKEN", ""),
		Workers:               getIntEnv("REPOLENS_WORKERS", 4),
		InactiveAfter:         time.Duration(getIntEnv("REPOLENS_INACTIVE_THRESHOLD_DAYS", 180)) * 24 * time.Hour,
		LargeRepoLOCThreshold: getIntEnv("REPOLENS_LARGE_REPO_LOC", 1000),
		SkipForks:             getBoolEnv("REPOLENS_SKIP_FORKS", false),
		SkipArchived:          getBoolEnv("REPOLENS_SKIP_ARCHIVED", false),
		Visibility:            getEnv("REPOLENS_VISIBILITY", "all"),
		EnableCheckpointing:   getBoolEnv("REPOLENS_CHECKPOINTING", true),
		ResumeFromCheckpoint:  getBoolEnv("REPOLENS_RESUME", true),
		CheckpointFile:        getEnv("REPOLENS_CHECKPOINT_FILE", ".repolens_checkpoint.json"),
		CheckpointThreshold:   getIntEnv("REPOLENS_CHECKPOINT_THRESHOLD", 100),
		ReportsDir:            getEnv("REPOLENS_REPORTS_DIR", "reports"),
		LogLevel:              getEnv("REPOLENS_LOG_LEVEL", "info"),
		LogFormat:             getEnv("REPOLENS_LOG_FORMAT", "text"),
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("invalid REPOLENS_WORKERS %d: must be at least 1", cfg.Workers)
	}
	if !slices.Contains(validVisibilities, cfg.Visibility) {
		return nil, fmt.Errorf("invalid REPOLENS_VISIBILITY %q: must be one of %v", cfg.Visibility, validVisibilities)
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid REPOLENS_LOG_LEVEL %q: must be one of %v", cfg.LogLevel, validLogLevels)
	}
	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid REPOLENS_LOG_FORMAT %q: must be one of %v", cfg.LogFormat, validLogFormats)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable or returns a
// default value. Unparseable values fall back to the default.
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getBoolEnv retrieves a boolean environment variable or returns a
// default value.
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
