// =============================================================================
// Rebate CSV Formatter - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. Settings come
// from three layers, later layers winning:
//
//   1. Built-in defaults
//   2. The YAML config file (config.yaml, overridable with --config)
//   3. Environment variables (FORMATTER_*), with .env support for local dev
//
// The configuration is validated on load; storage directories that do not
// exist yet are created.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// UploadDir is where uploaded input files are stored.
	// Default: "./uploads"
	UploadDir string `yaml:"upload_dir"`

	// OutputDir is where processed output files are stored; the download
	// endpoint serves from here.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// LogDir is where application log files are written.
	// Default: "./logs"
	LogDir string `yaml:"log_dir"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ListenAddr is the HTTP listen address for serve mode.
	// Default: ":8080"
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadMB caps the in-memory portion of a multipart upload.
	// Default: 32
	MaxUploadMB int `yaml:"max_upload_mb"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once
	// within a batch. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// LenientDates switches date normalization from fatal-per-file to
	// blank-the-cell. This is the single documented policy switch; there
	// is no per-cell mixing.
	// Default: false
	LenientDates bool `yaml:"lenient_dates"`

	// =========================================================================
	// RETENTION SETTINGS
	// =========================================================================

	// RetentionDays is how long stored uploads and outputs are kept before
	// the scheduled sweep removes them. Zero disables the sweep.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// RetentionSchedule is the cron expression for the retention sweep.
	// Default: "0 3 * * *" (daily at 03:00)
	RetentionSchedule string `yaml:"retention_schedule"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the configuration file, applies environment overrides and
// defaults, and validates the result. A missing file at the default path is
// not an error; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	// .env is optional and only matters for local development.
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err) && path == DefaultPath:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployment environments override file settings
// without editing the YAML.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORMATTER_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("FORMATTER_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("FORMATTER_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("FORMATTER_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("FORMATTER_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrency = n
		}
	}
	if v := os.Getenv("FORMATTER_LENIENT_DATES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LenientDates = b
		}
	}
	if v := os.Getenv("FORMATTER_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetentionDays = n
		}
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "./logs"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = 32
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 30
	}
	if cfg.RetentionSchedule == "" {
		cfg.RetentionSchedule = "0 3 * * *"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks the configuration and creates missing directories.
func validate(cfg *Config) error {
	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}

	dirs := []string{cfg.UploadDir, cfg.OutputDir, cfg.LogDir}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
