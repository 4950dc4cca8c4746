package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for an extraction run.
type Config struct {
	OutputDir    string `json:"output_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	CacheEnabled bool `json:"cache_enabled"`

	// Fixed timeout applied to the constituent page fetch.
	RequestTimeout time.Duration `json:"request_timeout"`

	// Delay between per-ticker metadata lookups, to stay under the
	// provider's unofficial rate limit.
	MetadataLookupDelay time.Duration `json:"metadata_lookup_delay"`

	// Number of years of daily history to download.
	HistoryYears int `json:"history_years"`

	// Worker limit for the bulk price download.
	DownloadWorkers int `json:"download_workers"`

	// Label stamped on every emitted price row.
	DataSourceLabel string `json:"data_source_label"`

	UserAgent string `json:"user_agent"`

	Debug bool `json:"debug"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		OutputDir:    currentDir,
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		CacheEnabled:        true,
		RequestTimeout:      30 * time.Second,
		MetadataLookupDelay: 50 * time.Millisecond,
		HistoryYears:        10,
		DownloadWorkers:     4,
		DataSourceLabel:     "Yahoo Finance (finance-go)",
		UserAgent:           defaultUserAgent,
		Debug:               false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("OUTPUT_DIR"); val != "" {
		c.OutputDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}
	if val := os.Getenv("REQUEST_TIMEOUT_SECONDS"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			c.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if val := os.Getenv("METADATA_LOOKUP_DELAY_MS"); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
			c.MetadataLookupDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if val := os.Getenv("HISTORY_YEARS"); val != "" {
		if years, err := strconv.Atoi(val); err == nil && years > 0 {
			c.HistoryYears = years
		}
	}
	if val := os.Getenv("DOWNLOAD_WORKERS"); val != "" {
		if workers, err := strconv.Atoi(val); err == nil && workers > 0 {
			c.DownloadWorkers = workers
		}
	}
	if val := os.Getenv("USER_AGENT"); val != "" {
		c.UserAgent = val
	}
	if val := os.Getenv("DEBUG"); val != "" {
		if debug, err := strconv.ParseBool(val); err == nil {
			c.Debug = debug
		}
	}
}

// EnsureDirectories creates the output and cache directories if missing.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.OutputDir, c.DataCacheDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
