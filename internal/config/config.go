package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Job-tracker backend that owns users, opportunities and interview sessions
	BackendURL     string
	BackendTimeout time.Duration

	// Request limits
	MaxUploadBytes   int64
	MaxMarkdownBytes int64

	// HTML export
	ExportDir string

	// Render latency window
	StatsWindow time.Duration

	// PDF import
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		BackendURL:     envOr("BACKEND_URL", "http://127.0.0.1:5000"),
		BackendTimeout: envDuration("BACKEND_TIMEOUT", 30*time.Second),

		MaxUploadBytes:   envInt64("MAX_UPLOAD_BYTES", 10<<20),
		MaxMarkdownBytes: envInt64("MAX_MARKDOWN_BYTES", 1<<20),

		ExportDir: envOr("EXPORT_DIR", "./static/exports"),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("BACKEND_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}
	if c.MaxMarkdownBytes <= 0 {
		return fmt.Errorf("MAX_MARKDOWN_BYTES must be positive")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
