// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"time"
	"unicode/utf8"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxUploadBytes caps the multipart body of POST /api/analyze.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// Delimiter is the CSV field separator.
	Delimiter string `koanf:"delimiter" validate:"len=1"`

	// PreviewRows is how many raw rows the dashboard shows.
	PreviewRows int `koanf:"preview_rows" validate:"gte=0,lte=100"`

	// TopN bounds the lowest/highest repetition rankings.
	TopN int `koanf:"top_n" validate:"gt=0,lte=1000"`

	ReadTimeoutSec  int `koanf:"read_timeout_sec" validate:"gt=0"`
	WriteTimeoutSec int `koanf:"write_timeout_sec" validate:"gt=0"`

	// Metrics
	MetricsEnabled    bool              `koanf:"metrics_enabled"`
	MetricsRefreshSec int               `koanf:"metrics_refresh_sec" validate:"gt=0"`
	MetricsNamespace  string            `koanf:"metrics_namespace" validate:"omitempty,promname"`
	MetricsSubsystem  string            `koanf:"metrics_subsystem" validate:"omitempty,promname"`
	MetricsPrefix     string            `koanf:"metrics_prefix" validate:"omitempty,promname"`
	MetricsBucketsMs  []float64         `koanf:"metrics_buckets_ms" validate:"omitempty,dive,gt=0"`
	MetricsLabels     map[string]string `koanf:"metrics_labels" validate:"omitempty,dive,keys,promname,endkeys,required"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		MaxUploadBytes:  32 << 20,
		Delimiter:       ";",
		PreviewRows:     5,
		TopN:            10,
		ReadTimeoutSec:  30,
		WriteTimeoutSec: 60,

		MetricsEnabled:    true,
		MetricsRefreshSec: 10,
		MetricsNamespace:  "criatividade",
		MetricsSubsystem:  "dashboard",
	}
}

// DelimiterRune returns the configured separator as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// ReadTimeout is ReadTimeoutSec as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

// MetricsRefresh is MetricsRefreshSec as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshSec) * time.Second
}

// WriteTimeout is WriteTimeoutSec as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSec) * time.Second
}
