// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// InputDir is the directory scanned for chat export files.
	InputDir string `koanf:"input_dir"`

	// Output is the report destination path; "-" writes to stdout.
	Output string `koanf:"output"`

	// Format selects the report rendering: json or text.
	Format string `koanf:"format"`

	// TopEmoji bounds the global emoji ranking.
	TopEmoji int `koanf:"top_emoji"`

	// TopWords bounds the word rankings.
	TopWords int `koanf:"top_words"`

	// IgnoreSenders lists sender names excluded from analysis.
	IgnoreSenders []string `koanf:"ignore_senders"`

	// StartDate and EndDate bound the analysis window (RFC 3339 date,
	// e.g. 2026-01-31). Empty means unbounded.
	StartDate string `koanf:"start_date"`
	EndDate   string `koanf:"end_date"`

	// MetricsAddr exposes Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		InputDir:      ".",
		Output:        "-",
		Format:        "json",
		TopEmoji:      10,
		TopWords:      25,
		IgnoreSenders: []string{"Meta AI"},
	}
}
