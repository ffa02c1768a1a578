package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if CHATMEND_CONFIG is set
//  3. env (prefix CHATMEND_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CHATMEND_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CHATMEND_INPUT_DIR, CHATMEND_TOP_EMOJI, ...
	// Map env keys like CHATMEND_TOP_EMOJI -> top_emoji (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("CHATMEND_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "chatmend_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input_dir must not be empty", ErrInvalidConfig)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("%w: format must be json or text, got %q", ErrInvalidConfig, c.Format)
	}
	if c.TopEmoji < 1 || c.TopWords < 1 {
		return fmt.Errorf("%w: ranking depths must be positive", ErrInvalidConfig)
	}
	for _, field := range []struct{ name, value string }{
		{"start_date", c.StartDate},
		{"end_date", c.EndDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, field.value); err != nil {
			return fmt.Errorf("%w: %s must be a YYYY-MM-DD date: %w", ErrInvalidConfig, field.name, err)
		}
	}
	return nil
}
