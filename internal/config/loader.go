package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOPEBOT_CONFIG is set
//  3. env (prefix SCOPEBOT_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SCOPEBOT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SCOPEBOT_ADDR, SCOPEBOT_TORN_API_KEY, ...
	// Map env keys like SCOPEBOT_POLL_INTERVAL_SECONDS -> poll_interval_seconds.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SCOPEBOT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "scopebot_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
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
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PollIntervalSeconds <= 0:
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	case c.APIMaxCallsPerMinute <= 0:
		return fmt.Errorf("%w: api_max_calls_per_minute must be positive", ErrInvalidConfig)
	case c.ReportCharLimit <= 0:
		return fmt.Errorf("%w: report_char_limit must be positive", ErrInvalidConfig)
	case c.BalanceCacheSize <= 0 || c.BalanceCacheTTLSeconds <= 0:
		return fmt.Errorf("%w: balance cache size and ttl must be positive", ErrInvalidConfig)
	}
	return nil
}
