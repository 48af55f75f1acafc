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
//  2. file (YAML) if BLAKKIS_CONFIG is set
//  3. env (prefix BLAKKIS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BLAKKIS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BLAKKIS_SHARD_COUNT -> shard_count, etc.
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("BLAKKIS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "blakkis_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.ShardCount <= 0 {
		return fmt.Errorf("shard_count must be positive: %w", ErrInvalidConfig)
	}
	if cfg.AnnounceQueueSize <= 0 {
		return fmt.Errorf("announce_queue_size must be positive: %w", ErrInvalidConfig)
	}
	if cfg.AnnounceWorkerCount <= 0 {
		return fmt.Errorf("announce_worker_count must be positive: %w", ErrInvalidConfig)
	}
	if cfg.MilestoneInterval <= 0 {
		return fmt.Errorf("milestone_interval must be positive: %w", ErrInvalidConfig)
	}
	return nil
}
