// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the Prometheus scrape listener, e.g. ":9090".
	// Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// ShardCount configures the number of shards in the event store.
	ShardCount int `koanf:"shard_count"`

	// AnnounceQueueSize bounds the in-memory milestone announcement queue.
	AnnounceQueueSize int `koanf:"announce_queue_size"`

	// AnnounceWorkerCount sets the number of announcement delivery workers.
	AnnounceWorkerCount int `koanf:"announce_worker_count"`

	// MilestoneInterval is the round-number step between group
	// announcements (every Nth drink).
	MilestoneInterval int `koanf:"milestone_interval"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		MetricsAddr:         ":9090",
		ShardCount:          8,
		AnnounceQueueSize:   1024,
		AnnounceWorkerCount: 2,
		MilestoneInterval:   100,
	}
}
