package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/blakkis/promille/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
				convey.So(cfg.AnnounceQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.AnnounceWorkerCount, convey.ShouldEqual, 2)
				convey.So(cfg.MilestoneInterval, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BLAKKIS_LOG_LEVEL", "debug")
			_ = os.Setenv("BLAKKIS_SHARD_COUNT", "16")
			_ = os.Setenv("BLAKKIS_ANNOUNCE_QUEUE_SIZE", "64")
			_ = os.Setenv("BLAKKIS_MILESTONE_INTERVAL", "50")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 16)
				convey.So(cfg.AnnounceQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.MilestoneInterval, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
log_level: warn
metrics_addr: ":9191"
shard_count: 4
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BLAKKIS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9191")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When env vars override the file", func() {
			tmpFile := createTempConfigFile(t, "shard_count: 4\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BLAKKIS_CONFIG", tmpFile)
			_ = os.Setenv("BLAKKIS_SHARD_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env takes precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ShardCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("BLAKKIS_MILESTONE_INTERVAL", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then the load fails with the invalid-config kind", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"BLAKKIS_CONFIG",
		"BLAKKIS_LOG_LEVEL",
		"BLAKKIS_METRICS_ADDR",
		"BLAKKIS_SHARD_COUNT",
		"BLAKKIS_ANNOUNCE_QUEUE_SIZE",
		"BLAKKIS_ANNOUNCE_WORKER_COUNT",
		"BLAKKIS_MILESTONE_INTERVAL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "blakkis-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}
