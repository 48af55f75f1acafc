package logger_test

import (
	"context"
	"testing"

	"github.com/blakkis/promille/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("Then logging at every level does not panic", func() {
			l := logger.Get()
			So(func() {
				l.Debug(ctx, "debug", logger.String("k", "v"))
				l.Info(ctx, "info", logger.Int("n", 1))
				l.Warn(ctx, "warn", logger.Float64("f", 0.5))
				l.Error(ctx, "error", logger.Any("x", struct{}{}))
			}, ShouldNotPanic)
		})

		Convey("Then named sub-loggers are independent", func() {
			named := logger.Named("store")
			So(named, ShouldNotBeNil)
			So(func() { named.Info(ctx, "hello") }, ShouldNotPanic)
		})

		Convey("Then level strings parse case-insensitively", func() {
			So(logger.SetLevelString("DEBUG"), ShouldBeNil)
			So(logger.SetLevelString("warning"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
