package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/factionops/scopebot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGlobalLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When fetching it", func() {
			log := logger.Get()

			Convey("Then it is usable at every level", func() {
				So(log, ShouldNotBeNil)
				ctx := context.Background()
				So(func() {
					log.Debug(ctx, "debug line", logger.String("k", "v"))
					log.Info(ctx, "info line", logger.Int("count", 3))
					log.Warn(ctx, "warn line", logger.Int64("id", 25719))
					log.Error(ctx, "error line", logger.Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})

		Convey("When deriving a named logger", func() {
			named := logger.Named("sweep")

			Convey("Then it is independent and usable", func() {
				So(named, ShouldNotBeNil)
				So(func() {
					named.Info(context.Background(), "named line", logger.Any("x", 1.5))
				}, ShouldNotPanic)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When setting recognized levels", func() {
			for _, level := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
				So(logger.SetLevelString(level), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			err := logger.SetLevelString("verbose")

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field helpers", t, func() {
		Convey("When building fields", func() {
			fields := []logger.Field{
				logger.String("s", "v"),
				logger.Int("i", 1),
				logger.Int64("i64", 2),
				logger.Float64("f", 3.5),
				logger.Any("a", struct{}{}),
				logger.Error(errors.New("boom")),
			}

			Convey("Then keys and values are preserved", func() {
				So(fields[0].Key, ShouldEqual, "s")
				So(fields[0].Value, ShouldEqual, "v")
				So(fields[3].Value, ShouldEqual, 3.5)
				So(fields[5].Key, ShouldEqual, "error")
			})
		})
	})
}
