package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/criatividade/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 32<<20)
			convey.So(cfg.DelimiterRune(), convey.ShouldEqual, ';')
			convey.So(cfg.PreviewRows, convey.ShouldEqual, 5)
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.ReadTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.WriteTimeout(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsRefresh(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "criatividade")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "dashboard")
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":           func(c *config.Config) { c.Addr = "" },
			"unknown level":        func(c *config.Config) { c.LogLevel = "trace" },
			"unknown format":       func(c *config.Config) { c.LogFormat = "xml" },
			"two-char delimiter":   func(c *config.Config) { c.Delimiter = ";;" },
			"zero upload limit":    func(c *config.Config) { c.MaxUploadBytes = 0 },
			"negative preview":     func(c *config.Config) { c.PreviewRows = -1 },
			"zero top n":           func(c *config.Config) { c.TopN = 0 },
			"zero write timeout":   func(c *config.Config) { c.WriteTimeoutSec = 0 },
			"zero metrics refresh": func(c *config.Config) { c.MetricsRefreshSec = 0 },
			"dashed namespace":     func(c *config.Config) { c.MetricsNamespace = "criatividade-prod" },
			"leading digit prefix": func(c *config.Config) { c.MetricsPrefix = "1x" },
			"negative bucket":      func(c *config.Config) { c.MetricsBucketsMs = []float64{1, -5} },
			"bad label name":       func(c *config.Config) { c.MetricsLabels = map[string]string{"team name": "a"} },
			"empty label value":    func(c *config.Config) { c.MetricsLabels = map[string]string{"env": ""} },
		}
		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New()
				mutate(cfg)
				err := config.Validate(cfg)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
