package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/beachvis/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ScheduleTTL, convey.ShouldEqual, 2*time.Minute)
				convey.So(cfg.VISRateLimit, convey.ShouldEqual, 10.0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BEACHVIS_ADDR", ":8080")
			_ = os.Setenv("BEACHVIS_LOG_FORMAT", "json")
			_ = os.Setenv("BEACHVIS_SCHEDULE_TTL", "30s")
			_ = os.Setenv("BEACHVIS_VIS_TIMEOUT", "2s")
			_ = os.Setenv("BEACHVIS_VIS_RATE_BURST", "16")
			_ = os.Setenv("BEACHVIS_DEFAULT_YEAR", "2024")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.ScheduleTTL, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.VISTimeout, convey.ShouldEqual, 2*time.Second)
				convey.So(cfg.VISRateBurst, convey.ShouldEqual, 16)
				convey.So(cfg.DefaultYear, convey.ShouldEqual, 2024)
				convey.So(cfg.DetailTTL, convey.ShouldEqual, 5*time.Minute)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# upstream
addr: ":9090"
vis_transport: proxy
vis_proxy_url: "http://localhost:3000/api/vis-proxy"
results_ttl: 15m
cors_allowed_origins:
  - https://beach.example.org
  - https://admin.example.org
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BEACHVIS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.VISTransport, convey.ShouldEqual, config.TransportProxy)
				convey.So(cfg.VISProxyURL, convey.ShouldEqual, "http://localhost:3000/api/vis-proxy")
				convey.So(cfg.ResultsTTL, convey.ShouldEqual, 15*time.Minute)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble,
					[]string{"https://beach.example.org", "https://admin.example.org"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nmatch_ttl: 1m\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BEACHVIS_CONFIG", tmpFile)
			_ = os.Setenv("BEACHVIS_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars take precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MatchTTL, convey.ShouldEqual, time.Minute)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("BEACHVIS_CONFIG", "/nonexistent/beachvis.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the loaded config is invalid", func() {
			tmpFile := createTempConfigFile("addr: \"\"\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BEACHVIS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"BEACHVIS_CONFIG",
		"BEACHVIS_ADDR",
		"BEACHVIS_LOG_FORMAT",
		"BEACHVIS_SCHEDULE_TTL",
		"BEACHVIS_VIS_TIMEOUT",
		"BEACHVIS_VIS_RATE_BURST",
		"BEACHVIS_DEFAULT_YEAR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "beachvis-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
