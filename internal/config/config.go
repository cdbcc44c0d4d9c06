// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Transports accepted by VISTransport.
const (
	TransportDirect = "direct"
	TransportProxy  = "proxy"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Environment and Version are reported by the health endpoint.
	Environment string `koanf:"environment"`
	Version     string `koanf:"version"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// VISBaseURL is the upstream XML request endpoint.
	VISBaseURL string `koanf:"vis_base_url"`

	// VISTransport is "direct" or "proxy". The proxy receives the full
	// upstream URL in its url query parameter.
	VISTransport string `koanf:"vis_transport"`
	VISProxyURL  string `koanf:"vis_proxy_url"`

	// VISTimeout bounds each upstream call.
	VISTimeout   time.Duration `koanf:"vis_timeout"`
	VISUserAgent string        `koanf:"vis_user_agent"`

	// VISRateLimit caps upstream requests per second; zero disables pacing.
	VISRateLimit float64 `koanf:"vis_rate_limit"`
	VISRateBurst int     `koanf:"vis_rate_burst"`

	// DefaultYear is the listing year for codes without a trailing year.
	// Zero means the current year.
	DefaultYear int `koanf:"default_year"`

	// Cache TTL per resource kind.
	DetailTTL   time.Duration `koanf:"detail_ttl"`
	ScheduleTTL time.Duration `koanf:"schedule_ttl"`
	MatchTTL    time.Duration `koanf:"match_ttl"`
	ResultsTTL  time.Duration `koanf:"results_ttl"`
	ListingTTL  time.Duration `koanf:"listing_ttl"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Environment:        "development",
		Version:            "dev",
		ShutdownTimeout:    10 * time.Second,
		VISBaseURL:         "https://www.fivb.org/vis2009/XmlRequest.asmx",
		VISTransport:       TransportDirect,
		VISTimeout:         10 * time.Second,
		VISUserAgent:       "beachvis/1.0",
		VISRateLimit:       10,
		VISRateBurst:       5,
		DetailTTL:          5 * time.Minute,
		ScheduleTTL:        2 * time.Minute,
		MatchTTL:           5 * time.Minute,
		ResultsTTL:         10 * time.Minute,
		ListingTTL:         5 * time.Minute,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.VISBaseURL == "":
		return fmt.Errorf("%w: vis_base_url must not be empty", ErrInvalidConfig)
	case c.VISTransport != TransportDirect && c.VISTransport != TransportProxy:
		return fmt.Errorf("%w: vis_transport must be %q or %q, got %q",
			ErrInvalidConfig, TransportDirect, TransportProxy, c.VISTransport)
	case c.VISTransport == TransportProxy && c.VISProxyURL == "":
		return fmt.Errorf("%w: vis_proxy_url is required for the proxy transport", ErrInvalidConfig)
	case c.VISTimeout <= 0:
		return fmt.Errorf("%w: vis_timeout must be positive", ErrInvalidConfig)
	case c.VISRateLimit < 0:
		return fmt.Errorf("%w: vis_rate_limit must not be negative", ErrInvalidConfig)
	case c.DefaultYear != 0 && (c.DefaultYear < 1990 || c.DefaultYear > 2100):
		return fmt.Errorf("%w: default_year must be between 1990 and 2100", ErrInvalidConfig)
	}
	for name, ttl := range map[string]time.Duration{
		"detail_ttl":   c.DetailTTL,
		"schedule_ttl": c.ScheduleTTL,
		"match_ttl":    c.MatchTTL,
		"results_ttl":  c.ResultsTTL,
		"listing_ttl":  c.ListingTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	return nil
}
