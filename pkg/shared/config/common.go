package config

import (
	"crypto/tls"
	"time"
)

const (
	TrackerGitHub = "github"
	TrackerGitLab = "gitlab"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	Timeout         time.Duration
	TLSClientConfig *tls.Config
	Proxy           string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// General base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		Timeout: 30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	baseConfig := DefaultHttpConfig()
	return RestyHttpClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

// DefaultImporterConfig keeps the original behaviour: no delay between
// created issues and no retry on rate limiting.
func DefaultImporterConfig() Importer {
	return Importer{
		WaitTime:         0,
		RateLimitRetries: 0,
		RateLimitBackoff: 30 * time.Second,
	}
}

// GetTrackerKind returns the configured tracker kind or github.
func GetTrackerKind(cfg *Config) string {
	if cfg == nil {
		return TrackerGitHub
	}
	return SetThen(cfg.Tracker.Kind, TrackerGitHub)
}
