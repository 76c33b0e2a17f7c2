package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateTrackerConfig(&cfg.Tracker); err != nil {
		return fmt.Errorf("YAML global config: tracker directive is invalid: %w", err)
	}
	if err := ValidateImporterConfig(&cfg.Importer); err != nil {
		return fmt.Errorf("YAML global config: importer directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if err := validateDuration(httpConfig.Timeout, "timeout", 10*time.Minute); err != nil {
		return err
	}
	return validateProxy(&httpConfig.Proxy)
}

// ValidateTrackerConfig checks the tracker kind and base URL.
func ValidateTrackerConfig(tracker *Tracker) error {
	if tracker == nil {
		return fmt.Errorf("tracker configuration is nil")
	}
	switch strings.ToLower(strings.TrimSpace(tracker.Kind)) {
	case "", TrackerGitHub, TrackerGitLab:
	default:
		return fmt.Errorf("unsupported tracker kind %q", tracker.Kind)
	}
	if tracker.BaseURL != "" {
		u, err := url.Parse(tracker.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url %q", tracker.BaseURL)
		}
	}
	return nil
}

// ValidateImporterConfig checks the run defaults.
func ValidateImporterConfig(imp *Importer) error {
	if imp == nil {
		return fmt.Errorf("importer configuration is nil")
	}
	if err := validateDuration(imp.WaitTime, "wait_time", 1*time.Hour); err != nil {
		return err
	}
	if imp.WaitTime%time.Second != 0 {
		return fmt.Errorf("wait_time must be a whole number of seconds: %v", imp.WaitTime)
	}
	if err := validateDuration(imp.RateLimitBackoff, "rate_limit_backoff", 1*time.Hour); err != nil {
		return err
	}
	if imp.RateLimitRetries < 0 || imp.RateLimitRetries > 10 {
		return fmt.Errorf("rate_limit_retries must be between 0 and 10: %d", imp.RateLimitRetries)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	return validatePort(proxy.Port)
}

// validateHost ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
