package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	content := `logger:
  level: debug
http_client:
  timeout: 15s
  tls_client_config:
    verify: false
tracker:
  kind: gitlab
  base_url: https://gitlab.example.com/api/v4
importer:
  wait_time: 2s
  rate_limit_retries: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTPClient.Timeout)
	require.NotNil(t, cfg.HTTPClient.TLSClientConfig.Verify)
	assert.False(t, *cfg.HTTPClient.TLSClientConfig.Verify)
	assert.Equal(t, TrackerGitLab, GetTrackerKind(cfg))
	assert.Equal(t, 2*time.Second, cfg.Importer.WaitTime)
	assert.Equal(t, 3, cfg.Importer.RateLimitRetries)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Run("default path is optional", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, TrackerGitHub, GetTrackerKind(cfg))
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty config", cfg: Config{}},
		{name: "unknown tracker", cfg: Config{Tracker: Tracker{Kind: "jira"}}, wantErr: true},
		{name: "bad base url", cfg: Config{Tracker: Tracker{Kind: "github", BaseURL: "not a url"}}, wantErr: true},
		{name: "negative wait", cfg: Config{Importer: Importer{WaitTime: -time.Second}}, wantErr: true},
		{name: "sub-second wait", cfg: Config{Importer: Importer{WaitTime: 500 * time.Millisecond}}, wantErr: true},
		{name: "whole second wait", cfg: Config{Importer: Importer{WaitTime: 2 * time.Second}}},
		{name: "too many retries", cfg: Config{Importer: Importer{RateLimitRetries: 11}}, wantErr: true},
		{name: "proxy with bad port", cfg: Config{HTTPClient: HTTPClient{Proxy: Proxy{Host: "proxy", Port: 70000}}}, wantErr: true},
		{name: "proxy ok", cfg: Config{HTTPClient: HTTPClient{Proxy: Proxy{Host: "proxy", Port: 3128}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(&tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, "fallback", SetThen("", "fallback"))
	assert.Equal(t, "value", SetThen("value", "fallback"))
	assert.Equal(t, 5*time.Second, SetThen(time.Duration(0), 5*time.Second))
}
