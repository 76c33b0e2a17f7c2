package httpclient

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
)

func TestApplyHttpClientConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := applyHttpClientConfig(nil)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.False(t, cfg.TLSClientConfig.InsecureSkipVerify)
		assert.Empty(t, cfg.Proxy)
	})

	t.Run("overrides", func(t *testing.T) {
		verify := false
		cfg := applyHttpClientConfig(&config.HTTPClient{
			Timeout:         5 * time.Second,
			TLSClientConfig: config.TLSClientConfig{Verify: &verify},
			Proxy:           config.Proxy{Host: "http://proxy.local", Port: 3128},
		})
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.True(t, cfg.TLSClientConfig.InsecureSkipVerify)
		assert.Equal(t, "http://proxy.local:3128", cfg.Proxy)
	})
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(hclog.NewNullLogger(), &config.Config{HTTPClient: config.HTTPClient{Timeout: 7 * time.Second}})
	assert.Equal(t, 7*time.Second, client.Timeout)
}

func TestNewHTTPClientDebugLogsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	testCases := []struct {
		name    string
		debug   bool
		wantLog bool
	}{
		{name: "debug on", debug: true, wantLog: true},
		{name: "debug off", debug: false, wantLog: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
			debug := tc.debug

			client := NewHTTPClient(logger, &config.Config{HTTPClient: config.HTTPClient{Debug: &debug}})
			resp, err := client.Get(srv.URL + "/repos/octo/app/issues")
			require.NoError(t, err)
			resp.Body.Close()

			if tc.wantLog {
				assert.Contains(t, buf.String(), "http request")
				assert.Contains(t, buf.String(), "status=418")
				assert.Contains(t, buf.String(), "/repos/octo/app/issues")
				return
			}
			assert.Empty(t, buf.String())
		})
	}
}
