package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
)

// debugTransport logs every request the tracker SDKs send.
type debugTransport struct {
	next   http.RoundTripper
	logger hclog.Logger
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http request failed", "method", req.Method, "url", req.URL.Redacted(), "error", err)
		return nil, err
	}
	t.logger.Debug("http request", "method", req.Method, "url", req.URL.Redacted(),
		"status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

// InitializeRestyClient configures a resty client from the resolved settings.
// Retries are left to the caller: the importer decides when a failed call may be repeated.
func InitializeRestyClient(restyConfig config.RestyHttpClientConfig) *resty.Client {
	client := resty.New().
		SetRetryCount(0).
		SetTimeout(restyConfig.Timeout).
		SetTLSClientConfig(restyConfig.TLSClientConfig)
	if restyConfig.Proxy != "" {
		client.SetProxy(restyConfig.Proxy)
	}
	return client
}

// NewHTTPClient returns the *http.Client configured by the resty settings,
// ready to be handed to the tracker SDKs. With http_client.debug set, each
// request is logged at debug level.
func NewHTTPClient(logger hclog.Logger, cfg *config.Config) *http.Client {
	var httpConfig *config.HTTPClient
	if cfg != nil {
		httpConfig = &cfg.HTTPClient
	}
	restyConfig := applyHttpClientConfig(httpConfig)
	client := InitializeRestyClient(restyConfig).GetClient()

	if restyConfig.Debug && logger != nil {
		next := client.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		client.Transport = &debugTransport{next: next, logger: logger.Named("http")}
	}
	return client
}

// applyHttpClientConfig applies the HttpClient configuration or uses default values.
func applyHttpClientConfig(httpConfig *config.HTTPClient) config.RestyHttpClientConfig {
	cfg := config.DefaultRestyConfig()

	if httpConfig != nil {
		cfg.Debug = config.GetBoolValue(httpConfig, "Debug", cfg.Debug)
		cfg.Timeout = config.SetThen(httpConfig.Timeout, cfg.Timeout)
		cfg.TLSClientConfig.InsecureSkipVerify = !config.GetBoolValue(httpConfig.TLSClientConfig, "Verify", true)

		if httpConfig.Proxy.Host != "" && httpConfig.Proxy.Port != 0 {
			cfg.Proxy = fmt.Sprintf("%s:%d", httpConfig.Proxy.Host, httpConfig.Proxy.Port)
		}
	}

	return cfg
}
