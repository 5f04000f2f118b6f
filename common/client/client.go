// Package client holds the shared HTTP client used to talk to the one-api backend.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/bytedance/sonic"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
)

const (
	userAgent           = "finlogs/1.0"
	maxErrorBodySnippet = 512
)

// HTTPClient is the process wide client configured by Init.
var HTTPClient = &http.Client{}

// Init applies REQUEST_PROXY and REQUEST_TIMEOUT to HTTPClient.
func Init() {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.RequestProxy != "" {
		proxyURL, err := url.Parse(config.RequestProxy)
		if err != nil {
			logger.Logger.Fatal("invalid REQUEST_PROXY", zap.Error(err))
		}
		logger.Logger.Info("using proxy for backend requests", zap.String("proxy", proxyURL.Redacted()))
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	HTTPClient = &http.Client{Transport: transport}
	if config.RequestTimeout > 0 {
		HTTPClient.Timeout = time.Duration(config.RequestTimeout) * time.Second
	}
}

// Getter issues a GET against the backend and decodes the JSON body into out.
type Getter interface {
	GetJSON(ctx context.Context, pathAndQuery string, out any) error
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client is a thin JSON client bound to one backend base URL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses HTTPClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = HTTPClient
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    httpClient,
	}
}

// GetJSON implements Getter.
func (c *Client) GetJSON(ctx context.Context, pathAndQuery string, out any) error {
	endpoint := c.BaseURL + pathAndQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "decode response: %s", snippet(body))
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodySnippet {
		cut := maxErrorBodySnippet
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
