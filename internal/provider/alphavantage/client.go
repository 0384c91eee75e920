// Package alphavantage is a small client for the Alpha Vantage query API,
// limited to what the relay needs: the TIME_SERIES_DAILY function.
package alphavantage

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public query endpoint.
	DefaultBaseURL = "https://www.alphavantage.co/query"
	// FunctionDaily is the query function for daily OHLCV series.
	FunctionDaily = "TIME_SERIES_DAILY"

	userAgent = "stockrelay/1.0"
	redacted  = "REDACTED"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to Alpha Vantage.
type Client struct {
	// baseURL is the query endpoint, without query string.
	baseURL string
	// apiKey is sent as the apikey parameter and never logged.
	apiKey string
	// httpClient performs the requests.
	httpClient HTTPClient
	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes int64
}

// ClientOption is a configuration option for the client.
type ClientOption func(*Client)

// WithBaseURL sets the query endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMaxBodyBytes bounds the size of a response body the client will read.
func WithMaxBodyBytes(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewClient creates a client for the given key. An empty key is accepted;
// callers are expected to refuse to fetch without one.
func NewClient(apiKey string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		httpClient:   NewHTTPClient(10 * time.Second),
		maxBodyBytes: 16 << 20,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// HasAPIKey reports whether the client was built with a non-blank key.
func (c *Client) HasAPIKey() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// NewHTTPClient returns an *http.Client for upstream calls.
// http.DefaultClient has no timeout, so it is never used.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// DailyURL builds the TIME_SERIES_DAILY request URL for symbol.
// Symbol and key are query-escaped.
func (c *Client) DailyURL(symbol string) string {
	return c.queryURL(symbol, c.apiKey)
}

// redactedDailyURL is DailyURL with the key masked, for logs.
func (c *Client) redactedDailyURL(symbol string) string {
	return c.queryURL(symbol, redacted)
}

func (c *Client) queryURL(symbol, key string) string {
	q := url.Values{}
	q.Set("function", FunctionDaily)
	q.Set("symbol", symbol)
	q.Set("apikey", key)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}
