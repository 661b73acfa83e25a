package quickbase

import (
	"log/slog"
	"net/http"
	"time"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL     string
	appToken    string
	realmHost   string
	ticketHours int
	httpClient  *http.Client
	timeout     time.Duration
	userAgent   string
	logger      *slog.Logger
}

// WithBaseURL sets the realm URL, e.g. "https://example.quickbase.com".
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAppToken sets the application token sent with every request.
func WithAppToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.appToken = token
	}
}

// WithRealmHost sets the realmhost parameter sent with every request.
func WithRealmHost(host string) ClientOption {
	return func(c *clientConfig) {
		c.realmHost = host
	}
}

// WithTicketHours sets how long tickets issued by Authenticate stay valid.
func WithTicketHours(hours int) ClientOption {
	return func(c *clientConfig) {
		c.ticketHours = hours
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout.
// Note: This option is ignored when WithHTTPClient is used;
// set the timeout directly on the provided client instead.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for request tracing. Credential attributes are
// always redacted.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// RequestOption configures individual API requests.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers http.Header
}

func newRequestConfig(opts ...RequestOption) *requestConfig {
	r := &requestConfig{
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithHeader adds a custom header to a request.
func WithHeader(key, value string) RequestOption {
	return func(r *requestConfig) {
		r.headers.Set(key, value)
	}
}

// WithRequestID sets the X-Request-ID header for tracing, replacing the
// generated one.
func WithRequestID(id string) RequestOption {
	return WithHeader("X-Request-ID", id)
}
