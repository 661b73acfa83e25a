// Package api provides low-level HTTP transport for QuickBase API calls.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tphakala/go-quickbase/internal/auth"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// ContentTypeXML is the content type of every API request.
	ContentTypeXML = "application/xml"

	// HeaderAction names the API action of a request.
	HeaderAction = "QUICKBASE-ACTION"

	// HeaderRequestID correlates a request with client logs.
	HeaderRequestID = "X-Request-ID"
)

// Transport handles HTTP communication with the QuickBase API.
type Transport struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	UserAgent  string
}

// NewTransport creates a Transport with the given configuration.
func NewTransport(baseURL string, httpClient *http.Client) (*Transport, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q is not absolute", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
		}
	}

	return &Transport{
		BaseURL:    u,
		HTTPClient: httpClient,
		UserAgent:  "go-quickbase/1.0",
	}, nil
}

// Request represents an API call.
type Request struct {
	Database string
	Action   string
	Body     []byte
	Headers  http.Header
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	RequestID  string
}

// Post sends req to <base>/db/<database> and returns the raw response. The
// status code is reported but not interpreted: the service signals failures
// inside the body.
func (t *Transport) Post(ctx context.Context, req *Request) (*Response, error) {
	u := t.BaseURL.JoinPath("db", req.Database)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", ContentTypeXML)
	httpReq.Header.Set(HeaderAction, "API_"+req.Action)
	httpReq.Header.Set("User-Agent", t.UserAgent)
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())

	// Apply custom headers
	copyHeaders(httpReq.Header, req.Headers)

	return t.do(httpReq)
}

// Open issues a GET for a non-API resource, such as a file attachment,
// relative to the base URL. The caller must close the returned body. Non-2xx
// responses are returned as errors.
func (t *Transport) Open(ctx context.Context, path string, creds *auth.Credentials, headers http.Header) (io.ReadCloser, error) {
	u := t.BaseURL.JoinPath(path)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", t.UserAgent)
	copyHeaders(httpReq.Header, headers)

	// Apply authentication
	creds.Apply(httpReq)

	httpResp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		// The request URL carries the ticket
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = u.String()
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if httpResp.StatusCode >= http.StatusBadRequest {
		_ = httpResp.Body.Close()
		return nil, &StatusError{StatusCode: httpResp.StatusCode, URL: u.String()}
	}
	return httpResp.Body, nil
}

// StatusError reports an unexpected HTTP status for a non-API request.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// copyHeaders sets every header of src on dst under its canonical key.
func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		dst[http.CanonicalHeaderKey(k)] = v
	}
}

func (t *Transport) do(httpReq *http.Request) (*Response, error) {
	httpResp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	// Limit response body size to prevent memory exhaustion
	limitedReader := io.LimitReader(httpResp.Body, defaultMaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if int64(len(body)) > defaultMaxBodySize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", defaultMaxBodySize)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
		RequestID:  httpReq.Header.Get(HeaderRequestID),
	}, nil
}
