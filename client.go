package quickbase

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/tphakala/go-quickbase/internal/api"
	"github.com/tphakala/go-quickbase/internal/auth"
	"github.com/tphakala/go-quickbase/internal/log"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://www.quickbase.com"
	defaultTimeout     = 30 * time.Second
	defaultTicketHours = 12
)

// Client is the QuickBase API client. It holds no per-user state; calls that
// need a ticket go through a Session.
type Client struct {
	transport   *api.Transport
	appToken    string
	realmHost   string
	ticketHours int
	logger      *slog.Logger
}

// NewClient creates a new QuickBase client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		baseURL:     DefaultBaseURL,
		ticketHours: defaultTicketHours,
		timeout:     defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	transport, err := api.NewTransport(cfg.baseURL, httpClient)
	if err != nil {
		return nil, err
	}

	if cfg.userAgent != "" {
		transport.UserAgent = cfg.userAgent
	}

	return &Client{
		transport:   transport,
		appToken:    cfg.appToken,
		realmHost:   cfg.realmHost,
		ticketHours: cfg.ticketHours,
		logger:      log.Wrap(cfg.logger),
	}, nil
}

// BaseURL returns the configured realm URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL.String()
}

// Request is a single API call.
type Request struct {
	// Action is the API action without its "API_" prefix, e.g. "DoQuery".
	Action string

	// Database is the target dbid, or "main" for realm-level actions.
	Database string

	// Fields are the action parameters, in order.
	Fields Fields

	// Ticket authenticates the call. Empty for Authenticate.
	Ticket string

	// Lenient parses the response with Lenient.
	Lenient bool
}

// Execute performs req and returns the response envelope. It fails with a
// ConnectionError, XMLError or ResponseError.
func (c *Client) Execute(ctx context.Context, req *Request, opts ...RequestOption) (*Envelope, error) {
	if req.Database == "" {
		return nil, ErrNoDatabase
	}
	reqCfg := newRequestConfig(opts...)

	body, err := Encode(c.requestFields(req))
	if err != nil {
		return nil, err
	}

	logger := c.logger.With("action", req.Action, "database", req.Database)
	start := time.Now()

	resp, err := c.transport.Post(ctx, &api.Request{
		Database: req.Database,
		Action:   req.Action,
		Body:     body,
		Headers:  reqCfg.headers,
	})
	if err != nil {
		logger.Debug("request failed", "error", err, "duration", time.Since(start))
		return nil, newConnectionError(err)
	}

	data, charset := NormalizeCharset(resp.Body, resp.Headers.Get("Content-Type"))
	logger = logger.With("request_id", resp.RequestID, "status", resp.StatusCode, "charset", charset)

	var decodeOpts []DecodeOption
	if req.Lenient {
		decodeOpts = append(decodeOpts, Lenient())
	}
	env, err := Decode(data, decodeOpts...)
	if err != nil {
		logger.Warn("request rejected", "error", err, "duration", time.Since(start))
		return nil, err
	}

	logger.Debug("request completed", "duration", time.Since(start))
	return env, nil
}

// ExecuteFields performs req and returns the text of the required top-level
// response elements.
func (c *Client) ExecuteFields(ctx context.Context, req *Request, required []string, opts ...RequestOption) (map[string]string, error) {
	env, err := c.Execute(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	return env.Fields(required...)
}

// requestFields appends the per-call parameters every action accepts.
func (c *Client) requestFields(req *Request) Fields {
	fields := slices.Clone(req.Fields)

	creds := &auth.Credentials{Ticket: req.Ticket, AppToken: c.appToken}
	for _, p := range creds.Params() {
		fields.Set(p.Name, String(p.Value))
	}
	fields.Set("encoding", String("UTF-8"))
	fields.Set("msInUTC", Int(1))
	if c.realmHost != "" {
		fields.Set("realmhost", String(c.realmHost))
	}
	return fields
}
