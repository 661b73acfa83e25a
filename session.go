package quickbase

import (
	"context"
	"fmt"
	"io"

	"github.com/tphakala/go-quickbase/internal/auth"
)

// realmDatabase is the pseudo-database used by realm-level actions.
const realmDatabase = "main"

// Session is an authenticated view of a Client. It is immutable and safe for
// concurrent use.
type Session struct {
	// Ticket authenticates every call made through the session.
	Ticket string

	// UserID is the id of the authenticated user. Empty for sessions built
	// from an existing ticket.
	UserID string

	client *Client
}

// Authenticate exchanges a username and password for a ticket.
func (c *Client) Authenticate(ctx context.Context, username, password string, opts ...RequestOption) (*Session, error) {
	var fields Fields
	fields.Add("username", String(username))
	fields.Add("password", String(password))
	fields.Add("hours", Int(c.ticketHours))

	values, err := c.ExecuteFields(ctx, &Request{
		Action:   "Authenticate",
		Database: realmDatabase,
		Fields:   fields,
	}, []string{"ticket", "userid"}, opts...)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("authenticated", "user_id", values["userid"])
	return &Session{Ticket: values["ticket"], UserID: values["userid"], client: c}, nil
}

// Session returns a session for a ticket obtained elsewhere.
func (c *Client) Session(ticket string) *Session {
	return &Session{Ticket: ticket, client: c}
}

// Client returns the client the session was created from.
func (s *Session) Client() *Client {
	return s.client
}

// SignOut invalidates the session's ticket cookie on the service.
func (s *Session) SignOut(ctx context.Context, opts ...RequestOption) error {
	_, err := s.execute(ctx, &Request{Action: "SignOut", Database: realmDatabase}, opts...)
	return err
}

func (s *Session) execute(ctx context.Context, req *Request, opts ...RequestOption) (*Envelope, error) {
	if s.Ticket == "" {
		return nil, ErrNoTicket
	}
	req.Ticket = s.Ticket
	return s.client.Execute(ctx, req, opts...)
}

func (s *Session) executeFields(ctx context.Context, req *Request, required []string, opts ...RequestOption) (map[string]string, error) {
	env, err := s.execute(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	return env.Fields(required...)
}

// GetFile copies the latest version of a file attachment to w and returns the
// number of bytes written.
func (s *Session) GetFile(ctx context.Context, database string, rid, fid int, w io.Writer, opts ...RequestOption) (int64, error) {
	if database == "" {
		return 0, ErrNoDatabase
	}
	reqCfg := newRequestConfig(opts...)

	path := fmt.Sprintf("up/%s/a/r%d/e%d/v0", database, rid, fid)
	creds := &auth.Credentials{Ticket: s.Ticket}

	body, err := s.client.transport.Open(ctx, path, creds, reqCfg.headers)
	if err != nil {
		return 0, newConnectionError(err)
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, newConnectionError(fmt.Errorf("reading attachment: %w", err))
	}
	return n, nil
}
