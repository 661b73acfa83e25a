package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-quickbase/internal/auth"
)

func TestNewTransport(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"absolute", "https://example.quickbase.com", false},
		{"trailing slash", "https://example.quickbase.com/", false},
		{"no scheme", "example.quickbase.com", true},
		{"unparsable", "://bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransport(tt.baseURL, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://example.quickbase.com", tr.BaseURL.String())
			assert.NotNil(t, tr.HTTPClient)
		})
	}
}

func TestTransport_Post(t *testing.T) {
	t.Run("headers and path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/db/bdb5rjd6h", r.URL.Path)
			assert.Equal(t, ContentTypeXML, r.Header.Get("Content-Type"))
			assert.Equal(t, "API_DoQuery", r.Header.Get(HeaderAction))
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			assert.Equal(t, []string{"custom"}, r.Header.Values(HeaderRequestID))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, "<qdbapi/>", string(body))

			w.Header().Set("Content-Type", "text/xml; charset=ISO-8859-1")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("<qdbapi/>"))
		}))
		defer server.Close()

		tr, err := NewTransport(server.URL, server.Client())
		require.NoError(t, err)
		tr.UserAgent = "test-agent"

		resp, err := tr.Post(context.Background(), &Request{
			Database: "bdb5rjd6h",
			Action:   "DoQuery",
			Body:     []byte("<qdbapi/>"),
			Headers:  http.Header{HeaderRequestID: []string{"custom"}},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "<qdbapi/>", string(resp.Body))
		assert.Equal(t, "text/xml; charset=ISO-8859-1", resp.Headers.Get("Content-Type"))
		assert.Equal(t, "custom", resp.RequestID)
	})

	t.Run("generated request id", func(t *testing.T) {
		var seen string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get(HeaderRequestID)
		}))
		defer server.Close()

		tr, err := NewTransport(server.URL, server.Client())
		require.NoError(t, err)

		resp, err := tr.Post(context.Background(), &Request{Database: "main", Action: "SignOut"})
		require.NoError(t, err)
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, resp.RequestID)
	})

	t.Run("oversized body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(w, io.LimitReader(zeros{}, defaultMaxBodySize+1))
		}))
		defer server.Close()

		tr, err := NewTransport(server.URL, server.Client())
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), &Request{Database: "main", Action: "SignOut"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "response too large")
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		tr, err := NewTransport(url, nil)
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), &Request{Database: "main", Action: "SignOut"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "request failed"))
	})
}

func TestTransport_Open(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		if r.URL.Path != "/up/bdb5rjd6h/a/r1/e6/v0" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "tkt", r.URL.Query().Get("ticket"))
		_, _ = w.Write([]byte("attachment"))
	}))
	defer server.Close()

	tr, err := NewTransport(server.URL, server.Client())
	require.NoError(t, err)
	creds := &auth.Credentials{Ticket: "tkt"}

	t.Run("success", func(t *testing.T) {
		body, err := tr.Open(context.Background(), "up/bdb5rjd6h/a/r1/e6/v0", creds, nil)
		require.NoError(t, err)
		defer func() { _ = body.Close() }()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "attachment", string(data))
	})

	t.Run("custom headers are canonical", func(t *testing.T) {
		headerServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, []string{"trace-1"}, r.Header.Values(HeaderRequestID))
			assert.Equal(t, []string{"agent"}, r.Header.Values("User-Agent"))
		}))
		defer headerServer.Close()

		headerTr, err := NewTransport(headerServer.URL, headerServer.Client())
		require.NoError(t, err)

		body, err := headerTr.Open(context.Background(), "up/x", creds,
			http.Header{"X-Request-ID": {"trace-1"}, "user-agent": {"agent"}})
		require.NoError(t, err)
		_ = body.Close()
	})

	t.Run("connection error hides ticket", func(t *testing.T) {
		closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		closedURL := closed.URL
		closed.Close()

		closedTr, err := NewTransport(closedURL, nil)
		require.NoError(t, err)

		_, err = closedTr.Open(context.Background(), "up/bdb/a/r1/e2/v0", &auth.Credentials{Ticket: "SECRET-TICKET"}, nil)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "SECRET-TICKET")
		assert.Contains(t, err.Error(), "/up/bdb/a/r1/e2/v0")
	})

	t.Run("status error", func(t *testing.T) {
		_, err := tr.Open(context.Background(), "up/bdb5rjd6h/a/r1/e7/v0", creds, nil)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Contains(t, statusErr.Error(), "HTTP 404")
	})
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = '0'
	}
	return len(p), nil
}
