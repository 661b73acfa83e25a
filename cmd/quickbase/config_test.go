package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvRealm, EnvUser, EnvPassword, EnvToken, EnvTicket} {
		t.Setenv(name, "")
	}
}

func TestLoadProfile(t *testing.T) {
	t.Run("file values", func(t *testing.T) {
		clearEnv(t)
		path := writeProfile(t, `
realm: https://example.quickbase.com
realmHost: example.quickbase.com
user: jdoe
password: secret
appToken: tok
ticketHours: 4
timeout: 45s
`)
		profile, err := loadProfile(path, true)
		require.NoError(t, err)
		assert.Equal(t, &Profile{
			Realm:       "https://example.quickbase.com",
			RealmHost:   "example.quickbase.com",
			User:        "jdoe",
			Password:    "secret",
			AppToken:    "tok",
			TicketHours: 4,
			Timeout:     45 * time.Second,
		}, profile)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvUser, "env-user")
		t.Setenv(EnvToken, "env-token")
		path := writeProfile(t, "realm: https://example.quickbase.com\nuser: jdoe\nappToken: tok\n")

		profile, err := loadProfile(path, true)
		require.NoError(t, err)
		assert.Equal(t, "env-user", profile.User)
		assert.Equal(t, "env-token", profile.AppToken)
		assert.Equal(t, "https://example.quickbase.com", profile.Realm)
	})

	t.Run("missing default file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvRealm, "https://env.quickbase.com")

		profile, err := loadProfile(filepath.Join(t.TempDir(), "none.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, "https://env.quickbase.com", profile.Realm)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := loadProfile(filepath.Join(t.TempDir(), "none.yaml"), true)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeProfile(t, "realm: [unclosed\n")

		_, err := loadProfile(path, true)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, path, cfgErr.Path)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRealm:    "https://r.quickbase.com",
		EnvPassword: "pw",
		EnvTicket:   "",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	p := &Profile{User: "jdoe", Ticket: "kept"}
	applyEnv(p, lookup)

	assert.Equal(t, "https://r.quickbase.com", p.Realm)
	assert.Equal(t, "jdoe", p.User)
	assert.Equal(t, "pw", p.Password)
	assert.Equal(t, "kept", p.Ticket)
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{"password login", Profile{Realm: "https://r", User: "u", Password: "p"}, ""},
		{"ticket", Profile{Realm: "https://r", Ticket: "t"}, ""},
		{"no realm", Profile{User: "u", Password: "p"}, "no realm"},
		{"password prompted later", Profile{Realm: "https://r", User: "u"}, ""},
		{"no user", Profile{Realm: "https://r", Password: "p"}, "no credentials"},
		{"negative hours", Profile{Realm: "https://r", Ticket: "t", TicketHours: -1}, "ticketHours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug")
	require.NoError(t, err)
	logger.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	_, err = newLogger(&buf, "loud")
	assert.Error(t, err)
}
