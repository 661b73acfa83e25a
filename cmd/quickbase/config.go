package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the profile file.
const (
	EnvUser     = "QUICKBASE_USER"
	EnvPassword = "QUICKBASE_PASSWORD"
	EnvToken    = "QUICKBASE_TOKEN"
	EnvRealm    = "QUICKBASE_REALM"
	EnvTicket   = "QUICKBASE_TICKET"
)

const (
	configDirName  = "quickbase"
	configFileName = "config.yaml"
)

// Profile holds the connection settings for one realm.
type Profile struct {
	// Realm is the realm URL, e.g. "https://example.quickbase.com".
	Realm       string        `yaml:"realm"`
	RealmHost   string        `yaml:"realmHost,omitempty"`
	User        string        `yaml:"user,omitempty"`
	Password    string        `yaml:"password,omitempty"`
	Ticket      string        `yaml:"ticket,omitempty"`
	AppToken    string        `yaml:"appToken,omitempty"`
	TicketHours int           `yaml:"ticketHours,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// ConfigError reports a malformed profile file.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

// defaultConfigPath returns the profile path under the user config
// directory, or "" when there is none.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// loadProfile reads the profile at path and applies environment overrides.
// A missing file is not an error when path is the default location.
func loadProfile(path string, explicit bool) (*Profile, error) {
	profile := &Profile{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, profile); err != nil {
				return nil, &ConfigError{Path: path, Message: err.Error()}
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("reading profile: %w", err)
		}
	}

	applyEnv(profile, os.LookupEnv)
	return profile, nil
}

// applyEnv overrides profile fields with the set environment variables.
func applyEnv(p *Profile, lookup func(string) (string, bool)) {
	for _, env := range []struct {
		name   string
		target *string
	}{
		{EnvRealm, &p.Realm},
		{EnvUser, &p.User},
		{EnvPassword, &p.Password},
		{EnvToken, &p.AppToken},
		{EnvTicket, &p.Ticket},
	} {
		if v, ok := lookup(env.name); ok && v != "" {
			*env.target = v
		}
	}
}

// validate checks that the profile can open a session.
func (p *Profile) validate() error {
	if p.Realm == "" {
		return fmt.Errorf("no realm configured: set realm in the profile or %s", EnvRealm)
	}
	if p.Ticket == "" && p.User == "" {
		return fmt.Errorf("no credentials configured: set %s or a ticket", EnvUser)
	}
	if p.TicketHours < 0 {
		return errors.New("ticketHours must not be negative: " + strconv.Itoa(p.TicketHours))
	}
	return nil
}
