package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-quickbase"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	realmURL   string
	jsonOutput bool
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quickbase",
	Short: "Command-line client for the QuickBase XML API",
	Long: `quickbase runs QuickBase XML API actions against a realm.

Connection settings are read from a YAML profile (by default
<user config dir>/quickbase/config.yaml) and can be overridden with the
QUICKBASE_REALM, QUICKBASE_USER, QUICKBASE_PASSWORD, QUICKBASE_TOKEN and
QUICKBASE_TICKET environment variables.`,
	Version:       Version + " (" + Commit + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Profile file (default: <user config dir>/quickbase/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&realmURL, "realm", "", "Realm URL, overrides the profile")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
}

// newLogger builds the stderr logger for the configured level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// newClient builds a client from the profile and flags.
func newClient() (*quickbase.Client, *Profile, error) {
	path, explicit := configPath, configPath != ""
	if !explicit {
		path = defaultConfigPath()
	}
	profile, err := loadProfile(path, explicit)
	if err != nil {
		return nil, nil, err
	}
	if realmURL != "" {
		profile.Realm = realmURL
	}
	if err := profile.validate(); err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(os.Stderr, logLevel)
	if err != nil {
		return nil, nil, err
	}

	opts := []quickbase.ClientOption{
		quickbase.WithBaseURL(profile.Realm),
		quickbase.WithLogger(logger),
		quickbase.WithUserAgent("quickbase-cli/" + Version),
	}
	if profile.AppToken != "" {
		opts = append(opts, quickbase.WithAppToken(profile.AppToken))
	}
	if profile.RealmHost != "" {
		opts = append(opts, quickbase.WithRealmHost(profile.RealmHost))
	}
	if profile.TicketHours > 0 {
		opts = append(opts, quickbase.WithTicketHours(profile.TicketHours))
	}
	if profile.Timeout > 0 {
		opts = append(opts, quickbase.WithTimeout(profile.Timeout))
	}

	client, err := quickbase.NewClient(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, profile, nil
}

// openSession returns a session for the profile's ticket, authenticating
// with the profile's username and password when there is none.
func openSession(ctx context.Context) (*quickbase.Session, error) {
	client, profile, err := newClient()
	if err != nil {
		return nil, err
	}
	if profile.Ticket != "" {
		return client.Session(profile.Ticket), nil
	}
	if profile.Password == "" {
		profile.Password, err = readPassword(os.Stdin, os.Stderr, profile.User)
		if err != nil {
			return nil, err
		}
	}
	return client.Authenticate(ctx, profile.User, profile.Password)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
