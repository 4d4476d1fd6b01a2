package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"hack-or-snooze/internal/config"
	"hack-or-snooze/internal/credstore"
	"hack-or-snooze/internal/hackorsnooze"
	"hack-or-snooze/internal/redisclient"
	"hack-or-snooze/internal/session"
)

// commandTimeout bounds the network work of one command.
const commandTimeout = 30 * time.Second

func newAPIClient(cfg config.Config) (*hackorsnooze.Client, error) {
	timeout, err := time.ParseDuration(cfg.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid api.timeout: %w", err)
	}
	return hackorsnooze.NewClient(cfg.API.BaseURL, timeout), nil
}

// openCredentialStore returns the configured store and a func releasing it.
func openCredentialStore(cfg config.Config) (credstore.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Session.Backend)) {
	case "sqlite":
		path := os.ExpandEnv(cfg.Session.SQLitePath)
		st, err := credstore.OpenSQLite(path, cfg.Session.Profile)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	case "redis":
		ttl, err := time.ParseDuration(cfg.Session.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid session.ttl: %w", err)
		}
		rdb := redisclient.New(cfg.Redis)
		return credstore.NewRedisStore(rdb, cfg.Session.Profile, ttl), func() { rdb.Close() }, nil
	case "memory":
		return credstore.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session.backend %q (want sqlite, redis or memory)", cfg.Session.Backend)
	}
}

// openSession builds a session and resumes any stored login. Resuming never
// fails the command; without it the session is simply logged out.
func openSession(ctx context.Context, cfg config.Config) (*session.Session, func(), error) {
	client, err := newAPIClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openCredentialStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(client, store, slog.Default())
	if u := sess.Restore(ctx); u != nil {
		slog.Debug("session: resumed", "username", u.Username)
	}
	return sess, closeStore, nil
}

func requireLogin(sess *session.Session) error {
	if !sess.LoggedIn() {
		return fmt.Errorf("not logged in: run `hack-or-snooze login <username>` first")
	}
	return nil
}
