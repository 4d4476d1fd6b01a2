package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createCredentialsSQL = `
CREATE TABLE IF NOT EXISTS credentials (
	profile TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	token TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);
`

// SQLiteStore keeps credentials in a local SQLite file, one row per profile.
type SQLiteStore struct {
	db      *sql.DB
	profile string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path, profile string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("credstore: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("credstore: open database: %w", err)
	}
	if _, err := db.Exec(createCredentialsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore: create tables: %w", err)
	}
	return &SQLiteStore{db: db, profile: profile}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (Credentials, error) {
	var c Credentials
	err := s.db.QueryRowContext(ctx,
		`SELECT token, username FROM credentials WHERE profile = ?`, s.profile,
	).Scan(&c.Token, &c.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("credstore: sqlite load: %w", err)
	}
	if !c.Valid() {
		return Credentials{}, ErrNoCredentials
	}
	return c, nil
}

func (s *SQLiteStore) Save(ctx context.Context, c Credentials) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (profile, username, token, saved_at)
		VALUES (?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(profile) DO UPDATE SET
			username = excluded.username,
			token = excluded.token,
			saved_at = excluded.saved_at`,
		s.profile, c.Username, c.Token)
	if err != nil {
		return fmt.Errorf("credstore: sqlite save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE profile = ?`, s.profile); err != nil {
		return fmt.Errorf("credstore: sqlite clear: %w", err)
	}
	return nil
}
