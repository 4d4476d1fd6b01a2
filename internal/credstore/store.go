// Package credstore remembers the login token between runs so a session can
// be resumed without asking for the password again.
package credstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoCredentials is returned by Load when nothing is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is what a session needs to log back in.
type Credentials struct {
	Token    string
	Username string
}

// Valid reports whether both fields are present.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.Username) != ""
}

// Store persists credentials for one profile.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, c Credentials) error
	Clear(ctx context.Context) error
}

// Memory keeps credentials for the lifetime of the process only.
type Memory struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return Credentials{}, ErrNoCredentials
	}
	return *m.creds, nil
}

func (m *Memory) Save(ctx context.Context, c Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &c
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}
