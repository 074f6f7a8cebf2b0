// Package storage keeps the admin CLI's session between invocations and
// reads interactive input.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("not signed in, run the login command first")

// Session is what the CLI remembers after a successful login.
type Session struct {
	BaseURL   string    `json:"baseUrl"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenStore persists a Session as a private JSON file.
type TokenStore struct {
	Path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewTokenStore stores the session at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{Path: path, now: time.Now}
}

// DefaultPath is ~/.baristactl/session.json, or the working directory
// when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "baristactl-session.json"
	}
	return filepath.Join(home, ".baristactl", "session.json")
}

// Load returns the stored session. A missing or expired session yields ErrNoSession.
func (s *TokenStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Token == "" || !sess.ExpiresAt.After(s.now()) {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save writes sess, readable by the current user only.
func (s *TokenStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear forgets the stored session.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
