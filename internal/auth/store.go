// Package auth owns the bearer token: its persistence, and the login
// and logout flows against the backend session endpoints.
package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore holds the single bearer token and persists it to a file
// under a fixed path. An absent or empty file means logged out. All
// reads and writes of the token go through here; the token is only
// ever fully overwritten or fully cleared.
type TokenStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// NewTokenStore loads any previously persisted token from path. A
// missing file is not an error; it just means no session.
func NewTokenStore(path string) (*TokenStore, error) {
	s := &TokenStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Set stores and persists the token. A persistence failure leaves the
// in-memory token set so the running session keeps working.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear wipes the token in memory and on disk.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// AuthHeader returns the Authorization header to attach to outbound
// requests, or an empty map when no token is held.
func (s *TokenStore) AuthHeader() map[string]string {
	tok := s.Token()
	if tok == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}
