package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TokenTTL is how long a stored token is kept before the store treats it
// as gone. This mirrors the browser cookie lifetime; the token itself
// expires server-side after 24 hours, so a kept-but-expired token simply
// fails verification on the next request.
const TokenTTL = 7 * 24 * time.Hour

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	// Token returns the stored token, or "" when none is stored or the
	// stored one has outlived TokenTTL.
	Token() (string, error)
	// Save stores the token with a fresh TTL.
	Save(token string) error
	// Clear removes the stored token.
	Clear() error
}

type storedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileStore keeps the token in a JSON file, the CLI equivalent of the
// browser's auth-token cookie.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultStorePath returns the conventional token file location under the
// user's home directory.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".accountd", "token.json"), nil
}

func (s *FileStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		// Corrupt file: treat as logged out.
		return "", nil
	}
	if st.Token == "" || s.now().After(st.ExpiresAt) {
		return "", nil
	}
	return st.Token, nil
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(storedToken{
		Token:     token,
		ExpiresAt: s.now().Add(TokenTTL),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemStore is an in-memory TokenStore for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
