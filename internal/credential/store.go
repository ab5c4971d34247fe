// Package credential persists the bearer token and cached profile between runs.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/analytiq/analytiq/pkg/domain"
)

// ErrNotFound is returned by Load when no token is stored.
var ErrNotFound = errors.New("credential: no token stored")

// Credential is what a Store hands back: the token plus the last known profile.
type Credential struct {
	Token string
	User  *domain.User
}

// Store is client-local credential storage.
type Store interface {
	Load() (*Credential, error)
	SaveToken(token string) error
	SaveUser(u *domain.User) error
	Clear() error
}

// FileStore keeps the token and profile as files under a state directory,
// normally ~/.analytiq.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The directory is created lazily.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDir returns ~/.analytiq.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".analytiq"), nil
}

// Dir returns the state directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) tokenPath() string { return filepath.Join(s.dir, "token") }
func (s *FileStore) userPath() string  { return filepath.Join(s.dir, "user.json") }

// Load reads the stored token and, if present, the cached profile.
// A corrupt profile file is ignored rather than failing the load.
func (s *FileStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("credential.Load: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return nil, ErrNotFound
	}

	cred := &Credential{Token: tok}
	if raw, err := os.ReadFile(s.userPath()); err == nil {
		var u domain.User
		if json.Unmarshal(raw, &u) == nil {
			cred.User = &u
		}
	}
	return cred, nil
}

// SaveToken writes the token with owner-only permissions.
func (s *FileStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := writeFileAtomic(s.tokenPath(), []byte(token)); err != nil {
		return fmt.Errorf("credential.SaveToken: %w", err)
	}
	return nil
}

// SaveUser caches the profile. A nil user removes the cache.
func (s *FileStore) SaveUser(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		if err := os.Remove(s.userPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("credential.SaveUser: %w", err)
		}
		return nil
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("credential.SaveUser: marshal: %w", err)
	}
	if err := writeFileAtomic(s.userPath(), data); err != nil {
		return fmt.Errorf("credential.SaveUser: %w", err)
	}
	return nil
}

// Clear removes the token and the cached profile. Missing files are not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, p := range []string{s.tokenPath(), s.userPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("credential.Clear: %w", err)
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory, then renames.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return err
	}
	return nil
}

// MemoryStore is a Store that never touches disk. It backs ANALYTIQ_TOKEN
// sessions and tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *domain.User
}

// NewMemoryStore returns a MemoryStore seeded with token (may be empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return nil, ErrNotFound
	}
	cred := &Credential{Token: s.token}
	if s.user != nil {
		u := *s.user
		cred.User = &u
	}
	return cred, nil
}

func (s *MemoryStore) SaveToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SaveUser(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return nil
	}
	cp := *u
	s.user = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return nil
}
