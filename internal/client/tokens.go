package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenStore keeps the access token between runs.
type TokenStore interface {
	Get() string
	Set(token string) error
	Clear() error
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *MemoryTokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Set("")
}

type credentials struct {
	Server string `yaml:"server,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// FileTokenStore persists the token as YAML. Call Load before use and Close
// when done; Set and Clear write through immediately.
type FileTokenStore struct {
	path   string
	server string

	mu     sync.RWMutex
	creds  credentials
	loaded bool
}

// DefaultTokenPath is credentials.yaml under the user's config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "humandns", "credentials.yaml"), nil
}

// NewFileTokenStore stores tokens for server in the file at path. A token
// saved for a different server is ignored.
func NewFileTokenStore(path, server string) *FileTokenStore {
	return &FileTokenStore{path: path, server: server}
}

func (s *FileTokenStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	var creds credentials
	if err := yaml.Unmarshal(raw, &creds); err != nil {
		return fmt.Errorf("parse credentials %s: %w", s.path, err)
	}
	if creds.Server == s.server {
		s.creds = creds
	}
	s.loaded = true
	return nil
}

func (s *FileTokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{Server: s.server, Token: token}
	return s.write()
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Close flushes the current token. Nothing is written if Load never ran.
func (s *FileTokenStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.creds.Token == "" {
		return nil
	}
	return s.write()
}

func (s *FileTokenStore) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(s.creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
