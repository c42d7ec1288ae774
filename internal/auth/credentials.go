// Package auth holds the client-side credential lifecycle: a token pair
// issued at sign-in, stored through an explicit provider, and cleared at
// sign-out or when a refresh is rejected.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the credential pair issued by the user service.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// ErrNoCredentials is returned by providers when nothing is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// CredentialProvider stores the current token pair. Implementations must be
// safe for concurrent use: the API client reads on every request and writes
// after every refresh.
type CredentialProvider interface {
	Get() (TokenPair, error)
	Set(TokenPair) error
	Clear() error
}

// MemoryStore keeps the token pair in process memory only.
type MemoryStore struct {
	mu    sync.Mutex
	pair  TokenPair
	valid bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return TokenPair{}, ErrNoCredentials
	}
	return s.pair, nil
}

func (s *MemoryStore) Set(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.valid = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.valid = false
	return nil
}

// FileStore persists the token pair as a JSON file, the way OAuth token
// files are kept for CLI tools. The file is created with 0600 permissions.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return TokenPair{}, ErrNoCredentials
		}
		return TokenPair{}, fmt.Errorf("read credentials file: %w", err)
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("parse credentials file: %w", err)
	}
	if pair.AccessToken == "" && pair.RefreshToken == "" {
		return TokenPair{}, ErrNoCredentials
	}
	return pair, nil
}

func (s *FileStore) Set(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials file: %w", err)
	}
	return nil
}

// Expired reports whether the access token's exp claim is already in the
// past. The token is decoded without signature verification: the server
// remains the authority, this only skips requests that are certain to come
// back 401. Tokens that do not parse or carry no exp claim count as not
// expired so the server gets the final say.
func Expired(accessToken string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
