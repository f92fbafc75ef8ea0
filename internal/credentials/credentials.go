// Package credentials is the durable client-side storage: the bearer token
// pair, the guest session id, the device id, and the compare-list snapshot.
// It is the Go counterpart of the browser's persisted storage keys
// (accessToken, refreshToken, sessionId) the storefront UI relies on.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"perdecim-client/internal/model"
)

// state is the on-disk JSON document. One file, one shopper.
type state struct {
	AccessToken  string              `json:"accessToken,omitempty"`
	RefreshToken string              `json:"refreshToken,omitempty"`
	SessionID    string              `json:"sessionId,omitempty"`
	DeviceID     string              `json:"deviceId,omitempty"`
	CompareList  []model.CompareItem `json:"compareList,omitempty"`
}

// Store persists credentials to a JSON file with atomic replace semantics.
// Safe for concurrent use from a single process; cross-process locking is
// deliberately not attempted (single shopper, single client).
type Store struct {
	path string

	mu    sync.Mutex
	state state
}

// Open loads the store at path, creating the parent directory if needed.
// A missing file is an empty store, not an error.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating credentials dir: %w", err)
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return s, nil
}

// Tokens returns the stored token pair. Zero values when logged out.
func (s *Store) Tokens() model.TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.TokenPair{AccessToken: s.state.AccessToken, RefreshToken: s.state.RefreshToken}
}

// SaveTokens persists a new token pair.
func (s *Store) SaveTokens(t model.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = t.AccessToken
	s.state.RefreshToken = t.RefreshToken
	return s.flushLocked()
}

// ClearTokens removes the token pair. The guest session id survives: the
// server owns the decision to invalidate guest sessions, not the client.
func (s *Store) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = ""
	s.state.RefreshToken = ""
	return s.flushLocked()
}

// SessionID returns the stored guest session id, if any.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SessionID
}

// SaveSessionID persists a server-issued guest session id.
func (s *Store) SaveSessionID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SessionID = id
	return s.flushLocked()
}

// DeviceID returns the stable install identifier, generating and persisting
// one on first use.
func (s *Store) DeviceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DeviceID == "" {
		s.state.DeviceID = uuid.NewString()
		// Best effort: an unpersisted device id just means a new one
		// next run.
		_ = s.flushLocked()
	}
	return s.state.DeviceID
}

// CompareList returns the persisted compare-list snapshot.
func (s *Store) CompareList() []model.CompareItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CompareItem, len(s.state.CompareList))
	copy(out, s.state.CompareList)
	return out
}

// SaveCompareList persists the compare-list snapshot.
func (s *Store) SaveCompareList(items []model.CompareItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CompareList = make([]model.CompareItem, len(items))
	copy(s.state.CompareList, items)
	return s.flushLocked()
}

// AccessTokenExpiry parses the stored access token without verifying its
// signature and returns the expiry claim. Used for introspection (whoami,
// debug logs) only; expiry enforcement belongs to the server, and the API
// client refreshes reactively on TOKEN_EXPIRED.
func (s *Store) AccessTokenExpiry() (time.Time, error) {
	tok := s.Tokens().AccessToken
	if tok == "" {
		return time.Time{}, fmt.Errorf("no access token stored")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim")
	}
	return exp.Time, nil
}

// flushLocked writes the state to disk via temp file + rename so a crash
// mid-write never corrupts the stored credentials. Caller holds s.mu.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing credentials: %w", err)
	}
	return nil
}
