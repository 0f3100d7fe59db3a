// Package client is a Go consumer of the dashboard API. It mirrors
// what the web frontend does: credentials are cached locally, verified
// against /auth/me on startup, and every request carries the bearer
// token with a uniform logout on 401.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"campaignboard/models"
)

// Session states
type SessionState string

const (
	// StateNone means no credentials are cached.
	StateNone SessionState = "none"
	// StateUnverified means cached credentials exist but have not
	// been checked against the server yet.
	StateUnverified SessionState = "unverified"
	// StateVerifying means a verification round-trip is in flight.
	StateVerifying SessionState = "verifying"
	// StateVerified means the server confirmed the identity, or the
	// server was unreachable and the cached identity is trusted.
	StateVerified SessionState = "verified"
	// StateExpired means the server explicitly rejected the
	// credentials and they have been cleared.
	StateExpired SessionState = "expired"
)

// Credentials is what the session persists between runs.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CredentialStore persists credentials between runs.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(*Credentials) error
	Clear() error
}

// FileStore keeps credentials in a JSON file, the CLI analogue of the
// browser's local storage.
type FileStore struct {
	Path string
}

func (f *FileStore) Load() (*Credentials, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	if creds.Token == "" {
		return nil, nil
	}
	return &creds, nil
}

func (f *FileStore) Save(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Session tracks the cached identity and its verification state.
type Session struct {
	mu    sync.Mutex
	store CredentialStore
	state SessionState
	creds *Credentials
}

// NewSession hydrates a session from the store. Corrupt or missing
// credentials leave the session empty rather than failing.
func NewSession(store CredentialStore) *Session {
	s := &Session{store: store, state: StateNone}
	creds, err := store.Load()
	if err != nil || creds == nil {
		return s
	}
	s.creds = creds
	s.state = StateUnverified
	return s
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the cached identity, or nil when logged out.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil
	}
	u := s.creds.User
	return &u
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// SetCredentials installs a fresh login and persists it.
func (s *Session) SetCredentials(token string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &Credentials{Token: token, User: user}
	s.state = StateVerified
	return s.store.Save(s.creds)
}

// markVerified refreshes the cached identity after a successful
// verification round-trip.
func (s *Session) markVerified(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return errors.New("no credentials to verify")
	}
	s.creds.User = user
	s.state = StateVerified
	return s.store.Save(s.creds)
}

// markVerifying flips the session into the in-flight state and hands
// back the token to present. Returns false when there is nothing to
// verify.
func (s *Session) markVerifying() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return "", false
	}
	s.state = StateVerifying
	return s.creds.Token, true
}

// abortVerify rolls an aborted verification attempt back to
// UNVERIFIED; the round-trip never happened, so the credentials are
// neither trusted nor rejected.
func (s *Session) abortVerify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds != nil {
		s.state = StateUnverified
	}
}

// trustCached keeps the cached identity when the server cannot be
// reached. An unreachable server is not a rejection.
func (s *Session) trustCached() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds != nil {
		s.state = StateVerified
	}
}

// Expire clears the credentials after an explicit server rejection.
func (s *Session) Expire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	s.state = StateExpired
	return s.store.Clear()
}

// Logout clears the credentials on user request.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	s.state = StateNone
	return s.store.Clear()
}
