package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portalmcp/pkg/logging"

	"golang.org/x/oauth2"
)

// User identifies the authenticated portal account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Name returns a display name for the user, falling back to the email
// address when no name parts are present.
func (u User) Name() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Session is one authenticated identity against the portal. A session is
// either fully valid (not yet expired) or treated as absent; there is no
// partially valid state.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the session has expired. Comparison is strict:
// an ExpiresAt before now means expired.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// SessionStore persists a single authentication session to a JSON document
// on disk, with an in-process cache to avoid redundant reads.
//
// SECURITY: This store handles the bearer credential for the portal. The
// session file is created with 0600 permissions and its directory with
// 0700, so the token never lands in group or world readable storage.
// Token values are never logged.
type SessionStore struct {
	mu     sync.RWMutex
	path   string
	cached *Session
}

// NewSessionStore creates a session store backed by the file at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Path returns the location of the persisted session file.
func (s *SessionStore) Path() string {
	return s.path
}

// Load returns the current session, or nil when no valid session exists.
// The in-memory cache is consulted first; otherwise the persisted file is
// read. An expired or corrupt file is removed and treated as absent.
func (s *SessionStore) Load() *Session {
	now := time.Now()

	s.mu.RLock()
	if s.cached != nil && !s.cached.Expired(now) {
		session := s.cached
		s.mu.RUnlock()
		return session
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock in case another invocation loaded it.
	if s.cached != nil {
		if !s.cached.Expired(now) {
			return s.cached
		}
		s.cached = nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		logging.Warn("Auth", "Session file %s is corrupt, removing it", s.path)
		s.removeFileLocked()
		return nil
	}

	if session.Expired(now) {
		logging.Info("Auth", "SECURITY_AUDIT: stored session expired at %s, removing it", session.ExpiresAt.Format(time.RFC3339))
		s.removeFileLocked()
		return nil
	}

	s.cached = &session
	return s.cached
}

// Save writes the session to disk and updates the in-memory cache. The
// containing directory is created with owner-only permissions if absent.
func (s *SessionStore) Save(session *Session) error {
	if session == nil {
		return errors.New("cannot save nil session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		logging.Warn("Auth", "SECURITY_AUDIT: session persistence failed: %v", err)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	s.cached = session

	logging.Info("Auth", "SECURITY_AUDIT: session stored for %s (expires %s)",
		session.User.Email, session.ExpiresAt.Format(time.RFC3339))
	return nil
}

// StoreToken builds a Session from an OAuth token and the verified user
// identity, then persists it. The token's expiry becomes the session expiry.
func (s *SessionStore) StoreToken(token *oauth2.Token, user User) (*Session, error) {
	session := &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
		User:         user,
		CreatedAt:    time.Now(),
	}
	if err := s.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Clear removes the persisted session and the in-memory cache. Clearing
// when no session exists is not an error.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.removeFileLocked()

	logging.Info("Auth", "SECURITY_AUDIT: session cleared")
	return nil
}

// Invalidate drops the in-memory cache without touching the file. The next
// Load re-reads disk. Used when another process modifies the session file.
func (s *SessionStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// IsAuthenticated reports whether a valid session exists.
func (s *SessionStore) IsAuthenticated() bool {
	return s.Load() != nil
}

// CurrentUser returns the authenticated user, or nil when unauthenticated.
func (s *SessionStore) CurrentUser() *User {
	session := s.Load()
	if session == nil {
		return nil
	}
	user := session.User
	return &user
}

// AccessToken returns the bearer token, or the empty string when
// unauthenticated.
func (s *SessionStore) AccessToken() string {
	session := s.Load()
	if session == nil {
		return ""
	}
	return session.AccessToken
}

// removeFileLocked deletes the session file, tolerating absence.
// REQUIRES: s.mu must be held by the caller.
func (s *SessionStore) removeFileLocked() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logging.Warn("Auth", "Failed to remove session file %s: %v", s.path, err)
	}
}
