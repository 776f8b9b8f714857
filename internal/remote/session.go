package remote

import "sync"

// Session holds the authenticated user's credential for the lifetime of a
// login. It is constructed by Auth.SignIn (or restored from saved
// credentials), passed explicitly to every component that needs remote
// access, and cleared on logout.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
}

// NewSession restores a session from a previously obtained token and user
// id, e.g. saved credentials from an earlier sign-in.
func NewSession(token, userID string) *Session {
	return &Session{token: token, userID: userID}
}

// Set replaces the credential.
func (s *Session) Set(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = userID
}

// Clear drops the credential; the session is no longer Valid.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
}

// Token returns the bearer access token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the authenticated user's id, empty when signed out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.userID != ""
}
