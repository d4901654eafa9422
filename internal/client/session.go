package client

import "sync"

// SessionState holds the token obtained at login for the lifetime of the
// console. Guarded because the REPL may run requests on helper goroutines.
type SessionState struct {
	mu       sync.Mutex
	token    string
	username string
}

// Set records a freshly issued token.
func (s *SessionState) Set(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.token = token
}

// Clear forgets the current token.
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.token = ""
}

// Token returns the stored token, or the empty string when logged out.
func (s *SessionState) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Username returns the logged-in username.
func (s *SessionState) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// LoggedIn reports whether a token is held.
func (s *SessionState) LoggedIn() bool {
	return s.Token() != ""
}
