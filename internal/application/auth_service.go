package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// AuthService validates credentials against the static roster and owns the
// token to user mapping. Token issuance and validation are the only
// mutations; both run under the service mutex so concurrent connection
// goroutines never race on the map.
type AuthService struct {
	roster         *Roster
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	tokenTTL       time.Duration
	logger         *slog.Logger

	mu       sync.RWMutex
	sessions map[string]Session
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// NewAuthService constructs an AuthService with the provided dependencies.
// A tokenTTL of zero means tokens never expire within the process lifetime.
func NewAuthService(roster *Roster, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, tokenTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(roster, verify, tokenGenerator, now, tokenTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(roster *Roster, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		roster:         roster,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		now:            now,
		tokenTTL:       tokenTTL,
		logger:         defaultLogger(logger),
		sessions:       make(map[string]Session),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login validates credentials and issues a new session token. Re-login does
// not revoke tokens issued earlier for the same user.
func (s *AuthService) Login(ctx context.Context, username, password string) (session Session, err error) {
	if s == nil || s.roster == nil {
		err = fmt.Errorf("auth service roster not configured")
		return
	}

	username = strings.TrimSpace(username)
	logger := s.loggerWith(ctx, "Login", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	if username == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	hash, ok := s.roster.Lookup(username)
	if !ok {
		err = ErrInvalidCredentials
		return
	}
	if verr := s.verifyPassword(hash, password); verr != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	session = Session{
		Username:  username,
		Token:     s.tokenGenerator(),
		CreatedAt: now,
	}
	if s.tokenTTL > 0 {
		session.ExpiresAt = now.Add(s.tokenTTL)
	}
	if session.Token == "" {
		err = fmt.Errorf("token generator produced an empty token")
		return
	}

	s.mu.Lock()
	// Regenerate on the vanishingly unlikely collision with a live token.
	for {
		if _, exists := s.sessions[session.Token]; !exists {
			break
		}
		session.Token = s.tokenGenerator()
	}
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session, nil
}

// ValidateToken resolves a bearer token to its principal. Every protected
// route calls this before touching the reservation service.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("auth service is nil")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateToken", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "token validation failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if trimmed == "" {
		err = ErrUnauthorized
		return
	}

	s.mu.RLock()
	session, ok := s.sessions[trimmed]
	s.mu.RUnlock()
	if !ok {
		err = ErrUnauthorized
		return
	}
	if session.RevokedAt != nil {
		err = ErrSessionRevoked
		return
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(s.now()) {
		err = ErrSessionExpired
		return
	}

	principal = Principal{Username: session.Username}
	return principal, nil
}

// RevokeToken invalidates a previously issued token.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("auth service is nil")
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "RevokeToken", "token_provided", trimmed != "")
	if trimmed == "" {
		return ErrUnauthorized
	}

	now := s.now()
	s.mu.Lock()
	session, ok := s.sessions[trimmed]
	if ok && session.RevokedAt == nil {
		session.RevokedAt = &now
		s.sessions[trimmed] = session
	}
	s.mu.Unlock()

	if !ok {
		logger.ErrorContext(ctx, "revocation target unknown", "error_kind", "unauthorized")
		return ErrUnauthorized
	}
	logger.InfoContext(ctx, "token revoked", "username", session.Username)
	return nil
}

// ActiveSessions counts tokens that are neither revoked nor expired.
func (s *AuthService) ActiveSessions() int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, session := range s.sessions {
		if session.RevokedAt != nil {
			continue
		}
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
			continue
		}
		count++
	}
	return count
}
