package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// DefaultSessionLifetime is how long a login session stays valid.
const DefaultSessionLifetime = 7 * 24 * time.Hour

// SessionService manages server-side sessions. The token handed to the
// client is an opaque uuid; all session state lives in the store.
type SessionService struct {
	sessions repository.SessionRepository
	lifetime time.Duration
}

// NewSessionService creates a SessionService. A non-positive lifetime falls
// back to DefaultSessionLifetime.
func NewSessionService(sessions repository.SessionRepository, lifetime time.Duration) *SessionService {
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &SessionService{sessions: sessions, lifetime: lifetime}
}

// Start opens a new session for the user, replacing any existing ones so an
// account holds a single active session.
func (s *SessionService) Start(ctx context.Context, userID string) (*model.Session, error) {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("auth: clearing previous sessions: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth: creating session: %w", err)
	}
	return session, nil
}

// Resolve maps a cookie token to its session. Expired sessions are deleted
// on sight and reported as unauthorized.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.Session, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized()
		}
		return nil, fmt.Errorf("auth: resolving session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		_ = s.sessions.DeleteByToken(ctx, token)
		return nil, apperror.Unauthorized()
	}
	return session, nil
}

// End destroys the session for the given token. Ending an unknown token is
// not an error.
func (s *SessionService) End(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("auth: ending session: %w", err)
	}
	return nil
}

// SetCookie writes the session cookie. HttpOnly keeps it away from
// client-side scripts; SameSite=Lax limits cross-site sends.
func SetCookie(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
