package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// SessionStore implements repository.SessionRepository.
type SessionStore struct {
	conn *sql.DB
}

var _ repository.SessionRepository = (*SessionStore)(nil)

func (s *SessionStore) Create(ctx context.Context, session *model.Session) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session: %w", err)
	}
	return nil
}

func (s *SessionStore) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := s.conn.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", token)
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) DeleteByToken(ctx context.Context, token string) error {
	if _, err := s.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token,
	); err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session belonging to a user. Login calls this
// so each account holds at most one active session.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("sqlite: deleting sessions for user %s: %w", userID, err)
	}
	return nil
}
