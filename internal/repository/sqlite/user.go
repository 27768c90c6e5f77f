package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// UserStore implements repository.UserRepository.
type UserStore struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user, generating its id and creation timestamp.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.get(ctx, `WHERE username = ?`, username)
}

func (s *UserStore) get(ctx context.Context, where string, arg string) (*model.User, error) {
	var user model.User
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
}

func (s *UserStore) exists(ctx context.Context, query, arg string) (bool, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: checking user existence: %w", err)
	}
	return count > 0, nil
}

// Delete removes a user account. Comments posted by the user are left in
// place; enrichment renders them with a placeholder username.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}
