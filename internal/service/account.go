package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// emailPattern is a sanity check on shape, not a full validation; real
// verification would mean sending mail to the address.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegistrationValidity reports which registration fields were acceptable.
// It is the response body for both the success and failure cases.
type RegistrationValidity struct {
	UsernameValid bool `json:"usernameValid"`
	EmailValid    bool `json:"emailValid"`
	PasswordValid bool `json:"passwordValid"`
}

func (v RegistrationValidity) ok() bool {
	return v.UsernameValid && v.EmailValid && v.PasswordValid
}

// AccountService handles registration and credential checks.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, passwords: passwords, logger: logger}
}

// Register validates and creates a new account. On validation failure the
// returned validity flags identify the offending fields and the error wraps
// apperror.ErrValidation; the flags are meaningful in both outcomes.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, RegistrationValidity, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	validity := RegistrationValidity{
		UsernameValid: len(username) >= model.MinUsernameLength,
		EmailValid:    emailPattern.MatchString(email),
		PasswordValid: passwordAcceptable(password),
	}

	if validity.UsernameValid {
		taken, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return nil, validity, fmt.Errorf("registering user: %w", err)
		}
		validity.UsernameValid = !taken
	}
	if validity.EmailValid {
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, validity, fmt.Errorf("registering user: %w", err)
		}
		validity.EmailValid = !taken
	}

	if !validity.ok() {
		return nil, validity, apperror.ValidationFailed("registration", "registration fields failed validation")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, validity, fmt.Errorf("registering user: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, validity, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, validity, nil
}

// Login verifies a username/password pair. Unknown username and wrong
// password are reported identically as unauthorized.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized()
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized()
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return user, nil
}

// passwordAcceptable enforces the registration password policy: between 8
// and 16 characters from the allowed set, with at least one digit, one
// lowercase, and one uppercase letter.
func passwordAcceptable(password string) bool {
	if len(password) < model.MinPasswordLength || len(password) > model.MaxPasswordLength {
		return false
	}

	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case strings.ContainsRune("!@#$%^&*", r):
			// allowed special characters
		default:
			return false
		}
	}
	return hasDigit && hasLower && hasUpper
}
