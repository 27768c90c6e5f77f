package service

import (
	"context"
	"errors"
	"testing"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/auth"
)

func newTestAccountService(t *testing.T) *AccountService {
	t.Helper()
	db := newTestDB(t)
	return NewAccountService(db.Users, auth.NewPasswordServiceForTest(4), discardLogger())
}

func TestRegister(t *testing.T) {
	svc := newTestAccountService(t)

	user, validity, err := svc.Register(context.Background(), "alice", "alice@example.com", "Password1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !validity.UsernameValid || !validity.EmailValid || !validity.PasswordValid {
		t.Errorf("validity = %+v, want all true", validity)
	}
	if user.ID == "" {
		t.Error("Register() did not assign an id")
	}
	if user.PasswordHash == "Password1" {
		t.Error("password stored in plaintext")
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     RegistrationValidity
	}{
		{
			name:     "short username",
			username: "al",
			email:    "al@example.com",
			password: "Password1",
			want:     RegistrationValidity{UsernameValid: false, EmailValid: true, PasswordValid: true},
		},
		{
			name:     "malformed email",
			username: "alice",
			email:    "not-an-email",
			password: "Password1",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: false, PasswordValid: true},
		},
		{
			name:     "password too short",
			username: "alice",
			email:    "alice@example.com",
			password: "Pass1",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: false},
		},
		{
			name:     "password too long",
			username: "alice",
			email:    "alice@example.com",
			password: "Password1Password1",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: false},
		},
		{
			name:     "password missing digit",
			username: "alice",
			email:    "alice@example.com",
			password: "Passwords",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: false},
		},
		{
			name:     "password missing uppercase",
			username: "alice",
			email:    "alice@example.com",
			password: "password1",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: false},
		},
		{
			name:     "password missing lowercase",
			username: "alice",
			email:    "alice@example.com",
			password: "PASSWORD1",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: false},
		},
		{
			name:     "password with disallowed character",
			username: "alice",
			email:    "alice@example.com",
			password: "Password1 ",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: false},
		},
		{
			name:     "password with allowed symbol",
			username: "alice",
			email:    "alice@example.com",
			password: "Password1!",
			want:     RegistrationValidity{UsernameValid: true, EmailValid: true, PasswordValid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAccountService(t)

			_, validity, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			if validity != tt.want {
				t.Errorf("validity = %+v, want %+v", validity, tt.want)
			}
			allValid := tt.want.UsernameValid && tt.want.EmailValid && tt.want.PasswordValid
			if allValid && err != nil {
				t.Errorf("Register() error = %v, want nil", err)
			}
			if !allValid && !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "Password1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, validity, err := svc.Register(ctx, "alice", "other@example.com", "Password1")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
	if validity.UsernameValid {
		t.Error("UsernameValid = true for a taken username")
	}
	if !validity.EmailValid || !validity.PasswordValid {
		t.Errorf("validity = %+v, only the username should fail", validity)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "Password1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, validity, err := svc.Register(ctx, "bob", "alice@example.com", "Password1")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
	if validity.EmailValid {
		t.Error("EmailValid = true for a taken email")
	}
}

func TestLogin(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice", "alice@example.com", "Password1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Login(ctx, "alice", "Password1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Login() returned user %s, want %s", user.ID, registered.ID)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "Password1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Wrong password and unknown username fail the same way.
	if _, err := svc.Login(ctx, "alice", "WrongPass1"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login(wrong password) error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(ctx, "nobody", "Password1"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login(unknown user) error = %v, want ErrUnauthorized", err)
	}
}
