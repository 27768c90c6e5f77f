package model

import "time"

// Session is a server-side login session. The token is the opaque value
// carried in the session cookie; nothing about its format is part of the
// API contract.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    string    `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
}

// Expired reports whether the session is past its expiry at time now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
