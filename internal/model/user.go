// Package model defines the record types stored and served by the platform.
//
// The hierarchy is User → Project → Page → Snippet → Comment. Parent
// references are denormalized downward (a Snippet knows its Project, a
// Comment knows its whole chain) so ownership checks and cascade deletes
// never walk more than one level up.
package model

import "time"

// User is the root of ownership. The password hash is never serialized.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// MinUsernameLength is the shortest username accepted at registration.
const MinUsernameLength = 3

// Password length bounds enforced at registration.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 16
)
