// Package domain defines the core entities of the TalentTrack system.
package domain

import "time"

// User represents a recruiter account in the system.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"` // Display name, used for @mention matching
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // Argon2id encoded, filter from API responses
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Public returns a copy of the user safe for API responses,
// with the password hash stripped.
func (u *User) Public() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
