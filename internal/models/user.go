package models

import "time"

// User is the authoritative account record. PasswordHash never leaves
// the backend.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Bio          string    `db:"bio" json:"bio"`
	Role         string    `db:"role" json:"role"`
	Enabled      bool      `db:"enabled" json:"enabled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Roles stored on the users table.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
