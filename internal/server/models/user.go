// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role gates access to mutating dashboard operations.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a dashboard account. Passwords are stored as bcrypt hashes.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}
