// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User is a registered account. Its ID is the owner id of watch entries and alerts.
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext
	Enabled      bool
	CreatedAt    time.Time
}
