package models

import "time"

// User represents a user in the system
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not serialized
	CreatedAt    time.Time `json:"created_at"`
}

// MemberDetails is the public profile of a group member
type MemberDetails struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}
