// Package models holds the server-side records shared by repositories,
// services and transports.
package models

import "time"

// Status describes the last sign-in action of a user. It is informational:
// token validity never depends on it.
type Status string

const (
	StatusLoggedIn  Status = "LOGGED_IN"
	StatusLoggedOut Status = "LOGGED_OUT"
)

// User is the credential record of an account. Email and Phone are
// alternative login identifiers; at least one is set and each is unique.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Image        string
	PasswordHash string
	TokenVersion int64
	Status       Status
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a User. It never carries the password hash.
type Profile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Image  string `json:"image,omitempty"`
	Status Status `json:"status"`
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Image:  u.Image,
		Status: u.Status,
	}
}
