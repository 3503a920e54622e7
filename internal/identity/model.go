package identity

import "time"

// User represents a registered platform customer.
type User struct {
	ID           string
	Email        string
	FullName     string
	PhoneNumber  string
	PasswordHash []byte
	Active       bool
	CreatedAt    time.Time
}

// Registration carries the data needed to onboard a user.
type Registration struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}
