package domain

import "time"

// User is an account holder. Accounts start unvalidated and may only
// authenticate once the validation token has been consumed.
type User struct {
	ID              int64
	Username        string // email address, unique
	PasswordHash    string // argon2id encoded, never plaintext
	Validated       bool
	ValidationToken string // single-use, generated at registration
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Identity is the request-scoped proof of who is making a call. It is
// produced only by a successful authentication check and is never persisted
// or cached across requests.
type Identity struct {
	UserID   int64
	Username string
}
