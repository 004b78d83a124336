package domain

import "time"

// Secret is a shared message. Immutable once created.
type Secret struct {
	ID        int64
	Body      string
	CreatedBy int64 // user id of the creator
	CreatedAt time.Time
}

// SecretView is a secret with its creator resolved to a username, the shape
// returned to API callers.
type SecretView struct {
	ID        int64
	Body      string
	CreatedBy string // creator username
}
