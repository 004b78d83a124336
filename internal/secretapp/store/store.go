package store

import (
	"context"
	"errors"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite) implement
// this. It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Secrets() Secrets

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Use it for
	// multi-step operations that must be atomic, like the duplicate-username
	// check followed by the insert during registration.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the store.
type Tx interface {
	Users() Users
	Secrets() Secrets
}

type Users interface {
	// CreateUser inserts a new user and returns the assigned id. The username
	// is covered by a unique index; violations surface as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during login and the registration
	// duplicate check. Lookup is an exact, case-sensitive match.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// MarkUserValidated flips validated to true. Idempotent: marking an
	// already-validated user succeeds without changing state.
	MarkUserValidated(ctx context.Context, id int64) error

	// DeleteUser permanently removes the user record. Only used to roll back
	// a registration whose activation notification could not be delivered.
	DeleteUser(ctx context.Context, id int64) error
}

type Secrets interface {
	// CreateSecret inserts a new secret and returns the assigned id.
	// CreatedBy must reference an existing user (FK enforced).
	CreateSecret(ctx context.Context, s domain.Secret) (int64, error)

	// ListSecrets returns all secrets with the creator resolved to a
	// username, oldest first.
	ListSecrets(ctx context.Context) ([]domain.SecretView, error)
}
