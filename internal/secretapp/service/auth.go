package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/gerneth/secretapp/pkg/cryptox"
	"github.com/gerneth/secretapp/pkg/slogx"
)

// ErrInvalidCredentials is the single denial returned for every
// authentication failure. An unknown username, a wrong password and a
// correct-but-unvalidated account are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is the authentication gate invoked per inbound request. The
// identity it returns is scoped to that request only and is never persisted.
type AuthService struct {
	Store store.Store
}

// Authenticate verifies a username/password pair and returns the caller's
// identity. Unvalidated accounts are denied even with correct credentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidCredentials
		}
		log.Error("failed to look up user during authentication", "error", err)
		return domain.Identity{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}

	if !user.Validated {
		// Same denial as a wrong password; nothing leaks about the account.
		return domain.Identity{}, ErrInvalidCredentials
	}

	return domain.Identity{UserID: user.ID, Username: user.Username}, nil
}

// RequireAuth extracts HTTP Basic credentials from the request and
// authenticates them. Handlers call this on every protected operation and
// thread the returned identity explicitly into downstream calls.
func (s *AuthService) RequireAuth(r *http.Request) (domain.Identity, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return s.Authenticate(r.Context(), username, password)
}
