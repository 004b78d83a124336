package service

import (
	"context"
	"log/slog"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/gerneth/secretapp/pkg/slogx"
)

// SecretService owns the shared secret collection. Both operations assume the
// caller has already passed the authentication gate; Create stamps the secret
// with the authenticated identity it is handed.
type SecretService struct {
	Store store.Store
}

// List returns all secrets with their creators resolved to usernames.
func (s *SecretService) List(ctx context.Context) ([]domain.SecretView, error) {
	return s.Store.Secrets().ListSecrets(ctx)
}

// Create stores a new secret created by the given identity and returns its
// id. The body carries no schema beyond being present.
func (s *SecretService) Create(ctx context.Context, body string, creator domain.Identity) (int64, error) {
	if body == "" {
		return 0, ErrInvalidParameter
	}

	id, err := s.Store.Secrets().CreateSecret(ctx, domain.Secret{
		Body:      body,
		CreatedBy: creator.UserID,
	})
	if err != nil {
		return 0, err
	}

	slogx.FromContext(ctx).Info("secret created",
		slog.Int64("secret_id", id),
		slog.Int64("created_by", creator.UserID),
	)

	return id, nil
}
