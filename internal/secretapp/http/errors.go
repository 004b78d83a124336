package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gerneth/secretapp/internal/secretapp/service"
	"github.com/gerneth/secretapp/pkg/apierr"
	"github.com/gerneth/secretapp/pkg/slogx"
)

// authRealm is the realm announced in Basic auth challenges.
const authRealm = "secretapp"

// writeServiceError maps service-layer sentinel errors onto the API error
// taxonomy. This is the single place where domain failures become status
// codes.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidParameter):
		apierr.ErrInvalidParameter.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		apierr.ErrResourceExists.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		apierr.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrTokenMismatch):
		apierr.ErrValueMismatch.WriteError(w)
	case errors.Is(err, service.ErrNotifyFailed):
		apierr.ErrNotifyFailed.WriteError(w)
	default:
		slogx.FromContext(ctx).Error("unhandled service error", "error", err)
		apierr.ErrServerError.WriteError(w)
	}
}
