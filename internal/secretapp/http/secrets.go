package http

import (
	"errors"
	"net/http"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
	"github.com/gerneth/secretapp/internal/secretapp/service"
	"github.com/gerneth/secretapp/pkg/apierr"
	"github.com/gerneth/secretapp/pkg/httpx"
	"github.com/gerneth/secretapp/pkg/slogx"
)

type SecretsHandler struct {
	AuthService   *service.AuthService
	SecretService *service.SecretService
}

type secretItem struct {
	ID        int64  `json:"id"`
	Secret    string `json:"secret"`
	CreatedBy string `json:"created_by"`
}

type secretListResponse struct {
	Secrets []secretItem `json:"secrets"`
}

type secretCreatedResponse struct {
	Result string `json:"result"`
	ID     int64  `json:"id"`
}

// HandleList handles GET /secrets: list all secrets with creator usernames.
func (h *SecretsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.requireAuth(w, r); err != nil {
		return
	}

	secrets, err := h.SecretService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list secrets", "error", err)
		apierr.ErrServerError.WriteError(w)
		return
	}

	items := make([]secretItem, 0, len(secrets))
	for _, s := range secrets {
		items = append(items, secretItem{
			ID:        s.ID,
			Secret:    s.Body,
			CreatedBy: s.CreatedBy,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, secretListResponse{Secrets: items})
}

// HandleCreate handles POST /secrets: store a new secret stamped with the
// authenticated caller.
func (h *SecretsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := h.requireAuth(w, r)
	if err != nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		apierr.ErrInvalidParameter.WriteError(w)
		return
	}

	id, err := h.SecretService.Create(ctx, r.FormValue("secret"), identity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, secretCreatedResponse{
		Result: "ok",
		ID:     id,
	})
}

// requireAuth authenticates the request, writing the 401 challenge itself on
// denial. The returned identity is threaded explicitly into service calls.
func (h *SecretsHandler) requireAuth(w http.ResponseWriter, r *http.Request) (domain.Identity, error) {
	identity, err := h.AuthService.RequireAuth(r)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apierr.WriteUnauthorized(w, authRealm)
		} else {
			slogx.FromContext(r.Context()).Error("authentication failed unexpectedly", "error", err)
			apierr.ErrServerError.WriteError(w)
		}
		return domain.Identity{}, err
	}
	return identity, nil
}
