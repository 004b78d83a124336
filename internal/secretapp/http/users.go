package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gerneth/secretapp/internal/secretapp/service"
	"github.com/gerneth/secretapp/pkg/apierr"
	"github.com/gerneth/secretapp/pkg/httpx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

type registerResponse struct {
	Result string `json:"result"`
	ID     int64  `json:"id"`
}

// ServeHTTP handles POST /users: create a new unvalidated account and
// dispatch its activation notification.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		apierr.ErrInvalidParameter.WriteError(w)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	id, err := h.RegistrationService.Register(ctx, username, password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		Result: "ok",
		ID:     id,
	})
}

type UserHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ServeHTTP handles GET /users/{id}: show account details. Requires Basic
// credentials for a validated account.
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.AuthService.RequireAuth(r); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apierr.WriteUnauthorized(w, authRealm)
			return
		}
		writeServiceError(ctx, w, err)
		return
	}

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apierr.ErrNotFound.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}
