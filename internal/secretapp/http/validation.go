package http

import (
	"net/http"
	"strconv"

	"github.com/gerneth/secretapp/internal/secretapp/service"
	"github.com/gerneth/secretapp/pkg/apierr"
	"github.com/gerneth/secretapp/pkg/httpx"
)

type ActivationHandler struct {
	RegistrationService *service.RegistrationService
}

type activationResponse struct {
	Result string `json:"result"`
}

// ServeHTTP handles /users/{id}/validation/{token} for GET, POST and PATCH.
// Consuming the token is idempotent, so a link that gets opened twice (mail
// prefetch, double click) succeeds both times.
func (h *ActivationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apierr.ErrNotFound.WriteError(w)
		return
	}
	token := r.PathValue("token")

	if err := h.RegistrationService.Activate(ctx, userID, token); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, activationResponse{Result: "ok"})
}
