package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gerneth/secretapp/internal/secretapp/service"
	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/gerneth/secretapp/pkg/httpx"
	"github.com/gerneth/secretapp/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	RegistrationService *service.RegistrationService
	AuthService         *service.AuthService
	UserService         *service.UserService
	SecretService       *service.SecretService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSecrets()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	registerHandler := &RegisterHandler{RegistrationService: r.RegistrationService}
	userHandler := &UserHandler{
		AuthService: r.AuthService,
		UserService: r.UserService,
	}
	activationHandler := &ActivationHandler{RegistrationService: r.RegistrationService}

	// POST /users - strict rate limit by IP + submitted username to slow
	// down bulk account creation without one IP blocking a whole username.
	r.Mux.Handle("POST /users",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// GET /users/{id} - credentialed endpoint, moderate limit.
	r.Mux.Handle("GET /users/{id}",
		httpx.Chain(userHandler,
			httpx.RateLimitByIPAndBasicUser(httpx.ModerateLimit),
		),
	)

	// Activation accepts GET, POST and PATCH identically so a mail client
	// prefetch, a browser click or a proper PATCH all consume the token the
	// same way. Strict limit by IP to stop token brute force.
	activation := httpx.Chain(activationHandler,
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
	r.Mux.Handle("GET /users/{id}/validation/{token}", activation)
	r.Mux.Handle("POST /users/{id}/validation/{token}", activation)
	r.Mux.Handle("PATCH /users/{id}/validation/{token}", activation)
}

func (r *Router) registerSecrets() {
	h := &SecretsHandler{
		AuthService:   r.AuthService,
		SecretService: r.SecretService,
	}

	r.Mux.Handle("GET /secrets",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIPAndBasicUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /secrets",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIPAndBasicUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
