package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consultly/internal/platform/metrics"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/platform/middleware/admin"
	authmw "consultly/pkg/platform/middleware/auth"
	"consultly/pkg/platform/middleware/metadata"
	"consultly/pkg/platform/middleware/ratelimit"
	"consultly/pkg/platform/middleware/requestid"
	"consultly/pkg/platform/middleware/requesttime"
)

// Routes is implemented by every module handler.
type Routes interface {
	Register(r chi.Router)
}

// AuthenticatedRoutes registers routes that need a valid bearer token.
type AuthenticatedRoutes interface {
	RegisterAuthenticated(r chi.Router)
}

// AuthRoutes has both public and authenticated routes.
type AuthRoutes interface {
	Routes
	AuthenticatedRoutes
}

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

// Config carries everything the router composes.
type Config struct {
	Auth         AuthRoutes
	Registration Routes
	Review       Routes

	Validator   authmw.TokenValidator
	Access      authmw.AccessChecker
	Revocations authmw.RevocationChecker

	// Limiter throttles the unauthenticated credential and OTP routes.
	Limiter *ratelimit.Limiter
	Metrics *metrics.Metrics
	Health  map[string]HealthCheck
	Logger  *slog.Logger

	// UploadDir, when set, serves locally stored registration documents.
	UploadDir string
}

// NewRouter wires the public, authenticated and admin route groups.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(cfg.Metrics.Middleware)

	r.Get("/health", healthHandler(cfg.Health))
	r.Handle("/metrics", metrics.Handler())
	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}
		cfg.Auth.Register(r)
		cfg.Registration.Register(r)
	})

	var authOpts []authmw.Option
	if cfg.Revocations != nil {
		authOpts = append(authOpts, authmw.WithRevocationList(cfg.Revocations))
	}
	requireAuth := authmw.RequireAuth(cfg.Validator, cfg.Access, cfg.Logger, authOpts...)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		cfg.Auth.RegisterAuthenticated(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(admin.RequireRole(admin.RoleAdmin, cfg.Logger))
		cfg.Review.Register(r)
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
