package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmodels "consultly/internal/auth/models"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the authentication operations the handler exposes.
type Service interface {
	Login(ctx context.Context, req *authmodels.LoginRequest) (*authmodels.LoginResult, error)
	Profile(ctx context.Context) (*authmodels.Profile, error)
	Logout(ctx context.Context) (*authmodels.MessageResult, error)
	RequestPasswordReset(ctx context.Context, req *authmodels.PasswordResetRequest) (*authmodels.MessageResult, error)
	ConfirmPasswordReset(ctx context.Context, req *authmodels.ConfirmPasswordResetRequest) (*authmodels.MessageResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the public authentication routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/request-password-reset", h.handleRequestPasswordReset)
	r.Post("/auth/confirm-password-reset", h.handleConfirmPasswordReset)
}

// RegisterAuthenticated registers the routes that need a bearer token. The
// caller installs the auth middleware on r.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/auth/profile", h.handleProfile)
	r.Post("/auth/logout", h.handleLogout)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req authmodels.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid login request", err)
		return
	}
	res, err := h.service.Login(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "login failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.Profile(ctx)
	if err != nil {
		h.fail(ctx, w, "profile lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.Logout(ctx)
	if err != nil {
		h.fail(ctx, w, "logout failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req authmodels.PasswordResetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid password reset request", err)
		return
	}
	res, err := h.service.RequestPasswordReset(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "password reset request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req authmodels.ConfirmPasswordResetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid password reset confirmation", err)
		return
	}
	res, err := h.service.ConfirmPasswordReset(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "password reset confirmation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
