package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consultly/internal/principal/models"
	regmodels "consultly/internal/registration/models"
	"consultly/internal/upload"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the registration operations the handler exposes.
type Service interface {
	QuickRegisterIndividual(ctx context.Context, req *regmodels.QuickIndividualRequest) (*regmodels.RegistrationResult, error)
	QuickRegisterOrganization(ctx context.Context, req *regmodels.QuickOrganizationRequest) (*regmodels.RegistrationResult, error)
	RegisterIndividual(ctx context.Context, req *regmodels.IndividualRequest) (*regmodels.RegistrationResult, error)
	RegisterOrganization(ctx context.Context, req *regmodels.OrganizationRequest) (*regmodels.RegistrationResult, error)
	VerifyOtp(ctx context.Context, kind models.Kind, req *regmodels.VerifyOtpRequest) (*regmodels.VerificationResult, error)
	ResendOtp(ctx context.Context, kind models.Kind, req *regmodels.ResendOtpRequest) (*regmodels.ResendResult, error)
}

// Handler serves the registration and verification endpoints.
type Handler struct {
	service        Service
	uploader       upload.Uploader
	logger         *slog.Logger
	maxUploadBytes int64
}

func New(service Service, uploader upload.Uploader, logger *slog.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		uploader:       uploader,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register registers the registration routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)

	r.Post("/consultants/quick-register", h.handleQuickRegisterIndividual)
	r.Post("/consultants/verify-otp", h.handleVerifyOtp(models.KindIndividual))
	r.Post("/consultants/resend-otp", h.handleResendOtp(models.KindIndividual))
	r.Post("/consultants/register", h.handleRegisterIndividual)

	r.Post("/consultants/organization/quick-register", h.handleQuickRegisterOrganization)
	r.Post("/consultants/organization/verify-otp", h.handleVerifyOtp(models.KindOrganization))
	r.Post("/consultants/organization/resend-otp", h.handleResendOtp(models.KindOrganization))
	r.Post("/consultants/organization/register", h.handleRegisterOrganization)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req regmodels.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid register request", err)
		return
	}
	kind, err := req.Kind()
	if err != nil {
		h.fail(ctx, w, "invalid register request", err)
		return
	}

	var res *regmodels.RegistrationResult
	if kind == models.KindOrganization {
		res, err = h.service.QuickRegisterOrganization(ctx, req.Organization())
	} else {
		res, err = h.service.QuickRegisterIndividual(ctx, req.Individual())
	}
	if err != nil {
		h.fail(ctx, w, "quick registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleQuickRegisterIndividual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req regmodels.QuickIndividualRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid quick registration request", err)
		return
	}
	res, err := h.service.QuickRegisterIndividual(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "quick registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleQuickRegisterOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req regmodels.QuickOrganizationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid quick registration request", err)
		return
	}
	res, err := h.service.QuickRegisterOrganization(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "quick registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleVerifyOtp(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req regmodels.VerifyOtpRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.fail(ctx, w, "invalid verify request", err)
			return
		}
		res, err := h.service.VerifyOtp(ctx, kind, &req)
		if err != nil {
			h.fail(ctx, w, "otp verification failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

func (h *Handler) handleResendOtp(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req regmodels.ResendOtpRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.fail(ctx, w, "invalid resend request", err)
			return
		}
		res, err := h.service.ResendOtp(ctx, kind, &req)
		if err != nil {
			h.fail(ctx, w, "otp resend failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

// fail logs at warn for client errors and error for internal ones, then
// writes the mapped response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
