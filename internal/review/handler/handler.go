package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consultly/internal/principal/models"
	reviewmodels "consultly/internal/review/models"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the review operations the handler exposes.
type Service interface {
	Approve(ctx context.Context, kind models.Kind, principalID id.PrincipalID) (*reviewmodels.Result, error)
	Reject(ctx context.Context, kind models.Kind, principalID id.PrincipalID, req *reviewmodels.RejectRequest) (*reviewmodels.Result, error)
	Suspend(ctx context.Context, req *reviewmodels.StatusChangeRequest) (*reviewmodels.Result, error)
	Activate(ctx context.Context, req *reviewmodels.StatusChangeRequest) (*reviewmodels.Result, error)
}

// Handler serves the administrator review endpoints. Callers mount it
// behind authentication and the admin role check.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Patch("/consultants/{id}/approve", h.handleApprove(models.KindIndividual))
	r.Patch("/consultants/{id}/reject", h.handleReject(models.KindIndividual))
	r.Patch("/consultants/organization/{id}/approve", h.handleApprove(models.KindOrganization))
	r.Patch("/consultants/organization/{id}/reject", h.handleReject(models.KindOrganization))

	r.Post("/auth/suspend", h.handleStatusChange("suspend", h.service.Suspend))
	r.Post("/auth/activate", h.handleStatusChange("activate", h.service.Activate))
}

func (h *Handler) handleApprove(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principalID, err := principalIDParam(r)
		if err != nil {
			h.fail(ctx, w, "invalid approve request", err)
			return
		}
		res, err := h.service.Approve(ctx, kind, principalID)
		if err != nil {
			h.fail(ctx, w, "approve failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

func (h *Handler) handleReject(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principalID, err := principalIDParam(r)
		if err != nil {
			h.fail(ctx, w, "invalid reject request", err)
			return
		}
		// The body is optional for individuals.
		var req reviewmodels.RejectRequest
		if r.ContentLength != 0 {
			if err := httputil.DecodeJSON(r, &req); err != nil {
				h.fail(ctx, w, "invalid reject request", err)
				return
			}
		}
		res, err := h.service.Reject(ctx, kind, principalID, &req)
		if err != nil {
			h.fail(ctx, w, "reject failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

type statusChange func(ctx context.Context, req *reviewmodels.StatusChangeRequest) (*reviewmodels.Result, error)

func (h *Handler) handleStatusChange(action string, apply statusChange) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req reviewmodels.StatusChangeRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.fail(ctx, w, "invalid "+action+" request", err)
			return
		}
		res, err := apply(ctx, &req)
		if err != nil {
			h.fail(ctx, w, action+" failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

func principalIDParam(r *http.Request) (id.PrincipalID, error) {
	principalID, err := id.ParsePrincipalID(chi.URLParam(r, "id"))
	if err != nil {
		return id.PrincipalID{}, dErrors.NewField(dErrors.CodeValidation, "id", "invalid account id")
	}
	return principalID, nil
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", requestcontext.PrincipalID(ctx),
		"error", err,
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
