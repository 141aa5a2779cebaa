// Package service applies administrator review decisions to principals.
// Approve and Reject act only on principals awaiting review; Suspend and
// Activate apply from any status.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"consultly/internal/notify"
	"consultly/internal/platform/tracing"
	"consultly/internal/principal/models"
	reviewmetrics "consultly/internal/review/metrics"
	reviewmodels "consultly/internal/review/models"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/audit"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/requestcontext"
)

type Directory interface {
	FindByIdentity(ctx context.Context, kind models.Kind, value string) (models.Principal, error)
	Execute(ctx context.Context, kind models.Kind, principalID id.PrincipalID,
		validate func(models.Principal) error, mutate func(models.Principal)) (models.Principal, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	directory      Directory
	notifications  notify.Queue
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *reviewmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *reviewmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(directory Directory, notifications notify.Queue, opts ...Option) *Service {
	s := &Service{
		directory:     directory,
		notifications: notifications,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Approve activates a principal awaiting review.
func (s *Service) Approve(ctx context.Context, kind models.Kind, principalID id.PrincipalID) (*reviewmodels.Result, error) {
	now := requestcontext.Now(ctx)
	p, err := s.apply(ctx, kind, principalID, reviewmodels.ActionApprove,
		requirePending(reviewmodels.ActionApprove),
		func(p models.Principal) { p.Base().ApplyApproval(now) },
	)
	if err != nil {
		return nil, err
	}
	a := p.Base()
	s.notifications.Enqueue(ctx, notify.Approved(a.Email, p.DisplayName(), a.DisplayID))
	s.emitAudit(ctx, audit.EventPrincipalApproved, audit.SeverityInfo, p, "registration approved")
	return reviewmodels.NewResult(p, "Account approved"), nil
}

// Reject moves a principal awaiting review to its kind's rejected status.
// Organizations must be given a reason.
func (s *Service) Reject(ctx context.Context, kind models.Kind, principalID id.PrincipalID, req *reviewmodels.RejectRequest) (*reviewmodels.Result, error) {
	if req == nil {
		req = &reviewmodels.RejectRequest{}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if kind == models.KindOrganization && req.Reason == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "reason", "a reason is required to reject an organization")
	}

	now := requestcontext.Now(ctx)
	p, err := s.apply(ctx, kind, principalID, reviewmodels.ActionReject,
		requirePending(reviewmodels.ActionReject),
		func(p models.Principal) { p.Base().ApplyRejection(p.RejectedStatus(), now) },
	)
	if err != nil {
		return nil, err
	}
	s.notifications.Enqueue(ctx, notify.Rejected(p.Base().Email, p.DisplayName(), req.Reason))
	detail := "registration rejected"
	if req.Reason != "" {
		detail += ": " + req.Reason
	}
	s.emitAudit(ctx, audit.EventPrincipalRejected, audit.SeverityWarning, p, detail)
	return reviewmodels.NewResult(p, "Account rejected"), nil
}

// Suspend suspends the principal identified by email or phone. Suspending
// an already suspended principal succeeds again.
func (s *Service) Suspend(ctx context.Context, req *reviewmodels.StatusChangeRequest) (*reviewmodels.Result, error) {
	target, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	p, err := s.apply(ctx, target.Kind(), target.Base().ID, reviewmodels.ActionSuspend,
		func(models.Principal) error { return nil },
		func(p models.Principal) { p.Base().ApplySuspension(now) },
	)
	if err != nil {
		return nil, err
	}
	s.notifications.Enqueue(ctx, notify.Suspended(p.Base().Email, p.DisplayName(), req.Reason))
	detail := "account suspended"
	if req.Reason != "" {
		detail += ": " + req.Reason
	}
	s.emitAudit(ctx, audit.EventPrincipalSuspended, audit.SeverityCritical, p, detail)
	return reviewmodels.NewResult(p, "Account suspended"), nil
}

// Activate sets the principal identified by email or phone to active.
func (s *Service) Activate(ctx context.Context, req *reviewmodels.StatusChangeRequest) (*reviewmodels.Result, error) {
	target, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	p, err := s.apply(ctx, target.Kind(), target.Base().ID, reviewmodels.ActionActivate,
		func(models.Principal) error { return nil },
		func(p models.Principal) { p.Base().ApplyActivation(now) },
	)
	if err != nil {
		return nil, err
	}
	s.notifications.Enqueue(ctx, notify.Activated(p.Base().Email, p.DisplayName()))
	s.emitAudit(ctx, audit.EventPrincipalActivated, audit.SeverityWarning, p, "account activated")
	return reviewmodels.NewResult(p, "Account activated"), nil
}

func (s *Service) apply(
	ctx context.Context,
	kind models.Kind,
	principalID id.PrincipalID,
	action reviewmodels.Action,
	validate func(models.Principal) error,
	mutate func(models.Principal),
) (p models.Principal, err error) {
	ctx, span := tracing.Start(ctx, "Review."+string(action),
		attribute.String("kind", kind.String()),
		attribute.String("principal_id", principalID.String()),
	)
	defer func() { tracing.End(span, err) }()

	p, err = s.directory.Execute(ctx, kind, principalID, validate, mutate)
	if err != nil {
		return nil, translate(err)
	}
	s.metrics.IncrementTransition(kind.String(), string(action))
	return p, nil
}

func (s *Service) resolve(ctx context.Context, req *reviewmodels.StatusChangeRequest) (models.Principal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	for _, kind := range req.Kinds() {
		p, err := s.directory.FindByIdentity(ctx, kind, req.Identity)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, translate(err)
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "no account found for "+req.Identity)
}

// requirePending maps the review guard to a Conflict naming the current status.
func requirePending(action reviewmodels.Action) func(models.Principal) error {
	return func(p models.Principal) error {
		if err := p.Base().CanReview(); err != nil {
			return dErrors.New(dErrors.CodeConflict,
				"cannot "+string(action)+": account status is "+string(p.Base().Status))
		}
		return nil
	}
}

func translate(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account status")
}

// emitAudit records the transition. A failed write is logged and dropped;
// the status change stands.
func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, severity audit.Severity, p models.Principal, detail string) {
	a := p.Base()
	s.logger.InfoContext(ctx, string(event),
		"log_type", "audit",
		"principal_id", a.ID,
		"display_id", a.DisplayID,
		"actor_id", requestcontext.PrincipalID(ctx),
		"status", a.Status,
	)
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:      string(event),
		Detail:      detail,
		Severity:    severity,
		SubjectID:   a.ID,
		SubjectKind: p.Kind().String(),
		Subject:     a.DisplayID,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event", "event", event, "error", err)
	}
}
