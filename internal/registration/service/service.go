// Package service drives principals through quick registration, channel
// verification and full-profile registration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"consultly/internal/notify"
	"consultly/internal/principal"
	"consultly/internal/principal/models"
	regmetrics "consultly/internal/registration/metrics"
	"consultly/internal/sequence"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/audit"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/secrets"
)

const (
	defaultOTPTTL = 10 * time.Minute

	pathQuick = "quick"
	pathFull  = "full"
)

// Directory is the principal lookup and persistence the workflow needs.
type Directory interface {
	FindByField(ctx context.Context, kind models.Kind, field models.Field, value string) (models.Principal, error)
	FindByIdentity(ctx context.Context, kind models.Kind, value string) (models.Principal, error)
	FindMatches(ctx context.Context, candidate models.Principal) ([]principal.Match, error)
	Create(ctx context.Context, p models.Principal) error
	Execute(ctx context.Context, kind models.Kind, principalID id.PrincipalID,
		validate func(models.Principal) error, mutate func(models.Principal)) (models.Principal, error)
}

// CodeIssuer mints verification codes and their stored form.
type CodeIssuer interface {
	Issue(now time.Time, ttl time.Duration) (string, *models.Secret, error)
}

type PasswordHasher interface {
	HashOptional(secret string) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the registration workflow.
type Service struct {
	directory      Directory
	sequences      sequence.Allocator
	codes          CodeIssuer
	notifications  notify.Queue
	hasher         PasswordHasher
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *regmetrics.Metrics
	otpTTL         time.Duration
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

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithOTPTTL sets how long verification codes stay valid.
func WithOTPTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.otpTTL = ttl
		}
	}
}

func WithHasher(h PasswordHasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

func New(directory Directory, sequences sequence.Allocator, codes CodeIssuer, notifications notify.Queue, opts ...Option) *Service {
	s := &Service{
		directory:     directory,
		sequences:     sequences,
		codes:         codes,
		notifications: notifications,
		hasher:        secrets.DefaultHasher(),
		logger:        slog.New(slog.DiscardHandler),
		otpTTL:        defaultOTPTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// create assigns the display ID and inserts p. A sequence failure aborts
// before anything is written.
func (s *Service) create(ctx context.Context, p models.Principal) error {
	kind := p.Kind()
	n, err := s.sequences.Next(ctx, sequenceName(kind))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate display id")
	}
	p.Base().DisplayID = sequence.FormatDisplayID(models.DisplayIDPrefix(kind), n)
	if err := s.directory.Create(ctx, p); err != nil {
		return translateWriteErr(err, "failed to create account")
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.HashOptional(password)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return hash, nil
}

// resolveMatches picks the existing record the registration may take
// over, if any, and otherwise reports the first colliding field. Only a
// record matched on the login field and accepted by eligible qualifies.
func resolveMatches(kind models.Kind, matches []principal.Match, eligible func(*models.Account) bool) (models.Principal, error) {
	loginField := principal.LoginField(kind)
	var target models.Principal
	for _, m := range matches {
		if m.Field == loginField && eligible(m.Principal.Base()) {
			target = m.Principal
		}
	}
	for _, m := range matches {
		if target != nil && m.Principal.Base().ID == target.Base().ID {
			continue
		}
		return nil, conflict(m.Field.String())
	}
	return target, nil
}

// resolveQuickRetry lets a quick registration take over an unverified
// quick record matched on any unique field, as long as every match is
// that same record. Anything else is reported as a conflict on the first
// field held by another principal.
func resolveQuickRetry(matches []principal.Match) (models.Principal, error) {
	var target models.Principal
	for _, m := range matches {
		if m.Principal.Base().CanRetryQuick() {
			target = m.Principal
			break
		}
	}
	for _, m := range matches {
		if target != nil && m.Principal.Base().ID == target.Base().ID {
			continue
		}
		return nil, conflict(m.Field.String())
	}
	return target, nil
}

func conflict(field string) error {
	return dErrors.NewField(dErrors.CodeConflict, field, field+" is already registered")
}

// translateWriteErr maps store failures on a write. Unique violations are
// reported exactly like a pre-check conflict.
func translateWriteErr(err error, msg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if field, ok := sentinel.ViolatedField(err); ok {
		return conflict(field)
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) findByIdentity(ctx context.Context, kind models.Kind, identity string) (models.Principal, error) {
	p, err := s.directory.FindByIdentity(ctx, kind, identity)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no %s account found for %s", kind, identity))
		}
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return p, nil
}

// emitAudit logs the event and hands it to the publisher. Publisher
// failures are logged and never returned.
func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, p models.Principal, detail string) {
	a := p.Base()
	s.logger.InfoContext(ctx, string(event),
		"log_type", "audit",
		"principal_id", a.ID,
		"display_id", a.DisplayID,
		"kind", p.Kind(),
	)
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:      string(event),
		Detail:      detail,
		SubjectID:   a.ID,
		SubjectKind: p.Kind().String(),
		Subject:     a.DisplayID,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event", "event", event, "error", err)
	}
}

func sequenceName(k models.Kind) string {
	if k == models.KindOrganization {
		return sequence.Organization
	}
	return sequence.Consultant
}
