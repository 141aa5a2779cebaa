// Package service authenticates principals and manages their credentials.
package service

import (
	"context"
	"log/slog"
	"time"

	authmetrics "consultly/internal/auth/metrics"
	jwttoken "consultly/internal/jwt_token"
	"consultly/internal/notify"
	"consultly/internal/principal"
	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/audit"
)

const defaultResetTTL = 15 * time.Minute

type Directory interface {
	FindByID(ctx context.Context, kind models.Kind, principalID id.PrincipalID) (models.Principal, error)
	FindByField(ctx context.Context, kind models.Kind, field models.Field, value string) (models.Principal, error)
	FindAnyByEmail(ctx context.Context, email string) (models.Principal, error)
	Execute(ctx context.Context, kind models.Kind, principalID id.PrincipalID,
		validate func(models.Principal) error, mutate func(models.Principal)) (models.Principal, error)
	RequiresVerification(p models.Principal) bool
}

// Verifier re-sends verification codes to a principal that has not
// finished OTP verification.
type Verifier interface {
	ResendVerification(ctx context.Context, p models.Principal) ([]models.Channel, error)
}

type TokenIssuer interface {
	Issue(p models.Principal, now time.Time) (jwttoken.TokenResult, error)
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) error
}

type CodeIssuer interface {
	Issue(now time.Time, ttl time.Duration) (string, *models.Secret, error)
}

// RevocationList records logged-out tokens.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	directory      Directory
	verifier       Verifier
	tokens         TokenIssuer
	hasher         PasswordHasher
	codes          CodeIssuer
	notifications  notify.Queue
	revocations    RevocationList
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *authmetrics.Metrics
	resetTTL       time.Duration
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

func WithMetrics(m *authmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithResetTTL sets how long a password reset code stays valid.
func WithResetTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// WithRevocationList enables logout. Without it Logout only acknowledges.
func WithRevocationList(list RevocationList) Option {
	return func(s *Service) {
		s.revocations = list
	}
}

func New(
	directory Directory,
	verifier Verifier,
	tokens TokenIssuer,
	hasher PasswordHasher,
	codes CodeIssuer,
	notifications notify.Queue,
	opts ...Option,
) *Service {
	s := &Service{
		directory:     directory,
		verifier:      verifier,
		tokens:        tokens,
		hasher:        hasher,
		codes:         codes,
		notifications: notifications,
		logger:        slog.New(slog.DiscardHandler),
		resetTTL:      defaultResetTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve finds the principal for email. Without a kind, individuals are
// searched before organizations.
func (s *Service) resolve(ctx context.Context, kind models.Kind, email string) (models.Principal, error) {
	if kind == "" {
		return s.directory.FindAnyByEmail(ctx, email)
	}
	return s.directory.FindByField(ctx, kind, principal.LoginField(kind), email)
}

// emitAudit writes an audit event for p, or for the bare identity when no
// principal was resolved. A failed write is logged and dropped.
func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, severity audit.Severity, p models.Principal, subject, detail string) {
	e := audit.Event{
		Action:   string(event),
		Detail:   detail,
		Severity: severity,
		Subject:  subject,
	}
	if p != nil {
		e.SubjectID = p.Base().ID
		e.SubjectKind = p.Kind().String()
		if p.Base().DisplayID != "" {
			e.Subject = p.Base().DisplayID
		}
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event", "event", event, "error", err)
	}
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "no account found with the provided credentials")
}
