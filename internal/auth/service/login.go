package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	authmodels "consultly/internal/auth/models"
	"consultly/internal/otp"
	"consultly/internal/platform/tracing"
	"consultly/internal/principal/models"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/email"
	"consultly/pkg/platform/audit"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/requestcontext"
	"consultly/pkg/secrets"
)

// Login authenticates a principal and issues a session token.
//
// The order of checks is fixed: resolve the principal, stop unverified
// quick registrations with PreconditionRequired after re-sending their
// codes, deny blocked statuses by name, check the secret, then require the
// reset PIN from principals still pending review.
func (s *Service) Login(ctx context.Context, req *authmodels.LoginRequest) (result *authmodels.LoginResult, err error) {
	ctx, span := tracing.Start(ctx, "Auth.Login")
	defer func() { tracing.End(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	kind, _ := req.Kind()
	span.SetAttributes(attribute.String("kind", kind.String()))
	now := requestcontext.Now(ctx)

	p, err := s.resolve(ctx, kind, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.loginFailed(ctx, nil, req, "unknown account")
			return nil, invalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	if s.directory.RequiresVerification(p) {
		return nil, s.requireVerification(ctx, p, req)
	}

	status := p.Base().Status
	if status.DeniesAccess() {
		s.loginFailed(ctx, p, req, status.DenialReason())
		return nil, dErrors.New(dErrors.CodeUnauthorized, status.DenialReason())
	}

	usedPin, err := s.checkSecret(p, req, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			return nil, err
		}
		s.loginFailed(ctx, p, req, "secret mismatch")
		return nil, err
	}

	switch status {
	case models.StatusActive:
	case models.StatusPending:
		if !usedPin {
			s.loginFailed(ctx, p, req, "pending review without pin")
			return nil, dErrors.New(dErrors.CodeUnauthorized,
				"account is pending review; sign in with the PIN sent to you")
		}
	default:
		s.loginFailed(ctx, p, req, "status "+status.String())
		return nil, dErrors.New(dErrors.CodeUnauthorized, status.DenialReason())
	}

	if usedPin {
		p, err = s.consumePin(ctx, p, req.Pin)
		if err != nil {
			if !dErrors.HasCode(err, dErrors.CodeInternal) {
				s.loginFailed(ctx, p, req, "pin already used")
			}
			return nil, err
		}
	}

	token, err := s.tokens.Issue(p, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, string(audit.EventLoginSucceeded),
		"log_type", "audit",
		"principal_id", p.Base().ID,
		"kind", p.Kind(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitAudit(ctx, audit.EventLoginSucceeded, audit.SeverityInfo, p, "", "login succeeded")
	s.metrics.IncrementLogin(p.Kind().String(), "success")

	return &authmodels.LoginResult{
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn,
		User:      authmodels.NewProfile(p),
	}, nil
}

// checkSecret verifies the password, or in its absence the reset PIN. A
// PIN presented with a password is checked too. It reports whether a PIN
// was accepted and must be consumed.
func (s *Service) checkSecret(p models.Principal, req *authmodels.LoginRequest, now time.Time) (bool, error) {
	a := p.Base()
	if req.Password != "" {
		if err := s.hasher.Verify(req.Password, a.PasswordHash); err != nil {
			if errors.Is(err, secrets.ErrMismatch) {
				return false, invalidCredentials()
			}
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
		}
	}
	if req.Pin == "" {
		return false, nil
	}
	if err := otp.Verify(a.ResetPin, req.Pin, now); err != nil {
		if errors.Is(err, otp.ErrExpired) {
			return false, dErrors.New(dErrors.CodeUnauthorized, "PIN has expired; request a new one")
		}
		return false, invalidCredentials()
	}
	return true, nil
}

// consumePin clears the reset PIN once it has been used to sign in. The
// check is repeated under the record lock so a PIN works only once.
func (s *Service) consumePin(ctx context.Context, p models.Principal, pin string) (models.Principal, error) {
	now := requestcontext.Now(ctx)
	updated, err := s.directory.Execute(ctx, p.Kind(), p.Base().ID,
		func(p models.Principal) error {
			if otp.Verify(p.Base().ResetPin, pin, now) != nil {
				return invalidCredentials()
			}
			return nil
		},
		func(p models.Principal) { p.Base().ConsumeResetPin(now) },
	)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return p, err
		}
		return p, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	return updated, nil
}

// requireVerification re-sends the outstanding OTPs and returns the
// PreconditionRequired error. A failed re-send is logged only.
func (s *Service) requireVerification(ctx context.Context, p models.Principal, req *authmodels.LoginRequest) error {
	channels, err := s.verifier.ResendVerification(ctx, p)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resend verification codes at login",
			"principal_id", p.Base().ID,
			"error", err,
		)
	}
	s.logger.WarnContext(ctx, string(audit.EventVerificationRequired),
		"log_type", "audit",
		"principal_id", p.Base().ID,
		"identity", email.Mask(req.Email),
		"password", secrets.Mask(req.Password),
		"pin", secrets.Mask(req.Pin),
		"channels", channels,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitAudit(ctx, audit.EventVerificationRequired, audit.SeverityInfo, p, "", "login blocked until verification")
	s.metrics.IncrementLogin(p.Kind().String(), "verification_required")
	return dErrors.New(dErrors.CodePreconditionRequired,
		"account verification required; new verification codes have been sent")
}

// loginFailed logs a failed attempt with the identity and secret masked.
func (s *Service) loginFailed(ctx context.Context, p models.Principal, req *authmodels.LoginRequest, reason string) {
	kind := req.Type
	if p != nil {
		kind = p.Kind().String()
	}
	masked := email.Mask(req.Email)
	s.logger.WarnContext(ctx, string(audit.EventLoginFailed),
		"log_type", "audit",
		"identity", masked,
		"kind", kind,
		"password", secrets.Mask(req.Password),
		"pin", secrets.Mask(req.Pin),
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitAudit(ctx, audit.EventLoginFailed, audit.SeverityWarning, p, masked, "login failed: "+reason)
	s.metrics.IncrementLogin(kind, "failure")
}
