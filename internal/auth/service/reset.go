package service

import (
	"context"
	"errors"

	authmodels "consultly/internal/auth/models"
	"consultly/internal/notify"
	"consultly/internal/otp"
	"consultly/internal/platform/tracing"
	"consultly/internal/principal/models"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/email"
	"consultly/pkg/platform/audit"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/requestcontext"
)

const resetRequestedMessage = "If an account exists for that email, a password reset code has been sent."

// RequestPasswordReset sends a reset code to a known principal. The reply
// is the same whether or not the email is registered.
func (s *Service) RequestPasswordReset(ctx context.Context, req *authmodels.PasswordResetRequest) (result *authmodels.MessageResult, err error) {
	ctx, span := tracing.Start(ctx, "Auth.RequestPasswordReset")
	defer func() { tracing.End(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	kind := models.Kind(req.Type)
	now := requestcontext.Now(ctx)
	ack := &authmodels.MessageResult{Message: resetRequestedMessage}

	p, err := s.resolve(ctx, kind, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email",
				"identity", email.Mask(req.Email),
				"request_id", requestcontext.RequestID(ctx),
			)
			s.metrics.IncrementPasswordReset("request", "unknown")
			return ack, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	code, secret, err := s.codes.Issue(now, s.resetTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate reset code")
	}
	p, err = s.directory.Execute(ctx, p.Kind(), p.Base().ID,
		func(models.Principal) error { return nil },
		func(p models.Principal) { p.Base().ApplyResetPin(secret, now) },
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store reset code")
	}

	a := p.Base()
	s.notifications.Enqueue(ctx, notify.PasswordReset(a.Phone, a.Email, code, s.resetTTL))
	s.emitAudit(ctx, audit.EventPasswordResetRequested, audit.SeverityInfo, p, "", "password reset code sent")
	s.metrics.IncrementPasswordReset("request", "sent")
	return ack, nil
}

// ConfirmPasswordReset sets a new password when the reset code matches and
// has not expired. Unknown emails and bad codes fail the same way.
func (s *Service) ConfirmPasswordReset(ctx context.Context, req *authmodels.ConfirmPasswordResetRequest) (result *authmodels.MessageResult, err error) {
	ctx, span := tracing.Start(ctx, "Auth.ConfirmPasswordReset")
	defer func() { tracing.End(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	p, err := s.resolve(ctx, models.Kind(req.Type), req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.resetFailed(ctx, nil, req.Email, "unknown account")
			return nil, invalidResetCode()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	var verifyErr error
	updated, err := s.directory.Execute(ctx, p.Kind(), p.Base().ID,
		func(p models.Principal) error {
			verifyErr = otp.Verify(p.Base().ResetPin, req.Code, now)
			if verifyErr != nil {
				return invalidResetCode()
			}
			return nil
		},
		func(p models.Principal) { p.Base().ApplyPasswordReset(hash, now) },
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			reason := "code mismatch"
			if errors.Is(verifyErr, otp.ErrExpired) {
				reason = "code expired"
			}
			s.resetFailed(ctx, p, req.Email, reason)
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update password")
	}

	s.emitAudit(ctx, audit.EventPasswordResetCompleted, audit.SeverityInfo, updated, "", "password changed by reset code")
	s.metrics.IncrementPasswordReset("confirm", "success")
	return &authmodels.MessageResult{Message: "Password has been reset. You can now sign in."}, nil
}

func invalidResetCode() error {
	return dErrors.NewField(dErrors.CodeValidation, "code", "invalid or expired reset code")
}

func (s *Service) resetFailed(ctx context.Context, p models.Principal, identity, reason string) {
	masked := email.Mask(identity)
	s.logger.WarnContext(ctx, string(audit.EventPasswordResetFailed),
		"log_type", "audit",
		"identity", masked,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitAudit(ctx, audit.EventPasswordResetFailed, audit.SeverityWarning, p, masked, "password reset failed: "+reason)
	s.metrics.IncrementPasswordReset("confirm", "failure")
}
