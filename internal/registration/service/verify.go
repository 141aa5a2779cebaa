package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"consultly/internal/otp"
	"consultly/internal/platform/tracing"
	"consultly/internal/principal/models"
	regmodels "consultly/internal/registration/models"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/audit"
	"consultly/pkg/requestcontext"
)

// VerifyOtp confirms one channel of a principal of kind. A failed attempt
// changes nothing, so clients may retry with the right code.
func (s *Service) VerifyOtp(ctx context.Context, kind models.Kind, req *regmodels.VerifyOtpRequest) (result *regmodels.VerificationResult, err error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	channel, err := models.ParseChannel(req.Channel)
	if err != nil {
		return nil, err
	}
	ctx, span := tracing.Start(ctx, "Registration.VerifyOtp",
		attribute.String("kind", kind.String()),
		attribute.String("channel", channel.String()),
	)
	defer func() { tracing.End(span, err) }()

	p, err := s.findByIdentity(ctx, kind, req.Identity)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	updated, err := s.directory.Execute(ctx, kind, p.Base().ID,
		func(p models.Principal) error {
			a := p.Base()
			if err := a.CanVerify(channel); err != nil {
				return err
			}
			switch err := otp.Verify(a.Pin(channel), req.Code, now); {
			case errors.Is(err, otp.ErrExpired):
				return dErrors.NewField(dErrors.CodeValidation, "otp", "verification code has expired")
			case err != nil:
				return dErrors.NewField(dErrors.CodeValidation, "otp", "invalid verification code")
			}
			return nil
		},
		func(p models.Principal) {
			p.Base().ApplyVerification(channel, now)
		},
	)
	if err != nil {
		s.metrics.IncrementOtpVerification(channel.String(), "rejected")
		return nil, translateWriteErr(err, "failed to verify code")
	}
	s.metrics.IncrementOtpVerification(channel.String(), "verified")
	s.emitAudit(ctx, audit.EventOtpVerified, updated, channel.String()+" verified")

	a := updated.Base()
	msg := channel.String() + " verified successfully"
	if a.Status == models.StatusPending {
		msg = "Verification complete. Your account is pending review."
	}
	return &regmodels.VerificationResult{
		Channel:       channel,
		PhoneVerified: a.PhoneVerified,
		EmailVerified: a.EmailVerified,
		Status:        a.Status,
		Message:       msg,
	}, nil
}

// ResendOtp issues fresh codes for every unverified channel of the
// principal of kind identified by phone or email.
func (s *Service) ResendOtp(ctx context.Context, kind models.Kind, req *regmodels.ResendOtpRequest) (*regmodels.ResendResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.findByIdentity(ctx, kind, req.Identity)
	if err != nil {
		return nil, err
	}
	channels, err := s.ResendVerification(ctx, p)
	if err != nil {
		return nil, err
	}
	return &regmodels.ResendResult{
		Channels: channels,
		Message:  "New verification codes have been sent.",
	}, nil
}

// ResendVerification replaces the codes of p's unverified channels, each
// with a fresh window, and queues them for delivery. It returns the
// channels a code was queued for.
func (s *Service) ResendVerification(ctx context.Context, p models.Principal) ([]models.Channel, error) {
	channels := p.Base().UnverifiedChannels()
	if len(channels) == 0 {
		return nil, alreadyVerified()
	}

	now := requestcontext.Now(ctx)
	codes, err := s.issueCodes(now, channels)
	if err != nil {
		return nil, err
	}
	updated, err := s.directory.Execute(ctx, p.Kind(), p.Base().ID,
		func(p models.Principal) error {
			if len(p.Base().UnverifiedChannels()) == 0 {
				return alreadyVerified()
			}
			return nil
		},
		func(p models.Principal) {
			codes.apply(p.Base(), now)
		},
	)
	if err != nil {
		return nil, translateWriteErr(err, "failed to store verification codes")
	}

	sent := s.send(ctx, updated, codes)
	s.emitAudit(ctx, audit.EventOtpResent, updated, "verification codes resent")
	return sent, nil
}

func alreadyVerified() error {
	return dErrors.NewField(dErrors.CodeValidation, "identity", "account is already verified")
}
