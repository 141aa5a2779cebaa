package service

import (
	"context"
	"time"

	"consultly/internal/notify"
	"consultly/internal/principal/models"
	dErrors "consultly/pkg/domain-errors"
)

// issuedCode is a plaintext code kept only long enough to enqueue it.
type issuedCode struct {
	code   string
	secret *models.Secret
}

type issuedCodes map[models.Channel]issuedCode

func (s *Service) issueCodes(now time.Time, channels []models.Channel) (issuedCodes, error) {
	out := make(issuedCodes, len(channels))
	for _, ch := range channels {
		code, secret, err := s.codes.Issue(now, s.otpTTL)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue verification code")
		}
		out[ch] = issuedCode{code: code, secret: secret}
	}
	return out, nil
}

// apply stores the secrets for channels a still has unverified.
func (c issuedCodes) apply(a *models.Account, now time.Time) {
	for ch, ic := range c {
		if !a.Verified(ch) {
			a.SetPin(ch, ic.secret, now)
		}
	}
}

// send enqueues one message per channel that still awaits verification on p.
func (s *Service) send(ctx context.Context, p models.Principal, codes issuedCodes) []models.Channel {
	a := p.Base()
	var sent []models.Channel
	for _, ch := range []models.Channel{models.ChannelPhone, models.ChannelEmail} {
		ic, ok := codes[ch]
		if !ok || a.Verified(ch) {
			continue
		}
		var msg notify.Message
		if ch == models.ChannelPhone {
			msg = notify.PhoneOTP(a.Phone, ic.code, s.otpTTL)
		} else {
			msg = notify.EmailOTP(a.Email, ic.code, s.otpTTL)
		}
		s.notifications.Enqueue(ctx, msg)
		s.metrics.IncrementOtpIssued(ch.String())
		sent = append(sent, ch)
	}
	return sent
}
