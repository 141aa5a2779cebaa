package notify

import (
	"context"
	"log/slog"
)

// LogDispatcher writes messages to the log instead of a delivery provider.
// Bodies contain codes, so they are logged only when includeBodies is set.
type LogDispatcher struct {
	logger        *slog.Logger
	includeBodies bool
}

func NewLogDispatcher(logger *slog.Logger, includeBodies bool) *LogDispatcher {
	return &LogDispatcher{logger: logger, includeBodies: includeBodies}
}

func (d *LogDispatcher) SendSMS(ctx context.Context, phone, text string) bool {
	d.log(ctx, "sms", "phone", phone, text)
	return true
}

func (d *LogDispatcher) SendEmail(ctx context.Context, to, subject, body string) bool {
	d.log(ctx, "email", "to", to, subject+": "+body)
	return true
}

func (d *LogDispatcher) SendRegistrationPin(ctx context.Context, phone, email, text string) bool {
	d.log(ctx, "registration_pin", "to", phone+","+email, text)
	return true
}

func (d *LogDispatcher) log(ctx context.Context, channel, key, recipient, body string) {
	attrs := []any{"channel", channel, key, recipient}
	if d.includeBodies {
		attrs = append(attrs, "body", body)
	}
	d.logger.InfoContext(ctx, "notification dispatched", attrs...)
}
