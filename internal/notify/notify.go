// Package notify is the boundary to outbound email and SMS delivery.
// Messages are queued after the state change they describe has been
// persisted; delivery is best-effort and failures are logged, never
// returned to the workflow that enqueued them.
package notify

import (
	"context"
)

//go:generate mockgen -source=notify.go -destination=mocks/mocks.go -package=mocks Dispatcher,Queue

// Dispatcher delivers one message. Implementations report success and never
// panic into the caller.
type Dispatcher interface {
	SendSMS(ctx context.Context, phone, text string) bool
	SendEmail(ctx context.Context, to, subject, body string) bool
	SendRegistrationPin(ctx context.Context, phone, email, text string) bool
}

// Queue accepts messages for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, msg Message)
}

// Channel selects the Dispatcher method a message is delivered with.
type Channel string

const (
	ChannelSMS             Channel = "sms"
	ChannelEmail           Channel = "email"
	ChannelRegistrationPin Channel = "registration_pin"
)

// Message is a rendered notification.
type Message struct {
	Channel   Channel `json:"channel"`
	Phone     string  `json:"phone,omitempty"`
	Email     string  `json:"email,omitempty"`
	Subject   string  `json:"subject,omitempty"`
	Body      string  `json:"body"`
	Template  string  `json:"template"`
	RequestID string  `json:"request_id,omitempty"`
}

// Deliver routes msg to the matching Dispatcher method.
func Deliver(ctx context.Context, d Dispatcher, msg Message) bool {
	switch msg.Channel {
	case ChannelSMS:
		return d.SendSMS(ctx, msg.Phone, msg.Body)
	case ChannelEmail:
		return d.SendEmail(ctx, msg.Email, msg.Subject, msg.Body)
	case ChannelRegistrationPin:
		return d.SendRegistrationPin(ctx, msg.Phone, msg.Email, msg.Body)
	}
	return false
}
