package notify

import (
	"fmt"
	"time"
)

// Template names, recorded on each message for logs and metrics.
const (
	TemplatePhoneOTP             = "phone_otp"
	TemplateEmailOTP             = "email_otp"
	TemplateRegistrationReceived = "registration_received"
	TemplateApproved             = "approved"
	TemplateRejected             = "rejected"
	TemplateSuspended            = "suspended"
	TemplateActivated            = "activated"
	TemplatePasswordReset        = "password_reset"
)

func PhoneOTP(phone, code string, ttl time.Duration) Message {
	return Message{
		Channel:  ChannelSMS,
		Phone:    phone,
		Body:     fmt.Sprintf("Your Consultly phone verification code is %s. It expires in %d minutes.", code, minutes(ttl)),
		Template: TemplatePhoneOTP,
	}
}

func EmailOTP(email, code string, ttl time.Duration) Message {
	return Message{
		Channel:  ChannelEmail,
		Email:    email,
		Subject:  "Verify your email address",
		Body:     fmt.Sprintf("Your Consultly email verification code is %s. It expires in %d minutes.", code, minutes(ttl)),
		Template: TemplateEmailOTP,
	}
}

func RegistrationReceived(email, name string) Message {
	return Message{
		Channel:  ChannelEmail,
		Email:    email,
		Subject:  "Registration received",
		Body:     fmt.Sprintf("Hello %s, your registration has been received and is pending review. We will notify you once it has been reviewed.", name),
		Template: TemplateRegistrationReceived,
	}
}

func Approved(email, name, displayID string) Message {
	return Message{
		Channel:  ChannelEmail,
		Email:    email,
		Subject:  "Your account has been approved",
		Body:     fmt.Sprintf("Hello %s, your account %s has been approved. You can now log in.", name, displayID),
		Template: TemplateApproved,
	}
}

func Rejected(email, name, reason string) Message {
	body := fmt.Sprintf("Hello %s, we are unable to approve your registration at this time.", name)
	if reason != "" {
		body += " Reason: " + reason
	}
	return Message{
		Channel:  ChannelEmail,
		Email:    email,
		Subject:  "Your registration was not approved",
		Body:     body,
		Template: TemplateRejected,
	}
}

func Suspended(email, name, reason string) Message {
	body := fmt.Sprintf("Hello %s, your account has been suspended.", name)
	if reason != "" {
		body += " Reason: " + reason
	}
	return Message{
		Channel:  ChannelEmail,
		Email:    email,
		Subject:  "Your account has been suspended",
		Body:     body,
		Template: TemplateSuspended,
	}
}

func Activated(email, name string) Message {
	return Message{
		Channel:  ChannelEmail,
		Email:    email,
		Subject:  "Your account has been activated",
		Body:     fmt.Sprintf("Hello %s, your account is active again.", name),
		Template: TemplateActivated,
	}
}

// PasswordReset goes to both phone and email in one registration-pin call.
func PasswordReset(phone, email, code string, ttl time.Duration) Message {
	return Message{
		Channel:  ChannelRegistrationPin,
		Phone:    phone,
		Email:    email,
		Subject:  "Password reset code",
		Body:     fmt.Sprintf("Your Consultly password reset code is %s. It expires in %d minutes.", code, minutes(ttl)),
		Template: TemplatePasswordReset,
	}
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
