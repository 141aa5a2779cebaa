package models

import (
	"slices"
	"time"

	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
)

// Secret is a hashed short-lived numeric code with its expiry.
type Secret struct {
	Hash      string    `json:"hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the secret is past its expiry at now.
func (s *Secret) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// Account holds the state shared by both principal kinds.
//
// Invariants:
//   - DisplayID is assigned once, before the first Create, and never rewritten
//   - Roles is non-empty
//   - RegistrationStatus complete implies both verification flags are true
//   - A pin is cleared once consumed
type Account struct {
	ID                 id.PrincipalID     `json:"id"`
	DisplayID          string             `json:"display_id"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	PasswordHash       string             `json:"password_hash,omitempty"`
	Status             Status             `json:"status"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	EmailVerified      bool               `json:"email_verified"`
	PhoneVerified      bool               `json:"phone_verified"`
	PhonePin           *Secret            `json:"phone_pin,omitempty"`
	EmailPin           *Secret            `json:"email_pin,omitempty"`
	ResetPin           *Secret            `json:"reset_pin,omitempty"`
	Roles              []string           `json:"roles"`
	Permissions        Permissions        `json:"permissions"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewQuickAccount builds the account of a freshly quick-registered principal.
func NewQuickAccount(principalID id.PrincipalID, email, phone, passwordHash, role string, now time.Time) Account {
	return Account{
		ID:                 principalID,
		Email:              email,
		Phone:              phone,
		PasswordHash:       passwordHash,
		Status:             StatusPendingVerification,
		RegistrationStatus: RegistrationQuick,
		Roles:              []string{role},
		Permissions:        DefaultPermissions(role),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (a *Account) HasPassword() bool { return a.PasswordHash != "" }

func (a *Account) IsQuick() bool { return a.RegistrationStatus == RegistrationQuick }

func (a *Account) IsComplete() bool { return a.RegistrationStatus == RegistrationComplete }

func (a *Account) HasRole(role string) bool { return slices.Contains(a.Roles, role) }

// Verified reports whether the channel has been confirmed.
func (a *Account) Verified(ch Channel) bool {
	if ch == ChannelPhone {
		return a.PhoneVerified
	}
	return a.EmailVerified
}

// UnverifiedChannels lists channels still awaiting verification, phone first.
func (a *Account) UnverifiedChannels() []Channel {
	var out []Channel
	if !a.PhoneVerified {
		out = append(out, ChannelPhone)
	}
	if !a.EmailVerified {
		out = append(out, ChannelEmail)
	}
	return out
}

// RequiresVerification reports a quick-registered principal with a channel
// still unverified. Such a principal may not log in.
func (a *Account) RequiresVerification() bool {
	return a.IsQuick() && len(a.UnverifiedChannels()) > 0
}

// Pin returns the verification secret for ch, or nil.
func (a *Account) Pin(ch Channel) *Secret {
	if ch == ChannelPhone {
		return a.PhonePin
	}
	return a.EmailPin
}

// SetPin replaces the verification secret for ch.
func (a *Account) SetPin(ch Channel, s *Secret, now time.Time) {
	if ch == ChannelPhone {
		a.PhonePin = s
	} else {
		a.EmailPin = s
	}
	a.UpdatedAt = now
}

// CanVerify checks that ch is still awaiting verification.
func (a *Account) CanVerify(ch Channel) error {
	if a.Verified(ch) {
		return dErrors.NewField(dErrors.CodeValidation, "type", string(ch)+" is already verified")
	}
	return nil
}

// ApplyVerification marks ch verified and clears its pin. Once both
// channels are verified a pending_verification principal becomes pending.
// Call CanVerify first.
func (a *Account) ApplyVerification(ch Channel, now time.Time) {
	if ch == ChannelPhone {
		a.PhoneVerified = true
		a.PhonePin = nil
	} else {
		a.EmailVerified = true
		a.EmailPin = nil
	}
	if a.PhoneVerified && a.EmailVerified && a.Status == StatusPendingVerification {
		a.Status = StatusPending
	}
	a.UpdatedAt = now
}

// ApplyQuickRetry refreshes an unverified quick record in place: new
// login email, phone and password with a clean verification slate.
func (a *Account) ApplyQuickRetry(email, phone, passwordHash string, now time.Time) {
	a.Email = email
	a.Phone = phone
	a.PasswordHash = passwordHash
	a.Status = StatusPendingVerification
	a.PhoneVerified = false
	a.EmailVerified = false
	a.PhonePin = nil
	a.EmailPin = nil
	a.UpdatedAt = now
}

// CanRetryQuick checks that a matching record may be overwritten by a new
// quick registration.
func (a *Account) CanRetryQuick() bool {
	return a.IsQuick() && a.Status == StatusPendingVerification
}

// ApplyCompletion promotes the account to a complete profile awaiting
// review. Full registration carries document proof, which stands in for
// the OTP channels, so both flags are set. passwordHash replaces the
// stored password; an empty value clears it.
func (a *Account) ApplyCompletion(passwordHash string, now time.Time) {
	a.RegistrationStatus = RegistrationComplete
	a.Status = StatusPending
	a.PhoneVerified = true
	a.EmailVerified = true
	a.PhonePin = nil
	a.EmailPin = nil
	a.PasswordHash = passwordHash
	a.UpdatedAt = now
}

// CanReview checks that the account is awaiting review.
func (a *Account) CanReview() error {
	if a.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "account is not pending review (status "+string(a.Status)+")")
	}
	return nil
}

// ApplyApproval activates a reviewed account. Call CanReview first.
func (a *Account) ApplyApproval(now time.Time) {
	a.Status = StatusActive
	a.UpdatedAt = now
}

// ApplyRejection moves a reviewed account to the kind's rejected status.
// Call CanReview first.
func (a *Account) ApplyRejection(rejected Status, now time.Time) {
	a.Status = rejected
	a.UpdatedAt = now
}

// ApplySuspension suspends the account from any prior status.
func (a *Account) ApplySuspension(now time.Time) {
	a.Status = StatusSuspended
	a.UpdatedAt = now
}

// ApplyActivation activates the account from any prior status.
func (a *Account) ApplyActivation(now time.Time) {
	a.Status = StatusActive
	a.UpdatedAt = now
}

// ApplyResetPin stores a fresh password reset secret.
func (a *Account) ApplyResetPin(s *Secret, now time.Time) {
	a.ResetPin = s
	a.UpdatedAt = now
}

// ConsumeResetPin clears the reset secret after a successful use.
func (a *Account) ConsumeResetPin(now time.Time) {
	a.ResetPin = nil
	a.UpdatedAt = now
}

// ApplyPasswordReset sets a new password and consumes the reset secret.
func (a *Account) ApplyPasswordReset(passwordHash string, now time.Time) {
	a.PasswordHash = passwordHash
	a.ResetPin = nil
	a.UpdatedAt = now
}

// GrantRole adds role and its default permissions.
func (a *Account) GrantRole(role string, now time.Time) {
	if a.HasRole(role) {
		return
	}
	a.Roles = append(a.Roles, role)
	a.Permissions = a.Permissions.Merge(DefaultPermissions(role))
	a.UpdatedAt = now
}

func (a Account) clone() Account {
	out := a
	out.PhonePin = cloneSecret(a.PhonePin)
	out.EmailPin = cloneSecret(a.EmailPin)
	out.ResetPin = cloneSecret(a.ResetPin)
	out.Roles = slices.Clone(a.Roles)
	out.Permissions = a.Permissions.Clone()
	return out
}

func cloneSecret(s *Secret) *Secret {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
