package models

import (
	"strings"

	dErrors "consultly/pkg/domain-errors"
)

// Kind discriminates the two principal variants.
type Kind string

const (
	KindIndividual   Kind = "individual"
	KindOrganization Kind = "organization"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	return k == KindIndividual || k == KindOrganization
}

// ParseKind parses a variant discriminator from client input.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", dErrors.NewField(dErrors.CodeValidation, "type", "type must be individual or organization")
	}
	return k, nil
}

// Status is the account standing.
type Status string

const (
	StatusPendingVerification Status = "pending_verification"
	StatusPending             Status = "pending"
	StatusActive              Status = "active"
	StatusInactive            Status = "inactive"
	StatusSuspended           Status = "suspended"
	StatusTerminated          Status = "terminated"
	StatusRejected            Status = "rejected"
)

func (s Status) String() string { return string(s) }

// DeniesAccess reports statuses that block an authenticated request even
// when the token itself is still valid.
func (s Status) DeniesAccess() bool {
	switch s {
	case StatusSuspended, StatusInactive, StatusTerminated, StatusRejected:
		return true
	}
	return false
}

// RegistrationStatus records whether the principal has a full profile.
type RegistrationStatus string

const (
	RegistrationQuick    RegistrationStatus = "quick"
	RegistrationComplete RegistrationStatus = "complete"
)

// Channel is an out-of-band verification channel.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

func (c Channel) String() string { return string(c) }

func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelPhone:
		return ChannelPhone, nil
	case ChannelEmail:
		return ChannelEmail, nil
	}
	return "", dErrors.NewField(dErrors.CodeValidation, "type", "verification type must be phone or email")
}

// Field names a unique identity field as clients know it.
type Field string

const (
	FieldEmail              Field = "email"
	FieldBusinessEmail      Field = "businessEmail"
	FieldPhone              Field = "phone"
	FieldNationalID         Field = "nationalId"
	FieldTaxID              Field = "taxId"
	FieldRegistrationNumber Field = "registrationNumber"
)

func (f Field) String() string { return string(f) }

// Roles granted by the system.
const (
	RoleConsultant   = "consultant"
	RoleOrganization = "organization"
	RoleAdmin        = "admin"
)

// DenialReason is the status-specific message shown when s blocks login or
// an authenticated request.
func (s Status) DenialReason() string {
	switch s {
	case StatusInactive:
		return "account is inactive"
	case StatusSuspended:
		return "account is suspended"
	case StatusTerminated:
		return "account has been terminated"
	case StatusRejected:
		return "account registration was rejected"
	case StatusPending:
		return "account is pending review"
	case StatusPendingVerification:
		return "account is pending verification"
	}
	return "account status does not permit access"
}
