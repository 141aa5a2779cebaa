package models

import (
	principal "consultly/internal/principal/models"
	id "consultly/pkg/domain"
)

// Outcome says how a registration was satisfied.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeRetried  Outcome = "retried"
	OutcomePromoted Outcome = "promoted"
)

// RegistrationResult describes the stored principal after a registration.
type RegistrationResult struct {
	ID                 id.PrincipalID               `json:"id"`
	DisplayID          string                       `json:"displayId"`
	Kind               principal.Kind               `json:"type"`
	Email              string                       `json:"email"`
	Phone              string                       `json:"phone"`
	Status             principal.Status             `json:"status"`
	RegistrationStatus principal.RegistrationStatus `json:"registrationStatus"`
	Outcome            Outcome                      `json:"outcome"`
	Message            string                       `json:"message"`
}

// NewRegistrationResult builds the result view of p.
func NewRegistrationResult(p principal.Principal, outcome Outcome, message string) *RegistrationResult {
	a := p.Base()
	return &RegistrationResult{
		ID:                 a.ID,
		DisplayID:          a.DisplayID,
		Kind:               p.Kind(),
		Email:              a.Email,
		Phone:              a.Phone,
		Status:             a.Status,
		RegistrationStatus: a.RegistrationStatus,
		Outcome:            outcome,
		Message:            message,
	}
}

// VerificationResult reports the channel flags after a verify call.
type VerificationResult struct {
	Channel       principal.Channel `json:"type"`
	PhoneVerified bool              `json:"isPhoneVerified"`
	EmailVerified bool              `json:"isEmailVerified"`
	Status        principal.Status  `json:"status"`
	Message       string            `json:"message"`
}

// ResendResult lists the channels that received a fresh code.
type ResendResult struct {
	Channels []principal.Channel `json:"channels"`
	Message  string              `json:"message"`
}
