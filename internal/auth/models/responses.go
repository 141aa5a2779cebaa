package models

import (
	principal "consultly/internal/principal/models"
	id "consultly/pkg/domain"
)

// Profile is the client view of an authenticated principal.
type Profile struct {
	ID                 id.PrincipalID               `json:"id"`
	DisplayID          string                       `json:"displayId"`
	Kind               principal.Kind               `json:"type"`
	Email              string                       `json:"email"`
	Phone              string                       `json:"phone"`
	Status             principal.Status             `json:"status"`
	RegistrationStatus principal.RegistrationStatus `json:"registrationStatus"`
	PhoneVerified      bool                         `json:"phoneVerified"`
	EmailVerified      bool                         `json:"emailVerified"`
	Roles              []string                     `json:"roles"`
	Details            map[string]any               `json:"details,omitempty"`
}

func NewProfile(p principal.Principal) *Profile {
	a := p.Base()
	return &Profile{
		ID:                 a.ID,
		DisplayID:          a.DisplayID,
		Kind:               p.Kind(),
		Email:              a.Email,
		Phone:              a.Phone,
		Status:             a.Status,
		RegistrationStatus: a.RegistrationStatus,
		PhoneVerified:      a.PhoneVerified,
		EmailVerified:      a.EmailVerified,
		Roles:              append([]string(nil), a.Roles...),
		Details:            p.Snapshot(),
	}
}

// LoginResult carries the session token and the principal it was issued to.
type LoginResult struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expiresIn"`
	User      *Profile `json:"user"`
}

// MessageResult is a bare acknowledgement.
type MessageResult struct {
	Message string `json:"message"`
}
