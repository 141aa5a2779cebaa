package models

import (
	"strings"

	principal "consultly/internal/principal/models"
	"consultly/pkg/platform/validation"
)

const (
	maxIdentityLength = 254
	maxPinLength      = 10
)

// LoginRequest authenticates a principal. Type selects the variant; when it
// is empty the request is served in legacy mode and Pin may stand in for
// Password.
type LoginRequest struct {
	Type          string `json:"type,omitempty"`
	Email         string `json:"email"`
	BusinessEmail string `json:"businessEmail,omitempty"`
	Password      string `json:"password,omitempty"`
	Pin           string `json:"pin,omitempty"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	if r.Email == "" {
		r.Email = r.BusinessEmail
	}
	r.Email = validation.NormalizeEmail(r.Email)
	r.BusinessEmail = ""
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Pin = strings.TrimSpace(r.Pin)
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return validation.Required("email", "")
	}
	if err := validation.First(
		validation.MaxLength("email", r.Email, maxIdentityLength),
		validation.MaxLength("password", r.Password, validation.MaxPasswordLength),
		validation.MaxLength("pin", r.Pin, maxPinLength),
		validation.Required("email", r.Email),
	); err != nil {
		return err
	}
	if r.Password == "" {
		if err := validation.Required("password", r.Pin); err != nil {
			return err
		}
		if err := validation.Numeric("pin", r.Pin); err != nil {
			return err
		}
	}
	if r.Type != "" {
		if _, err := principal.ParseKind(r.Type); err != nil {
			return err
		}
	}
	return nil
}

// Kind returns the requested variant, or false in legacy mode.
func (r *LoginRequest) Kind() (principal.Kind, bool) {
	k, err := principal.ParseKind(r.Type)
	if err != nil {
		return "", false
	}
	return k, true
}

// PasswordResetRequest asks for a reset code.
type PasswordResetRequest struct {
	Type  string `json:"type,omitempty"`
	Email string `json:"email"`
}

func (r *PasswordResetRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = validation.NormalizeEmail(r.Email)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
}

func (r *PasswordResetRequest) Validate() error {
	if r == nil {
		return validation.Required("email", "")
	}
	if err := validation.Email("email", r.Email); err != nil {
		return err
	}
	return validType(r.Type)
}

// ConfirmPasswordResetRequest sets a new password using a reset code.
type ConfirmPasswordResetRequest struct {
	Type        string `json:"type,omitempty"`
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func (r *ConfirmPasswordResetRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = validation.NormalizeEmail(r.Email)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Code = strings.TrimSpace(r.Code)
}

func (r *ConfirmPasswordResetRequest) Validate() error {
	if r == nil {
		return validation.Required("email", "")
	}
	if err := validation.First(
		validation.MaxLength("code", r.Code, maxPinLength),
		validation.Email("email", r.Email),
		validation.Required("code", r.Code),
		validation.Numeric("code", r.Code),
		validation.Password("newPassword", r.NewPassword),
	); err != nil {
		return err
	}
	return validType(r.Type)
}

func validType(kind string) error {
	if kind == "" {
		return nil
	}
	_, err := principal.ParseKind(kind)
	return err
}
