package models

import (
	"strings"

	principal "consultly/internal/principal/models"
	id "consultly/pkg/domain"
	"consultly/pkg/platform/validation"
)

const maxReasonLength = 1000

// Action names a review transition.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionSuspend  Action = "suspend"
	ActionActivate Action = "activate"
)

// RejectRequest is the body of a reject call.
type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Normalize() {
	if r == nil {
		return
	}
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *RejectRequest) Validate() error {
	if r == nil {
		return nil
	}
	return validation.MaxLength("reason", r.Reason, maxReasonLength)
}

// StatusChangeRequest targets a principal by email or phone. Type is
// optional; without it individuals are searched before organizations.
type StatusChangeRequest struct {
	Type     string `json:"type,omitempty"`
	Identity string `json:"identity"`
	Email    string `json:"email,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (r *StatusChangeRequest) Normalize() {
	if r == nil {
		return
	}
	if r.Identity == "" {
		r.Identity = r.Email
	}
	r.Identity = strings.TrimSpace(r.Identity)
	if strings.Contains(r.Identity, "@") {
		r.Identity = validation.NormalizeEmail(r.Identity)
	} else {
		r.Identity = validation.NormalizePhone(r.Identity)
	}
	r.Type = strings.TrimSpace(r.Type)
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *StatusChangeRequest) Validate() error {
	if r == nil {
		return validation.Required("identity", "")
	}
	if err := validation.First(
		validation.MaxLength("identity", r.Identity, 255),
		validation.MaxLength("reason", r.Reason, maxReasonLength),
		validation.Required("identity", r.Identity),
	); err != nil {
		return err
	}
	if r.Type != "" {
		if _, err := principal.ParseKind(r.Type); err != nil {
			return err
		}
	}
	return nil
}

// Kinds returns the variants to search, in order.
func (r *StatusChangeRequest) Kinds() []principal.Kind {
	if k, err := principal.ParseKind(r.Type); err == nil {
		return []principal.Kind{k}
	}
	return []principal.Kind{principal.KindIndividual, principal.KindOrganization}
}

// Result is the principal's standing after a review transition.
type Result struct {
	ID        id.PrincipalID   `json:"id"`
	DisplayID string           `json:"displayId"`
	Kind      principal.Kind   `json:"type"`
	Status    principal.Status `json:"status"`
	Message   string           `json:"message"`
}

func NewResult(p principal.Principal, message string) *Result {
	a := p.Base()
	return &Result{
		ID:        a.ID,
		DisplayID: a.DisplayID,
		Kind:      p.Kind(),
		Status:    a.Status,
		Message:   message,
	}
}
