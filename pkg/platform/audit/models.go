package audit

import (
	"context"
	"time"

	id "consultly/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// It drives retention and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers account lifecycle decisions (approval, rejection).
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers credential and access events (login failures, suspensions).
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity and can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Severity levels used for alert routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is one audit log entry. Request metadata fields are filled by the
// publisher from the request context when the emitter leaves them empty.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	Action      string
	Detail      string
	Severity    Severity
	SubjectID   id.PrincipalID
	SubjectKind string
	Subject     string // display ID or masked identity
	ActorID     string
	RequestID   string
	ClientIP    string
	UserAgent   string
	Device      string // "browser / os" parsed from UserAgent
}

type AuditEvent string

const (
	EventPrincipalRegistered     AuditEvent = "principal_registered"
	EventPrincipalCompleted      AuditEvent = "principal_profile_completed"
	EventOtpVerified             AuditEvent = "otp_verified"
	EventOtpResent               AuditEvent = "otp_resent"
	EventPrincipalApproved       AuditEvent = "principal_approved"
	EventPrincipalRejected       AuditEvent = "principal_rejected"
	EventPrincipalSuspended      AuditEvent = "principal_suspended"
	EventPrincipalActivated      AuditEvent = "principal_activated"
	EventLoginSucceeded          AuditEvent = "login_succeeded"
	EventLoginFailed             AuditEvent = "login_failed"
	EventVerificationRequired    AuditEvent = "verification_required"
	EventPasswordResetRequested  AuditEvent = "password_reset_requested"
	EventPasswordResetCompleted  AuditEvent = "password_reset_completed"
	EventPasswordResetFailed     AuditEvent = "password_reset_failed"
	EventNotificationUndelivered AuditEvent = "notification_undelivered"
	EventRoleGranted             AuditEvent = "role_granted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventPrincipalRegistered: CategoryCompliance,
	EventPrincipalCompleted:  CategoryCompliance,
	EventPrincipalApproved:   CategoryCompliance,
	EventPrincipalRejected:   CategoryCompliance,

	EventPrincipalSuspended:     CategorySecurity,
	EventPrincipalActivated:     CategorySecurity,
	EventLoginFailed:            CategorySecurity,
	EventPasswordResetCompleted: CategorySecurity,
	EventPasswordResetFailed:    CategorySecurity,
	EventRoleGranted:            CategorySecurity,

	EventOtpVerified:             CategoryOperations,
	EventOtpResent:               CategoryOperations,
	EventLoginSucceeded:          CategoryOperations,
	EventVerificationRequired:    CategoryOperations,
	EventPasswordResetRequested:  CategoryOperations,
	EventNotificationUndelivered: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID id.PrincipalID) ([]Event, error)
}
