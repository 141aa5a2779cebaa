package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "consultly/pkg/domain"
	audit "consultly/pkg/platform/audit"
	txcontext "consultly/pkg/platform/tx"
)

// Store implements audit.Store on the audit_log table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var subjectID *uuid.UUID
	if !event.SubjectID.IsNil() {
		v := uuid.UUID(event.SubjectID)
		subjectID = &v
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_log (
			id, category, occurred_at, action, detail, severity,
			subject_id, subject_kind, subject, actor_id,
			request_id, client_ip, user_agent, device
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		uuid.New(), string(event.Category), event.Timestamp, event.Action, event.Detail, string(event.Severity),
		subjectID, event.SubjectKind, event.Subject, event.ActorID,
		event.RequestID, event.ClientIP, event.UserAgent, event.Device,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subjectID id.PrincipalID) ([]audit.Event, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT category, occurred_at, action, detail, severity, subject_kind, subject,
		       actor_id, request_id, client_ip, user_agent, device
		FROM audit_log
		WHERE subject_id = $1
		ORDER BY occurred_at ASC`, uuid.UUID(subjectID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		e := audit.Event{SubjectID: subjectID}
		var category, severity string
		if err := rows.Scan(&category, &e.Timestamp, &e.Action, &e.Detail, &severity, &e.SubjectKind, &e.Subject,
			&e.ActorID, &e.RequestID, &e.ClientIP, &e.UserAgent, &e.Device); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Severity = audit.Severity(severity)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
