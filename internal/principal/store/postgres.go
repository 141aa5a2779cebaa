package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"consultly/internal/platform/postgres"
	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
	"consultly/pkg/platform/sentinel"
	txcontext "consultly/pkg/platform/tx"
)

// Table describes how one variant maps onto its SQL table. The full record
// lives in the JSONB data column; identity columns exist for the unique
// constraints and lookups.
type Table[T models.Record[T]] struct {
	Name string
	// Columns maps each unique field to its column, in UniqueFields order.
	Columns []Column
	New     func() T
}

type Column struct {
	Field models.Field
	Name  string
}

var IndividualsTable = Table[*models.Individual]{
	Name: "individuals",
	Columns: []Column{
		{Field: models.FieldEmail, Name: "email"},
		{Field: models.FieldPhone, Name: "phone"},
		{Field: models.FieldNationalID, Name: "national_id"},
		{Field: models.FieldTaxID, Name: "tax_id"},
	},
	New: func() *models.Individual { return &models.Individual{} },
}

var OrganizationsTable = Table[*models.Organization]{
	Name: "organizations",
	Columns: []Column{
		{Field: models.FieldBusinessEmail, Name: "email"},
		{Field: models.FieldPhone, Name: "phone"},
		{Field: models.FieldRegistrationNumber, Name: "registration_number"},
		{Field: models.FieldTaxID, Name: "tax_id"},
	},
	New: func() *models.Organization { return &models.Organization{} },
}

// PostgresStore persists one variant in Postgres.
type PostgresStore[T models.Record[T]] struct {
	db    *sql.DB
	table Table[T]
}

func NewPostgres[T models.Record[T]](db *sql.DB, table Table[T]) *PostgresStore[T] {
	return &PostgresStore[T]{db: db, table: table}
}

func NewIndividualsPostgres(db *sql.DB) *PostgresStore[*models.Individual] {
	return NewPostgres(db, IndividualsTable)
}

func NewOrganizationsPostgres(db *sql.DB) *PostgresStore[*models.Organization] {
	return NewPostgres(db, OrganizationsTable)
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore[T]) q(ctx context.Context) queryer {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore[T]) Create(ctx context.Context, p T) error {
	base := p.Base()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.table.Name, err)
	}
	cols := []string{"id", "display_id"}
	args := []any{base.ID.String(), base.DisplayID}
	for _, c := range s.table.Columns {
		cols = append(cols, c.Name)
		args = append(args, nullable(p.IdentityValue(c.Field)))
	}
	cols = append(cols, "status", "registration_status", "roles", "data", "created_at", "updated_at")
	args = append(args, string(base.Status), string(base.RegistrationStatus), pq.Array(base.Roles), data, base.CreatedAt, base.UpdatedAt)

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		s.table.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := s.q(ctx).ExecContext(ctx, query, args...); err != nil {
		return s.translate(err, "insert")
	}
	return nil
}

// Update rewrites everything except display_id and created_at.
func (s *PostgresStore[T]) Update(ctx context.Context, p T) error {
	return s.update(ctx, s.q(ctx), p)
}

func (s *PostgresStore[T]) update(ctx context.Context, q queryer, p T) error {
	base := p.Base()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.table.Name, err)
	}
	sets := make([]string, 0, len(s.table.Columns)+5)
	args := []any{base.ID.String()}
	for _, c := range s.table.Columns {
		args = append(args, nullable(p.IdentityValue(c.Field)))
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}
	for _, kv := range []struct {
		col string
		val any
	}{
		{"status", string(base.Status)},
		{"registration_status", string(base.RegistrationStatus)},
		{"roles", pq.Array(base.Roles)},
		{"data", data},
		{"updated_at", base.UpdatedAt},
	} {
		args = append(args, kv.val)
		sets = append(sets, fmt.Sprintf("%s = $%d", kv.col, len(args)))
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, s.table.Name, strings.Join(sets, ", "))

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return s.translate(err, "update")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s rows affected: %w", s.table.Name, err)
	}
	if rows == 0 {
		return fmt.Errorf("principal %s: %w", base.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore[T]) FindByID(ctx context.Context, principalID id.PrincipalID) (T, error) {
	query := fmt.Sprintf(`SELECT display_id, data FROM %s WHERE id = $1`, s.table.Name)
	return s.scan(s.q(ctx).QueryRowContext(ctx, query, principalID.String()))
}

func (s *PostgresStore[T]) FindByField(ctx context.Context, field models.Field, value string) (T, error) {
	var zero T
	col, ok := s.column(field)
	if !ok {
		return zero, fmt.Errorf("%s has no unique field %s", s.table.Name, field)
	}
	query := fmt.Sprintf(`SELECT display_id, data FROM %s WHERE %s = $1`, s.table.Name, col)
	return s.scan(s.q(ctx).QueryRowContext(ctx, query, value))
}

func (s *PostgresStore[T]) Execute(ctx context.Context, principalID id.PrincipalID, validate func(T) error, mutate func(T)) (T, error) {
	var result T
	err := txcontext.RunInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := fmt.Sprintf(`SELECT display_id, data FROM %s WHERE id = $1 FOR UPDATE`, s.table.Name)
		p, err := s.scan(tx.QueryRowContext(ctx, query, principalID.String()))
		if err != nil {
			return err
		}
		if err := validate(p); err != nil {
			return err
		}
		mutate(p)
		if err := s.update(ctx, tx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (s *PostgresStore[T]) scan(row *sql.Row) (T, error) {
	var zero T
	var displayID string
	var data []byte
	if err := row.Scan(&displayID, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s: %w", s.table.Name, sentinel.ErrNotFound)
		}
		return zero, fmt.Errorf("select %s: %w", s.table.Name, err)
	}
	p := s.table.New()
	if err := json.Unmarshal(data, p); err != nil {
		return zero, fmt.Errorf("decode %s: %w", s.table.Name, err)
	}
	p.Base().DisplayID = displayID
	return p, nil
}

func (s *PostgresStore[T]) column(field models.Field) (string, bool) {
	for _, c := range s.table.Columns {
		if c.Field == field {
			return c.Name, true
		}
	}
	if field == models.FieldEmail || field == models.FieldBusinessEmail {
		return "email", true
	}
	return "", false
}

// translate maps unique constraint names (<table>_<column>_key) back to fields.
func (s *PostgresStore[T]) translate(err error, op string) error {
	constraint, ok := postgres.UniqueViolation(err)
	if !ok {
		return fmt.Errorf("%s %s: %w", op, s.table.Name, err)
	}
	if constraint == s.table.Name+"_display_id_key" {
		return &sentinel.UniqueViolation{Field: "displayId"}
	}
	for _, c := range s.table.Columns {
		if constraint == s.table.Name+"_"+c.Name+"_key" {
			return &sentinel.UniqueViolation{Field: c.Field.String()}
		}
	}
	return fmt.Errorf("%s %s: %w", op, s.table.Name, sentinel.ErrAlreadyUsed)
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
