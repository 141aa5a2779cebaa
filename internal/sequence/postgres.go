package sequence

import (
	"context"
	"database/sql"
	"fmt"

	"consultly/pkg/platform/sentinel"
	txcontext "consultly/pkg/platform/tx"
)

const upsertCounter = `
	INSERT INTO counters (name, sequence_value) VALUES ($1, 1)
	ON CONFLICT (name) DO UPDATE SET sequence_value = counters.sequence_value + 1
	RETURNING sequence_value`

// PostgresAllocator increments the counters table in a single statement.
type PostgresAllocator struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresAllocator {
	return &PostgresAllocator{db: db}
}

func (a *PostgresAllocator) Next(ctx context.Context, name string) (int64, error) {
	var row *sql.Row
	if tx, ok := txcontext.From(ctx); ok {
		row = tx.QueryRowContext(ctx, upsertCounter, name)
	} else {
		row = a.db.QueryRowContext(ctx, upsertCounter, name)
	}
	var value int64
	if err := row.Scan(&value); err != nil {
		return 0, fmt.Errorf("next %s: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	return value, nil
}
