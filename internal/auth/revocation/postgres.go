package revocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres persists revoked token IDs in the token_revocations table.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

func NewPostgres(db *sql.DB, clock Clock) *Postgres {
	if clock == nil {
		clock = time.Now
	}
	return &Postgres{db: db, clock: clock}
}

func (p *Postgres) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	query := `
		INSERT INTO token_revocations (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET
			expires_at = EXCLUDED.expires_at
	`
	if _, err := p.db.ExecContext(ctx, query, jti, p.clock().Add(ttl)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (p *Postgres) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var expiresAt time.Time
	err := p.db.QueryRowContext(ctx, `SELECT expires_at FROM token_revocations WHERE jti = $1`, jti).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return !p.clock().After(expiresAt), nil
}
