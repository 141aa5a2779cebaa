package revocation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"consultly/pkg/platform/circuit"
)

// ErrDegraded is reported by Health while the primary list is failing.
var ErrDegraded = errors.New("revocation list degraded: serving from local fallback")

// Resilient writes every revocation to the primary list and to a local
// fallback. When the primary errors the fallback answers, so a logout on
// this instance is still honoured during an outage.
type Resilient struct {
	primary  List
	fallback List
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewResilient(primary, fallback List, breaker *circuit.Breaker, logger *slog.Logger) *Resilient {
	if breaker == nil {
		breaker = circuit.New("revocation")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resilient{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (r *Resilient) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.fallback.Revoke(ctx, jti, ttl); err != nil {
		return err
	}
	if err := r.primary.Revoke(ctx, jti, ttl); err != nil {
		r.recordFailure(ctx, "revoke", err)
		return nil
	}
	r.recordSuccess(ctx)
	return nil
}

func (r *Resilient) IsRevoked(ctx context.Context, jti string) (bool, error) {
	local, err := r.fallback.IsRevoked(ctx, jti)
	if err != nil {
		return false, err
	}
	shared, err := r.primary.IsRevoked(ctx, jti)
	if err != nil {
		r.recordFailure(ctx, "is_revoked", err)
		return local, nil
	}
	r.recordSuccess(ctx)
	return local || shared, nil
}

// Health fails while the breaker is open.
func (r *Resilient) Health(context.Context) error {
	if r.breaker.IsOpen() {
		return ErrDegraded
	}
	return nil
}

func (r *Resilient) recordFailure(ctx context.Context, op string, err error) {
	_, change := r.breaker.RecordFailure()
	if change.Opened {
		r.logger.ErrorContext(ctx, "revocation list circuit opened, using local fallback",
			"breaker", r.breaker.Name(),
			"op", op,
			"error", err,
		)
		return
	}
	r.logger.WarnContext(ctx, "revocation list call failed", "op", op, "error", err)
}

func (r *Resilient) recordSuccess(ctx context.Context) {
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "revocation list circuit closed", "breaker", r.breaker.Name())
	}
}
