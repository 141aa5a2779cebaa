package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/requestcontext"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// AccessChecker re-loads the principal behind a token and decides whether
// its current status still permits access. It returns the roles as stored
// now, not as embedded in the token.
type AccessChecker interface {
	CheckAccess(ctx context.Context, kind string, principalID id.PrincipalID) ([]string, error)
}

// RevocationChecker reports whether a token was revoked before its expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Claims represents what the middleware needs from a validated token.
type Claims struct {
	PrincipalID string
	Kind        string
	JTI         string
	ExpiresAt   time.Time
}

type options struct {
	revocations RevocationChecker
}

type Option func(*options)

// WithRevocationList rejects tokens revoked by logout.
func WithRevocationList(list RevocationChecker) Option {
	return func(o *options) {
		o.revocations = list
	}
}

// RequireAuth validates the bearer token and re-checks the principal's
// status on every request. A token stays cryptographically valid until
// expiry, but a suspended account is denied immediately.
func RequireAuth(validator TokenValidator, checker AccessChecker, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			if o.revocations != nil {
				revoked, err := o.revocations.IsRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check token"))
					return
				}
				if revoked {
					logger.WarnContext(ctx, "unauthorized access - revoked token",
						"jti", claims.JTI,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
					return
				}
			}

			principalID, err := id.ParsePrincipalID(claims.PrincipalID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed subject",
					"jti", claims.JTI,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			roles, err := checker.CheckAccess(ctx, claims.Kind, principalID)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeInternal) {
					logger.ErrorContext(ctx, "failed to check principal access",
						"error", err,
						"request_id", requestID,
					)
				} else {
					logger.WarnContext(ctx, "unauthorized access - principal denied",
						"principal_id", principalID.String(),
						"kind", claims.Kind,
						"reason", err.Error(),
						"request_id", requestID,
					)
				}
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, principalID, claims.Kind, roles)
			ctx = requestcontext.WithToken(ctx, claims.JTI, claims.ExpiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
