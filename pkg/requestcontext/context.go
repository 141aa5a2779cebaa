// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free of
// net/http lets services import it without pulling in transport code.
//
// Usage in services:
//
//	principalID := requestcontext.PrincipalID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithPrincipal(ctx, adminID, "individual", []string{"admin"})
package requestcontext

import (
	"context"
	"slices"
	"time"

	id "consultly/pkg/domain"
)

type (
	principalIDKey   struct{}
	principalKindKey struct{}
	rolesKey         struct{}
	clientIPKey      struct{}
	userAgentKey     struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
	tokenIDKey       struct{}
	tokenExpiryKey   struct{}
)

var (
	ContextKeyPrincipalID   = principalIDKey{}
	ContextKeyPrincipalKind = principalKindKey{}
	ContextKeyRoles         = rolesKey{}
	ContextKeyClientIP      = clientIPKey{}
	ContextKeyUserAgent     = userAgentKey{}
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
	ContextKeyTokenID       = tokenIDKey{}
	ContextKeyTokenExpiry   = tokenExpiryKey{}
)

// -----------------------------------------------------------------------------
// Authenticated principal
// -----------------------------------------------------------------------------

// PrincipalID returns the authenticated principal, or the nil ID.
func PrincipalID(ctx context.Context) id.PrincipalID {
	if v, ok := ctx.Value(ContextKeyPrincipalID).(id.PrincipalID); ok {
		return v
	}
	return id.PrincipalID{}
}

// PrincipalKind returns "individual" or "organization" for authenticated requests.
func PrincipalKind(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyPrincipalKind).(string); ok {
		return v
	}
	return ""
}

// Roles returns the roles of the authenticated principal as loaded on this request.
func Roles(ctx context.Context) []string {
	if v, ok := ctx.Value(ContextKeyRoles).([]string); ok {
		return v
	}
	return nil
}

// HasRole reports whether the authenticated principal holds role.
func HasRole(ctx context.Context, role string) bool {
	return slices.Contains(Roles(ctx), role)
}

// WithPrincipal injects the authenticated principal.
func WithPrincipal(ctx context.Context, principalID id.PrincipalID, kind string, roles []string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyPrincipalID, principalID)
	ctx = context.WithValue(ctx, ContextKeyPrincipalKind, kind)
	ctx = context.WithValue(ctx, ContextKeyRoles, roles)
	return ctx
}

// TokenID returns the jti of the bearer token that authenticated the request.
func TokenID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyTokenID).(string); ok {
		return v
	}
	return ""
}

// TokenExpiry returns when the authenticating token expires, or the zero time.
func TokenExpiry(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ContextKeyTokenExpiry).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// WithToken records the authenticating token so it can be revoked on logout.
func WithToken(ctx context.Context, jti string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, ContextKeyTokenID, jti)
	return context.WithValue(ctx, ContextKeyTokenExpiry, expiresAt)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	return ctx
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() outside HTTP requests (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
