package admin

import (
	"log/slog"
	"net/http"

	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/requestcontext"
)

// RoleAdmin is granted only through bootstrap configuration.
const RoleAdmin = "admin"

// RequireRole admits authenticated principals holding role. It must run
// after auth.RequireAuth, which loads the current roles.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principalID := requestcontext.PrincipalID(ctx)
			if principalID.IsNil() {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !requestcontext.HasRole(ctx, role) {
				logger.WarnContext(ctx, "forbidden - missing role",
					"principal_id", principalID.String(),
					"required_role", role,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, role+" role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
