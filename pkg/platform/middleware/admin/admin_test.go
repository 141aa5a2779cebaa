package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "consultly/pkg/domain"
	"consultly/pkg/requestcontext"
)

func TestRequireRole(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequireRole(RoleAdmin, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(roles []string, authenticated bool) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/suspend", nil)
		if authenticated {
			r = r.WithContext(requestcontext.WithPrincipal(r.Context(), id.NewPrincipalID(), "individual", roles))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(nil, false))
	assert.Equal(t, http.StatusForbidden, do([]string{"consultant"}, true))
	assert.Equal(t, http.StatusNoContent, do([]string{"consultant", "admin"}, true))
}
