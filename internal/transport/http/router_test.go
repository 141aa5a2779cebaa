package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	id "consultly/pkg/domain"
	authmw "consultly/pkg/platform/middleware/auth"
	"consultly/pkg/platform/middleware/ratelimit"
)

type stubRoutes struct {
	public        string
	authenticated string
}

func (s stubRoutes) Register(r chi.Router) {
	r.Post(s.public, ok)
}

func (s stubRoutes) RegisterAuthenticated(r chi.Router) {
	if s.authenticated != "" {
		r.Get(s.authenticated, ok)
	}
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// tokens maps a bearer token to the principal it authenticates.
type tokens map[string]string

func (t tokens) ValidateToken(token string) (*authmw.Claims, error) {
	sub, found := t[token]
	if !found {
		return nil, errors.New("unknown token")
	}
	return &authmw.Claims{PrincipalID: sub, Kind: "individual", JTI: token}, nil
}

// roles maps a principal ID to its current roles.
type roles map[string][]string

func (r roles) CheckAccess(_ context.Context, _ string, principalID id.PrincipalID) ([]string, error) {
	return r[principalID.String()], nil
}

type revoked map[string]bool

func (r revoked) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

type RouterSuite struct {
	suite.Suite
	router  http.Handler
	checks  map[string]HealthCheck
	limiter *ratelimit.Limiter
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	consultant := id.NewPrincipalID().String()
	operator := id.NewPrincipalID().String()
	s.checks = map[string]HealthCheck{}
	s.limiter = nil
	s.build(consultant, operator)
}

func (s *RouterSuite) build(consultant, operator string) {
	logger := slog.New(slog.DiscardHandler)
	s.router = NewRouter(Config{
		Auth:         stubRoutes{public: "/auth/login", authenticated: "/auth/profile"},
		Registration: stubRoutes{public: "/consultants/quick-register"},
		Review:       stubRoutes{public: "/auth/suspend"},
		Validator:    tokens{"consultant": consultant, "operator": operator, "old": consultant},
		Access:       roles{consultant: {"consultant"}, operator: {"consultant", "admin"}},
		Revocations:  revoked{"old": true},
		Limiter:      s.limiter,
		Health:       s.checks,
		Logger:       logger,
	})
}

func (s *RouterSuite) do(method, path, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, r)
	return rec
}

// -----------------------------------------------------------------------------
// Route groups
// -----------------------------------------------------------------------------

func (s *RouterSuite) TestPublicRoutes() {
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/auth/login", "").Code)
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/consultants/quick-register", "").Code)
}

func (s *RouterSuite) TestAuthenticatedRoutes() {
	s.Run("missing token", func() {
		s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/auth/profile", "").Code)
	})
	s.Run("valid token", func() {
		s.Equal(http.StatusNoContent, s.do(http.MethodGet, "/auth/profile", "consultant").Code)
	})
	s.Run("revoked token", func() {
		s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/auth/profile", "old").Code)
	})
}

func (s *RouterSuite) TestAdminRoutes() {
	s.Run("consultant is forbidden", func() {
		s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/auth/suspend", "consultant").Code)
	})
	s.Run("admin is admitted", func() {
		s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/auth/suspend", "operator").Code)
	})
	s.Run("anonymous is unauthorized", func() {
		s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/auth/suspend", "").Code)
	})
}

func (s *RouterSuite) TestRateLimitedPublicRoutes() {
	s.limiter = ratelimit.New(0.001, 2, slog.New(slog.DiscardHandler))
	s.build(id.NewPrincipalID().String(), id.NewPrincipalID().String())

	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/auth/login", "").Code)
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/auth/login", "").Code)
	s.Equal(http.StatusTooManyRequests, s.do(http.MethodPost, "/auth/login", "").Code)
}

// -----------------------------------------------------------------------------
// Health
// -----------------------------------------------------------------------------

func (s *RouterSuite) TestHealth() {
	s.Run("no checks", func() {
		rec := s.do(http.MethodGet, "/health", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("failing dependency degrades", func() {
		s.checks["postgres"] = func(context.Context) error { return nil }
		s.checks["redis"] = func(context.Context) error { return errors.New("connection refused") }

		rec := s.do(http.MethodGet, "/health", "")
		s.Equal(http.StatusServiceUnavailable, rec.Code)

		var body healthResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Equal("degraded", body.Status)
		s.Equal("ok", body.Checks["postgres"])
		s.Equal("connection refused", body.Checks["redis"])
	})
}
