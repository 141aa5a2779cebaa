package auth_test

//go:generate mockgen -source=auth.go -destination=mocks/mocks.go -package=mocks TokenValidator,AccessChecker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/middleware/auth"
	"consultly/pkg/platform/middleware/auth/mocks"
	"consultly/pkg/requestcontext"
)

type RequireAuthSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	validator *mocks.MockTokenValidator
	checker   *mocks.MockAccessChecker
	handler   http.Handler
	reached   bool
	gotRoles  []string
}

func TestRequireAuthSuite(t *testing.T) {
	suite.Run(t, new(RequireAuthSuite))
}

func (s *RequireAuthSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.validator = mocks.NewMockTokenValidator(s.ctrl)
	s.checker = mocks.NewMockAccessChecker(s.ctrl)
	s.reached = false
	s.gotRoles = nil
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = auth.RequireAuth(s.validator, s.checker, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.reached = true
		s.gotRoles = requestcontext.Roles(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func (s *RequireAuthSuite) do(header string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func (s *RequireAuthSuite) TestRequireAuth() {
	principalID := id.NewPrincipalID()

	s.Run("missing header is unauthorized", func() {
		rec := s.do("")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.False(s.reached)
	})

	s.Run("invalid token is unauthorized", func() {
		s.validator.EXPECT().ValidateToken("bad").Return(nil, errors.New("signature mismatch"))
		rec := s.do("Bearer bad")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.False(s.reached)
	})

	s.Run("suspended principal is denied although token is valid", func() {
		s.validator.EXPECT().ValidateToken("good").Return(&auth.Claims{PrincipalID: principalID.String(), Kind: "individual", JTI: "j1"}, nil)
		s.checker.EXPECT().CheckAccess(gomock.Any(), "individual", principalID).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "account is suspended"))
		rec := s.do("Bearer good")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Contains(rec.Body.String(), "account is suspended")
		s.False(s.reached)
	})

	s.Run("store failure is internal", func() {
		s.validator.EXPECT().ValidateToken("good").Return(&auth.Claims{PrincipalID: principalID.String(), Kind: "individual"}, nil)
		s.checker.EXPECT().CheckAccess(gomock.Any(), "individual", principalID).
			Return(nil, dErrors.Wrap(errors.New("conn refused"), dErrors.CodeInternal, "failed to load principal"))
		rec := s.do("Bearer good")
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.False(s.reached)
	})

	s.Run("active principal passes with fresh roles", func() {
		s.validator.EXPECT().ValidateToken("good").Return(&auth.Claims{PrincipalID: principalID.String(), Kind: "organization"}, nil)
		s.checker.EXPECT().CheckAccess(gomock.Any(), "organization", principalID).Return([]string{"organization"}, nil)
		rec := s.do("Bearer good")
		s.Equal(http.StatusOK, rec.Code)
		s.True(s.reached)
		s.Equal([]string{"organization"}, s.gotRoles)
	})
}

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func (s *RequireAuthSuite) TestRevokedTokens() {
	principalID := id.NewPrincipalID()
	expires := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	var gotJTI string
	var gotExpiry time.Time
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.RequireAuth(s.validator, s.checker, logger, auth.WithRevocationList(revokedSet{"old": true}))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotJTI = requestcontext.TokenID(r.Context())
			gotExpiry = requestcontext.TokenExpiry(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	do := func(token string) int {
		r := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec.Code
	}

	s.Run("revoked jti is rejected before the principal is loaded", func() {
		s.validator.EXPECT().ValidateToken("t1").Return(&auth.Claims{PrincipalID: principalID.String(), Kind: "individual", JTI: "old"}, nil)
		s.Equal(http.StatusUnauthorized, do("t1"))
	})

	s.Run("live token carries its jti and expiry", func() {
		s.validator.EXPECT().ValidateToken("t2").Return(&auth.Claims{
			PrincipalID: principalID.String(), Kind: "individual", JTI: "new", ExpiresAt: expires,
		}, nil)
		s.checker.EXPECT().CheckAccess(gomock.Any(), "individual", principalID).Return([]string{"consultant"}, nil)
		s.Equal(http.StatusOK, do("t2"))
		s.Equal("new", gotJTI)
		s.Equal(expires, gotExpiry)
	})
}
