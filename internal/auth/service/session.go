package service

import (
	"context"
	"errors"

	authmodels "consultly/internal/auth/models"
	"consultly/internal/principal/models"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/sentinel"
	"consultly/pkg/requestcontext"
)

// Profile returns the authenticated principal as currently stored.
func (s *Service) Profile(ctx context.Context) (*authmodels.Profile, error) {
	principalID := requestcontext.PrincipalID(ctx)
	kind, err := models.ParseKind(requestcontext.PrincipalKind(ctx))
	if principalID.IsNil() || err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	p, err := s.directory.FindByID(ctx, kind, principalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return authmodels.NewProfile(p), nil
}

// Logout revokes the token that authenticated the request for the rest of
// its lifetime.
func (s *Service) Logout(ctx context.Context) (*authmodels.MessageResult, error) {
	if requestcontext.PrincipalID(ctx).IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	ack := &authmodels.MessageResult{Message: "Signed out."}
	jti := requestcontext.TokenID(ctx)
	if s.revocations == nil || jti == "" {
		return ack, nil
	}
	remaining := requestcontext.TokenExpiry(ctx).Sub(requestcontext.Now(ctx))
	if remaining <= 0 {
		return ack, nil
	}
	if err := s.revocations.Revoke(ctx, jti, remaining); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	s.logger.InfoContext(ctx, "session token revoked",
		"principal_id", requestcontext.PrincipalID(ctx),
		"jti", jti,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncrementLogout()
	return ack, nil
}
