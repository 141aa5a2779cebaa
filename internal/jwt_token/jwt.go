package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"consultly/internal/principal/models"
	dErrors "consultly/pkg/domain-errors"
)

// Claims represents the JWT claims for session tokens. Roles and the
// profile snapshot are informational; authorization re-reads the stored
// principal on every request.
type Claims struct {
	Kind          string         `json:"kind"`
	Email         string         `json:"email,omitempty"`
	BusinessEmail string         `json:"businessEmail,omitempty"`
	DisplayID     string         `json:"displayId,omitempty"`
	Roles         []string       `json:"roles"`
	Profile       map[string]any `json:"profile,omitempty"`
	jwt.RegisteredClaims
}

// TokenResult is returned to clients alongside a successful login.
type TokenResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// JWTService handles session token creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	ttl        map[models.Kind]time.Duration
	now        func() time.Time
}

type Option func(*JWTService)

// WithClock overrides the validation clock.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

func NewJWTService(signingKey, issuer string, individualTTL, organizationTTL time.Duration, opts ...Option) *JWTService {
	s := &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl: map[models.Kind]time.Duration{
			models.KindIndividual:   individualTTL,
			models.KindOrganization: organizationTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is the session lifetime for kind.
func (s *JWTService) TTL(kind models.Kind) time.Duration {
	return s.ttl[kind]
}

// Issue signs a session token for p, valid from now for the kind's TTL.
func (s *JWTService) Issue(p models.Principal, now time.Time) (TokenResult, error) {
	base := p.Base()
	ttl := s.TTL(p.Kind())
	claims := Claims{
		Kind:      p.Kind().String(),
		DisplayID: base.DisplayID,
		Roles:     base.Roles,
		Profile:   p.Snapshot(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   base.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}
	if p.Kind() == models.KindOrganization {
		claims.BusinessEmail = base.Email
	} else {
		claims.Email = base.Email
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{Token: signed, ExpiresIn: int64(ttl / time.Second)}, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
