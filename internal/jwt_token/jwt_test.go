package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/internal/principal/models"
	id "consultly/pkg/domain"
	dErrors "consultly/pkg/domain-errors"
)

const signingKey = "test-signing-key-0123456789"

var issuedAt = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func newService(now time.Time) *JWTService {
	return NewJWTService(signingKey, "consultly", 24*time.Hour, 7*24*time.Hour, WithClock(clockAt(now)))
}

func individual() *models.Individual {
	p := &models.Individual{
		Account:   models.NewQuickAccount(id.NewPrincipalID(), "a@x.com", "254700000001", "hash", models.RoleConsultant, issuedAt),
		FirstName: "Amina",
		LastName:  "Otieno",
	}
	p.DisplayID = "CON-003"
	return p
}

func Test_Issue_Individual(t *testing.T) {
	p := individual()
	result, err := newService(issuedAt).Issue(p, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(24*60*60), result.ExpiresIn)

	claims, err := newService(issuedAt.Add(time.Hour)).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), claims.Subject)
	assert.Equal(t, "individual", claims.Kind)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Empty(t, claims.BusinessEmail)
	assert.Equal(t, []string{"consultant"}, claims.Roles)
	assert.Equal(t, "CON-003", claims.DisplayID)
	assert.Equal(t, "Amina", claims.Profile["firstName"])
	assert.NotEmpty(t, claims.ID)
}

func Test_Issue_OrganizationUsesBusinessEmailAndLongerTTL(t *testing.T) {
	org := &models.Organization{
		Account: models.NewQuickAccount(id.NewPrincipalID(), "biz@x.com", "254711000001", "hash", models.RoleOrganization, issuedAt),
		Name:    "Acme Ltd",
	}
	result, err := newService(issuedAt).Issue(org, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(7*24*60*60), result.ExpiresIn)

	claims, err := newService(issuedAt.Add(6*24*time.Hour)).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "biz@x.com", claims.BusinessEmail)
	assert.Empty(t, claims.Email)
	assert.Equal(t, []string{"organization"}, claims.Roles)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := newService(issuedAt).ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	result, err := newService(issuedAt).Issue(individual(), issuedAt)
	require.NoError(t, err)

	_, err = newService(issuedAt.Add(25 * time.Hour)).ValidateToken(result.Token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongKeyOrIssuer(t *testing.T) {
	result, err := newService(issuedAt).Issue(individual(), issuedAt)
	require.NoError(t, err)

	other := NewJWTService("another-signing-key-987654", "consultly", time.Hour, time.Hour, WithClock(clockAt(issuedAt)))
	_, err = other.ValidateToken(result.Token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))

	otherIssuer := NewJWTService(signingKey, "someone-else", time.Hour, time.Hour, WithClock(clockAt(issuedAt)))
	_, err = otherIssuer.ValidateToken(result.Token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Kind: "individual",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "consultly",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newService(issuedAt).ValidateToken(signed)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_Adapter(t *testing.T) {
	p := individual()
	svc := newService(issuedAt)
	result, err := svc.Issue(p, issuedAt)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(svc).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), claims.PrincipalID)
	assert.Equal(t, "individual", claims.Kind)
}
