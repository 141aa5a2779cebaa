package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	principal "consultly/internal/principal/models"
	dErrors "consultly/pkg/domain-errors"
)

func TestLoginRequest(t *testing.T) {
	t.Run("business email stands in for email", func(t *testing.T) {
		req := &LoginRequest{Type: " Organization ", BusinessEmail: " Info@Acme.com ", Password: "password1"}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, "info@acme.com", req.Email)

		kind, ok := req.Kind()
		assert.True(t, ok)
		assert.Equal(t, principal.KindOrganization, kind)
	})

	t.Run("legacy mode has no kind", func(t *testing.T) {
		req := &LoginRequest{Email: "jane@x.com", Pin: "123456"}
		req.Normalize()
		require.NoError(t, req.Validate())
		_, ok := req.Kind()
		assert.False(t, ok)
	})

	t.Run("a secret is required", func(t *testing.T) {
		req := &LoginRequest{Email: "jane@x.com"}
		err := req.Validate()
		assert.Equal(t, "password", dErrors.FieldOf(err))
	})

	t.Run("pin must be numeric", func(t *testing.T) {
		req := &LoginRequest{Email: "jane@x.com", Pin: "12ab"}
		err := req.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "pin", dErrors.FieldOf(err))
	})

	t.Run("nil request", func(t *testing.T) {
		var req *LoginRequest
		req.Normalize()
		assert.Error(t, req.Validate())
	})
}

func TestConfirmPasswordResetRequest(t *testing.T) {
	valid := func() *ConfirmPasswordResetRequest {
		return &ConfirmPasswordResetRequest{Email: "jane@x.com", Code: "123456", NewPassword: "password1"}
	}
	require.NoError(t, valid().Validate())

	for _, tc := range []struct {
		name  string
		edit  func(*ConfirmPasswordResetRequest)
		field string
	}{
		{"missing code", func(r *ConfirmPasswordResetRequest) { r.Code = "" }, "code"},
		{"short password", func(r *ConfirmPasswordResetRequest) { r.NewPassword = "short" }, "newPassword"},
		{"bad email", func(r *ConfirmPasswordResetRequest) { r.Email = "jane" }, "email"},
		{"bad type", func(r *ConfirmPasswordResetRequest) { r.Type = "partner" }, "type"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			tc.edit(req)
			assert.Equal(t, tc.field, dErrors.FieldOf(req.Validate()))
		})
	}
}
