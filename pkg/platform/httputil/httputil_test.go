package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "consultly/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})

	t.Run("conflict names the field", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.NewField(dErrors.CodeConflict, "email", "email is already registered"))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["field"] != "email" {
			t.Fatalf("expected field email, got %q", body["field"])
		}
	})

	t.Run("verification required maps to 428", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodePreconditionRequired, "verify your phone and email"))

		if w.Code != http.StatusPreconditionRequired {
			t.Fatalf("expected status %d, got %d", http.StatusPreconditionRequired, w.Code)
		}
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errString("boom"))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))
	if err := DecodeJSON(r, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Email != "a@x.com" {
		t.Fatalf("expected email to decode, got %q", v.Email)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	if err := DecodeJSON(r, &v); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if err := DecodeJSON(r, &v); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
