// Package httputil writes JSON responses and maps domain errors to HTTP.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "consultly/pkg/domain-errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
}

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[dErrors.Code]errorMapping{
	dErrors.CodeValidation:           {http.StatusBadRequest, "validation_error"},
	dErrors.CodeBadRequest:           {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput:         {http.StatusBadRequest, "invalid_input"},
	dErrors.CodeConflict:             {http.StatusConflict, "conflict"},
	dErrors.CodeInvariantViolation:   {http.StatusConflict, "invalid_state"},
	dErrors.CodeNotFound:             {http.StatusNotFound, "not_found"},
	dErrors.CodeUnauthorized:         {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeForbidden:            {http.StatusForbidden, "forbidden"},
	dErrors.CodePreconditionRequired: {http.StatusPreconditionRequired, "verification_required"},
	dErrors.CodeTooManyRequests:      {http.StatusTooManyRequests, "too_many_requests"},
	dErrors.CodeInternal:             {http.StatusInternalServerError, "internal_error"},
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	if m, ok := errorMappings[dErrors.CodeOf(err)]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// WriteError maps err to a status and JSON body. Internal errors never
// expose their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	m, ok := errorMappings[code]
	if !ok {
		m = errorMappings[dErrors.CodeInternal]
		code = dErrors.CodeInternal
	}
	body := ErrorResponse{Error: m.code}
	if code != dErrors.CodeInternal {
		if de, ok := dErrors.As(err); ok {
			body.ErrorDescription = de.Message
			body.Field = de.Field
		}
	}
	WriteJSON(w, m.status, body)
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes a bounded request body into v. Unknown fields are
// tolerated; malformed JSON is a validation error.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeValidation, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid JSON body")
	}
	return nil
}
