// Package validation holds the field rules shared by request models.
// Each check returns a Validation error naming the field.
package validation

import (
	"regexp"
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "consultly/pkg/domain-errors"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
	maxEmailLength    = 254
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone strips spaces, dashes and parentheses.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func Required(field, value string) error {
	if value == "" {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" is required")
	}
	return nil
}

func MaxLength(field, value string, max int) error {
	if len(value) > max {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" is too long")
	}
	return nil
}

func Email(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if !govalidator.StringLength(value, "3", "254") || !govalidator.IsEmail(value) {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be a valid email address")
	}
	return nil
}

func Phone(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if !phonePattern.MatchString(value) {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be 9 to 15 digits with an optional leading +")
	}
	return nil
}

func Password(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if len(value) < MinPasswordLength {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be at least 8 characters")
	}
	if len(value) > MaxPasswordLength {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be at most 72 bytes")
	}
	return nil
}

// OptionalPassword validates value only when present.
func OptionalPassword(field, value string) error {
	if value == "" {
		return nil
	}
	return Password(field, value)
}

// OptionalURL validates value only when present.
func OptionalURL(field, value string) error {
	if value == "" {
		return nil
	}
	if !govalidator.IsURL(value) {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be a valid URL")
	}
	return nil
}

// Numeric requires a non-empty string of digits.
func Numeric(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if !govalidator.IsNumeric(value) {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be numeric")
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
