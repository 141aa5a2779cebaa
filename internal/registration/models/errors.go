package models

import dErrors "consultly/pkg/domain-errors"

func invalid(field, msg string) error {
	return dErrors.NewField(dErrors.CodeValidation, field, msg)
}

func tooMany(field string) error {
	return invalid(field, "too many "+field)
}
