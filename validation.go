package dynabuild

import (
	"fmt"
	"unicode/utf8"
)

// Validator inspects the merged working data immediately before Build
// finalizes it and reports every problem it finds. A nil or empty slice means
// the record is valid.
//
// The validator always receives the merged pre-transform record, never the
// transformer's output. This is a documented contract point: validate the
// plain data, then transform.
type Validator func(data Record) []error

// Transformer converts the merged working data into the finished object.
// When no transformer is installed, Build finalizes the merged record itself.
type Transformer func(data Record) any

// CombineValidators returns a validator running each given validator in order
// and concatenating their errors. Nil validators are skipped.
func CombineValidators(validators ...Validator) Validator {
	return func(data Record) []error {
		var errs []error
		for _, v := range validators {
			if v == nil {
				continue
			}
			errs = append(errs, v(data)...)
		}
		return errs
	}
}

// RequireFields returns a validator reporting one error per named field that
// is absent from the record.
func RequireFields(fields ...string) Validator {
	return func(data Record) []error {
		var errs []error
		for _, field := range fields {
			if _, ok := data[field]; !ok {
				errs = append(errs, NewValidationError(field, "is required"))
			}
		}
		return errs
	}
}

// Validation rules

// ValidateRequired validates that a required field is present in the record.
func ValidateRequired(field string, data Record) error {
	if _, ok := data[field]; !ok {
		return NewValidationError(field, "is required")
	}
	return nil
}

// ValidateNonEmpty validates that a string value is not empty.
func ValidateNonEmpty(field, value string) error {
	if value == "" {
		return NewValidationError(field, "cannot be empty")
	}
	return nil
}

// ValidateMaxLength validates that a string value is within a maximum length.
// A maxLength of zero or less disables the check.
func ValidateMaxLength(field, value string, maxLength int) error {
	if maxLength > 0 && utf8.RuneCountInString(value) > maxLength {
		return NewValidationError(field, fmt.Sprintf("exceeds maximum length of %d characters", maxLength))
	}
	return nil
}

// ValidatePositive validates that a numeric value is non-negative.
func ValidatePositive(field string, value int) error {
	if value < 0 {
		return NewValidationError(field, "must be non-negative")
	}
	return nil
}
