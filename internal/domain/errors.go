package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure classes of a tax computation.
var (
	ErrConfiguration           = errors.New("configuration error")
	ErrInputValidation         = errors.New("input validation error")
	ErrUnsupportedJurisdiction = errors.New("unsupported jurisdiction")
)

// ConfigurationError reports a missing table or threshold entry.
type ConfigurationError struct {
	Jurisdiction string
	Year         TaxYear
	Status       FilingStatus
	What         string
}

func (e *ConfigurationError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s: no %s for %s %d", ErrConfiguration, e.What, e.Jurisdiction, e.Year)
	}
	return fmt.Sprintf("%s: no %s for %s %d %s", ErrConfiguration, e.What, e.Jurisdiction, e.Year, e.Status)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ValidationError reports an input value the engine refuses to compute with.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInputValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInputValidation }

// NewValidationError is shorthand for constructing a ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
