package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound            = errors.New("resource not found")
	ErrCampaignNotFound    = fmt.Errorf("%w: campaign", ErrNotFound)
	ErrIntegrationNotFound = fmt.Errorf("%w: integration", ErrNotFound)
	ErrRunNotFound         = fmt.Errorf("%w: analysis run", ErrNotFound)

	// Input validation errors
	ErrValidation     = errors.New("validation failed")
	ErrEmptyTable     = errors.New("table has no data rows")
	ErrRaggedTable    = errors.New("row width does not match header width")
	ErrEmptyRegistry  = errors.New("canonical field registry is empty")
	ErrEmptyCampaign  = errors.New("campaign context has no name")
	ErrInvalidDecimal = errors.New("value is not a valid decimal amount")
	ErrInvalidDate    = errors.New("value does not match any known date shape")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrRaggedTable) ||
		errors.Is(err, ErrEmptyRegistry) ||
		errors.Is(err, ErrEmptyCampaign)
}
