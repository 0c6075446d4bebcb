package billing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTenantNotFound is returned when an operation targets a tenant id
	// with no matching record. Note this applies only to direct operations
	// (get, update, delete); dangling references inside derived output
	// degrade to the UnknownRef sentinel and never raise.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrPropertyNotFound is returned when an operation targets a missing property.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrPaymentNotFound is returned when an operation targets a missing payment.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrConfirmationRequired is returned by destructive operations invoked
	// without an explicit affirmative confirmation. No state is changed.
	ErrConfirmationRequired = errors.New("confirmation required for destructive operation")

	// ErrValidation is returned for records that fail boundary validation
	// (negative amounts, missing names, zero dates).
	ErrValidation = errors.New("record validation failed")
)

// ValidationError carries which field of which record was rejected.
// Validation happens at the store boundary (Registry), not scattered
// through consumers.
type ValidationError struct {
	Record string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Record, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsClientError reports whether the error is due to invalid client input
// rather than an internal failure.
func IsClientError(err error) bool {
	return IsNotFound(err) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConfirmationRequired)
}
