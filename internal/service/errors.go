package service

import (
	"errors"
	"fmt"

	"leadhub/internal/apierror"
	"leadhub/internal/validation"
)

// Error taxonomy for the buyer core. Handlers map these onto HTTP statuses;
// anything else that escapes a service is an opaque storage fault.
var (
	ErrBuyerNotFound   = errors.New("buyer not found")
	ErrVersionConflict = errors.New("record changed, please refresh")
)

// ValidationFailedError carries the field-scoped messages collected by the
// constraint engine. Always recoverable by resubmitting corrected input.
type ValidationFailedError struct {
	Fields validation.FieldErrors
}

func (e *ValidationFailedError) Error() string { return "validation failed" }

// BatchTooLargeError rejects an import exceeding the row cap before any row
// is examined.
type BatchTooLargeError struct {
	Rows, Max int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("batch of %d rows exceeds the maximum of %d", e.Rows, e.Max)
}

// ImportRowsError rejects a whole batch: every invalid row is reported and
// nothing is committed.
type ImportRowsError struct {
	Rows []apierror.RowError
}

func (e *ImportRowsError) Error() string {
	return fmt.Sprintf("%d invalid rows, batch rejected", len(e.Rows))
}
