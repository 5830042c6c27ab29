// Package apperr defines the error kinds shared by the catalog and invoice
// services and the HTTP layer that translates them.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidID              = errors.New("invalid identifier")
	ErrMissingImage           = errors.New("image is required")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
	ErrValidation             = errors.New("validation failed")
	ErrStore                  = errors.New("store failure")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Store wraps a driver failure so callers can match it with ErrStore while the
// cause stays inspectable.
func Store(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

type Kind string

const (
	KindValidation             Kind = "validation"
	KindNotFound               Kind = "not_found"
	KindInvalidID              Kind = "invalid_id"
	KindMissingImage           Kind = "missing_image"
	KindDuplicateInvoiceNumber Kind = "duplicate_invoice_number"
	KindStore                  Kind = "store"
	KindInternal               Kind = "internal"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrInvalidID):
		return KindInvalidID
	case errors.Is(err, ErrMissingImage):
		return KindMissingImage
	case errors.Is(err, ErrDuplicateInvoiceNumber):
		return KindDuplicateInvoiceNumber
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStore):
		return KindStore
	}

	return KindInternal
}
