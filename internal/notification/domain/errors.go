package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation          = errors.New("validation_error")
	ErrMissingEventCode    = errors.New("missing_event_code")
	ErrMissingPspReference = errors.New("missing_psp_reference")
	ErrPersistence         = errors.New("persistence_error")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")

	// ErrDuplicateNotification is a persistence error: the storage layer already
	// holds a notification with the same psp_reference, event_code and success.
	ErrDuplicateNotification = fmt.Errorf("%w: duplicate_notification", ErrPersistence)
)

// ValidationError lists the required fields missing from a notification.
// It matches ErrValidation and each of the ErrMissing* causes.
type ValidationError struct {
	Fields []string
	causes []error
}

func (e *ValidationError) Error() string {
	return "notification is missing " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrValidation}, e.causes...)
}
