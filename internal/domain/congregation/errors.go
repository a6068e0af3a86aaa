package congregation

import (
	"errors"
	"fmt"
)

var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrBelieverNotFound   = errors.New("believer not found")
	ErrHeadNotFound       = errors.New("family head not found")
	ErrFamilyNotTrashed   = errors.New("family is not in trash")
	ErrBelieverNotTrashed = errors.New("believer is not in trash")
	ErrBelieverIsHead     = errors.New("believer is the family head")
	ErrFamilyTrashed      = errors.New("family is in trash")
)

// ValidationError names the first missing or invalid field of a request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func requiredField(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// SpouseConflictError is returned when the head already has a linked spouse.
// It carries the existing spouse's name so the caller can surface it.
type SpouseConflictError struct {
	SpouseName string
}

func (e *SpouseConflictError) Error() string {
	if e.SpouseName == "" {
		return "head already has a spouse"
	}
	return fmt.Sprintf("head already has a spouse: %s", e.SpouseName)
}
