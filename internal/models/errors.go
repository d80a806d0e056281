package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("candidate not found")
	ErrInvalidState      = errors.New("invalid interview state")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrUnreadableDocument is a supported format whose content could not be used
	ErrUnreadableDocument = errors.New("unreadable document")
)

// ValidationError describes a rejected profile value. Message is the text shown to the candidate.
type ValidationError struct {
	Field   ProfileField
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ErrorResponse) Error() string {
	return e.Message
}
