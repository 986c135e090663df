package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrMalformedResponse indicates the provider's email text does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed email response")

	// ErrEmptyCompletion indicates the provider returned no text block.
	ErrEmptyCompletion = errors.New("completion contained no text")

	// ErrNoRecipient indicates a message has no recipients.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSender indicates a message has no sender address.
	ErrNoSender = errors.New("email must have a sender")
)

// ParseError describes why an email response could not be split into subject and body.
type ParseError struct {
	Reason   string
	Segments int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed email response: %s (%d segments)", e.Reason, e.Segments)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ParseError) Unwrap() error {
	return ErrMalformedResponse
}

// NewParseError creates a parse error with context.
func NewParseError(reason string, segments int) error {
	return &ParseError{Reason: reason, Segments: segments}
}

// IsMalformedResponse checks if an error is a response-shape error.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
