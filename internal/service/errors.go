package service

import "errors"

// Validation errors are recovered locally by re-prompting the user; they are
// never surfaced as raw errors.
var (
	ErrEmptyField   = errors.New("empty field")
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrUnknownValue = errors.New("unknown value")
)
