package services

import "errors"

// ValidationError marks a user-correctable input problem. Handlers translate
// it to a 400 response with the message as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNameTooShort     = &ValidationError{Message: "name must be at least 2 characters"}
	ErrInvalidEmail     = &ValidationError{Message: "invalid email"}
	ErrPasswordTooShort = &ValidationError{Message: "password must be at least 6 characters"}
	ErrMissingFields    = &ValidationError{Message: "name, email and password are required"}
	ErrNoUpdateFields   = &ValidationError{Message: "no fields to update"}
	ErrSearchTermEmpty  = &ValidationError{Message: "search term is required"}
	ErrSearchTermShort  = &ValidationError{Message: "search term must be at least 2 characters"}
)

// ErrEmailTaken is returned when a create or update collides with another
// record's email. The unique index spans inactive rows too, so a deleted
// email still conflicts.
var ErrEmailTaken = errors.New("email already registered")

// ErrRecordNotFound is returned when the id does not exist or the record has
// been soft-deleted.
var ErrRecordNotFound = errors.New("record not found")
