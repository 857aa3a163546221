package models

import (
	"errors"
	"fmt"
)

// Domain errors. Services return these (wrapped with context via %w) and the
// HTTP layer maps them to status codes; repository internals never leak past
// the service boundary unwrapped.
var (
	// ErrValidation marks malformed or missing request input.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidID marks a syntactically malformed identifier, as opposed to
	// a well-formed identifier that simply does not exist.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrNotFound marks a lookup for a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOwnerNotFound marks a place mutation referencing an absent owner.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrForbidden marks a mutation attempted by someone other than the
	// place's creator.
	ErrForbidden = errors.New("not allowed")

	// ErrGeocodingFailed means the provider answered but could not resolve
	// the address (zero results or an unusable response body).
	ErrGeocodingFailed = errors.New("could not resolve address")

	// ErrGeocodingUnavailable means the provider could not be reached or
	// answered with a transport-level failure.
	ErrGeocodingUnavailable = errors.New("geocoding service unavailable")

	// ErrConstraintViolation marks a storage uniqueness violation.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicateEmail is the concrete uniqueness violation on users.email.
	// It wraps ErrConstraintViolation so callers can match either.
	ErrDuplicateEmail = fmt.Errorf("%w: email already registered", ErrConstraintViolation)

	// ErrInvalidCredentials marks a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrCreateFailed          = errors.New("create failed")
	ErrUpdateFailed          = errors.New("update failed")
	ErrRepositoryUnavailable = errors.New("storage unavailable")
)
