// Package common defines shared constants and sentinel errors used across
// the placekeeper server and its tools. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Address resolution errors.
	ErrUnresolvableAddress   = errors.New("could not find location for the specified address")
	ErrResolutionUnavailable = errors.New("address resolution unavailable")

	// Place lifecycle errors.
	ErrOwnerNotFound = errors.New("could not find a user for the provided id")
	ErrPlaceNotFound = errors.New("could not find a place for the provided id")
	ErrWriteFailed   = errors.New("write failed")
)

// IsClientError reports whether err was caused by the caller (bad input or
// a reference to something that does not exist) rather than by the
// environment the server runs in.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrWriteFailed), errors.Is(err, ErrResolutionUnavailable):
		return false
	case errors.Is(err, ErrUnresolvableAddress),
		errors.Is(err, ErrOwnerNotFound),
		errors.Is(err, ErrPlaceNotFound),
		errors.Is(err, ErrorNotFound),
		errors.Is(err, ErrorAlreadyExists),
		errors.Is(err, ErrorValidation),
		errors.Is(err, ErrorUnauthorized):
		return true
	}
	return false
}
