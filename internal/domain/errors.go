package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found upstream")
	ErrUpstreamUnavailable = errors.New("upstream platform unavailable")
	ErrInvalidInput        = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrPlatformIDTaken    = errors.New("platform id already linked to another account")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPlatformNotLinked  = errors.New("platform id not linked to account")

	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalError  = errors.New("internal server error")
)

// IsNotFound checks if an error is a not-found type error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsUpstreamUnavailable checks if an error is a transient upstream failure
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsInvalidInput checks if an error is a caller input-validation error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidRequest)
}
