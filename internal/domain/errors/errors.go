package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrInvalidInput is a malformed or out-of-range request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmailTaken is an email collision at registration.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the two cases must stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingCredential is a request without a bearer token.
	ErrMissingCredential = errors.New("missing credential")
	// ErrUnauthenticated covers malformed, tampered, and expired tokens alike.
	ErrUnauthenticated = errors.New("invalid token")
	// ErrNotFound covers both absent resources and ownership mismatches,
	// so probing another account's task ids confirms nothing.
	ErrNotFound = errors.New("not found")
	// ErrAccountLocked means too many failed logins; retry after cooldown.
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrMalformedDigest means a stored password digest is not in the
	// expected encoded form. Configuration/data fault, fails closed.
	ErrMalformedDigest = errors.New("malformed password digest")
)
