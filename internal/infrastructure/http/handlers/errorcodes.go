package handlers

// API error codes returned in JSON { "error": "...", "code": "..." }
// for stable client handling. These are the only shapes clients ever
// see; internal error text stays in the logs.
const (
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountLocked      = "account_locked"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeInternal           = "internal_error"
)
