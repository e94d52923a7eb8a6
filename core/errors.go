package core

import "errors"

// Validation errors (client input)
var (
	ErrNameRequired  = errors.New("display name is required")    // 400
	ErrEmailRequired = errors.New("email is required")           // 400
	ErrAccountExists = errors.New("account already exists")      // 409 Conflict
	ErrInvalidRole   = errors.New("unknown account role")        // 400
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid account id or password") // 401 Unauthorized
	ErrNotAuthenticated   = errors.New("no authenticated session")       // 401
	ErrInvalidToken       = errors.New("invalid session token")          // 401
	ErrTokenExpired       = errors.New("session token expired")          // 401
)

// Not-found errors
var (
	ErrAccountNotFound    = errors.New("account not found")    // 404 Not Found
	ErrSubmissionNotFound = errors.New("submission not found") // 404
	ErrSessionNotFound    = errors.New("no persisted session")
	ErrCacheNotFound      = errors.New("account not found in cache")
)

// Persistence errors. Adapters wrap write failures with ErrPersistence so
// callers can distinguish a failed durable write from a domain error.
var (
	ErrPersistence = errors.New("persistence failure") // 500
)

// Config errors (caller-side configuration)
var (
	ErrSecretRequired       = errors.New("secret is required")          // 500
	ErrSecretTooShort       = errors.New("secret too short")            // 500
	ErrRegistryRequired     = errors.New("registry adapter is required")
	ErrSessionStoreRequired = errors.New("session store adapter is required")
)
