package core

// Ports define interfaces for external dependencies.

// RegistryStorage is the durable account registry. It owns uniqueness:
// CreateAccount fails with ErrAccountExists when the account ID or email
// is already registered, and lookups return ErrAccountNotFound.
//
// Adapters must make each write atomic relative to other registry
// operations so a failed write leaves the prior record intact.
type RegistryStorage interface {
	CreateAccount(a *Account) error

	// Query methods
	GetAccount(accountID string) (*Account, error)
	GetAccountByEmail(email string) (*Account, error)

	// Update
	UpsertAccount(a *Account) error
}

// SessionStore persists the current session across process restarts.
// It holds two logical slots: the raw session token and a snapshot of
// the authenticated account. LoadSession returns ErrSessionNotFound
// when no session is persisted.
type SessionStore interface {
	SaveSession(token string, account *Account) error
	LoadSession() (token string, account *Account, err error)
	ClearSession() error
}

// Cache stores verified token-to-account lookups keyed by token hash.
type Cache interface {
	Get(tokenHash string) (*Account, error)
	Set(tokenHash string, account *Account) error
	Delete(tokenHash string) error
	Clear() error
}
