package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lborres/civika/pkg/crypto"
)

// SessionManager holds the single active session: at most one account
// is authenticated at a time, and login replaces it wholesale. It is an
// explicit injected object rather than process-global state, and all
// state transitions are serialized by its mutex so concurrent callers
// never interleave a partial write.
type SessionManager struct {
	mu     sync.Mutex
	creds  *CredentialStore
	tokens *TokenIssuer
	store  SessionStore
	cache  Cache

	current *Account
	token   string
}

// NewSessionManager restores any persisted session on construction: a
// verifiable token+account pair authenticates it, anything else is
// cleared and the session starts anonymous.
func NewSessionManager(creds *CredentialStore, tokens *TokenIssuer, store SessionStore, cache Cache) *SessionManager {
	sm := &SessionManager{
		creds:  creds,
		tokens: tokens,
		store:  store,
		cache:  cache,
	}
	sm.restore()
	return sm
}

func (sm *SessionManager) restore() {
	token, account, err := sm.store.LoadSession()
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			sm.store.ClearSession()
		}
		return
	}

	claims, err := sm.tokens.Verify(token)
	if err != nil || account == nil || claims.Subject != account.AccountID {
		// stale or tampered pair
		sm.store.ClearSession()
		return
	}

	sm.current = account
	sm.token = token
}

// Signup registers a new account and returns its credentials. It does
// not authenticate the caller; an explicit Login with the returned
// credentials is required afterward.
func (sm *SessionManager) Signup(input SignupInput) (*Credentials, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.creds.Register(input)
}

// Login verifies credentials and, on success, issues a token, persists
// the token+account pair, and transitions to Authenticated. A
// credential mismatch returns (false, nil) and leaves the session
// anonymous; other errors are infrastructure failures.
func (sm *SessionManager) Login(accountID, password string) (bool, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	account, err := sm.creds.Verify(accountID, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return false, nil
		}
		return false, err
	}

	token, err := sm.tokens.Issue(account)
	if err != nil {
		return false, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := sm.store.SaveSession(token, account); err != nil {
		return false, fmt.Errorf("failed to persist session: %w", err)
	}

	sm.current = account
	sm.token = token

	if sm.cache != nil {
		sm.cache.Set(crypto.HashToken(token), account.Clone())
	}

	return true, nil
}

// Logout clears the persisted session and transitions to Anonymous.
// Logging out of an anonymous session is a no-op.
func (sm *SessionManager) Logout() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := sm.store.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if sm.cache != nil && sm.token != "" {
		sm.cache.Delete(crypto.HashToken(sm.token))
	}

	sm.current = nil
	sm.token = ""
	return nil
}

// Current returns a copy of the authenticated account, or nil when the
// session is anonymous.
func (sm *SessionManager) Current() *Account {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.current.Clone()
}

// Token returns the raw token of the active session, or "" when
// anonymous.
func (sm *SessionManager) Token() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.token
}

// Authenticate resolves a bearer token to its account. The token is
// always verified for signature and expiry; the registry lookup behind
// it is served from cache when possible.
func (sm *SessionManager) Authenticate(token string) (*Account, error) {
	claims, err := sm.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		if account, err := sm.cache.Get(tokenHash); err == nil && account != nil {
			if account.AccountID == claims.Subject {
				return account.Clone(), nil
			}
			sm.cache.Delete(tokenHash)
		}
	}

	account, err := sm.creds.Get(claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if sm.cache != nil {
		sm.cache.Set(tokenHash, account.Clone())
	}

	return account.Clone(), nil
}

// Mutate applies fn to a clone of the current account and commits the
// result to the registry and the persisted session snapshot. If any
// step fails the in-memory session keeps its prior state and a failed
// snapshot write rolls the registry back, so no partial write survives.
func (sm *SessionManager) Mutate(fn func(account *Account) error) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current == nil {
		return ErrNotAuthenticated
	}

	updated := sm.current.Clone()
	if err := fn(updated); err != nil {
		return err
	}

	if err := sm.creds.Upsert(updated); err != nil {
		return err
	}

	if err := sm.store.SaveSession(sm.token, updated); err != nil {
		if rollbackErr := sm.creds.Upsert(sm.current); rollbackErr != nil {
			return errors.Join(err, rollbackErr)
		}
		return fmt.Errorf("failed to persist session snapshot: %w", err)
	}

	sm.current = updated

	if sm.cache != nil {
		sm.cache.Set(crypto.HashToken(sm.token), updated.Clone())
	}

	return nil
}
