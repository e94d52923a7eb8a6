package core

import (
	"strings"
	"sync"
)

// FakeRegistry is a test-only fake implementing RegistryStorage. It
// stores accounts in a map and exposes error fields for behavior
// injection.
type FakeRegistry struct {
	accounts  map[string]*Account
	mu        sync.RWMutex
	createErr error
	getErr    error
	upsertErr error
}

func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{
		accounts: make(map[string]*Account),
	}
}

func (f *FakeRegistry) CreateAccount(a *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	if _, ok := f.accounts[a.AccountID]; ok {
		return ErrAccountExists
	}
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return ErrAccountExists
		}
	}

	f.accounts[a.AccountID] = a.Clone()
	return nil
}

func (f *FakeRegistry) GetAccount(accountID string) (*Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	a, ok := f.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (f *FakeRegistry) GetAccountByEmail(email string) (*Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	for _, a := range f.accounts {
		if a.Email == email {
			return a.Clone(), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (f *FakeRegistry) UpsertAccount(a *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}

	f.accounts[a.AccountID] = a.Clone()
	return nil
}

func (f *FakeRegistry) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.accounts)
}

// FakeSessionStore is a test-only fake implementing SessionStore.
type FakeSessionStore struct {
	token   string
	account *Account
	mu      sync.Mutex

	saveErr  error
	loadErr  error
	clearErr error
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{}
}

func (f *FakeSessionStore) SaveSession(token string, account *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}

	f.token = token
	f.account = account.Clone()
	return nil
}

func (f *FakeSessionStore) LoadSession() (string, *Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return "", nil, f.loadErr
	}

	if f.token == "" {
		return "", nil, ErrSessionNotFound
	}
	return f.token, f.account.Clone(), nil
}

func (f *FakeSessionStore) ClearSession() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearErr != nil {
		return f.clearErr
	}

	f.token = ""
	f.account = nil
	return nil
}

func (f *FakeSessionStore) Empty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token == "" && f.account == nil
}

// fakePasswordHandler avoids argon2 work in tests where hashing is not
// the behavior under test.
type fakePasswordHandler struct{}

func (fakePasswordHandler) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordHandler) Verify(password, hash string) (bool, error) {
	return strings.TrimPrefix(hash, "hashed:") == password, nil
}
