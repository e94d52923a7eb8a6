// Package localstore persists the account registry and the current
// session as JSON files in a directory, one file per logical slot.
// Writes go through a temp file and rename so a failed write never
// corrupts the previous contents.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lborres/civika"
)

const (
	tokenSlot    = "auth_token.json"
	accountSlot  = "user_data.json"
	registrySlot = "site_users.json"
)

type Store struct {
	dir string
	mu  sync.Mutex
}

var _ civika.RegistryStorage = (*Store)(nil)
var _ civika.SessionStore = (*Store)(nil)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating store directory: %v", civika.ErrPersistence, err)
	}
	return &Store{dir: dir}, nil
}

// accountRecord is the persisted form of an account. Unlike the domain
// model it carries the password hash, which never leaves the adapter
// in serialized form otherwise.
type accountRecord struct {
	AccountID    string              `json:"accountId"`
	PasswordHash string              `json:"passwordHash"`
	DisplayName  string              `json:"displayName"`
	Email        string              `json:"email"`
	Role         civika.Role         `json:"role"`
	Submissions  []civika.Submission `json:"submissions"`
	KarmaPoints  int                 `json:"karmaPoints"`
	JoinedAt     time.Time           `json:"joinedAt"`
}

type tokenRecord struct {
	Token string `json:"token"`
}

func toRecord(a *civika.Account) accountRecord {
	return accountRecord{
		AccountID:    a.AccountID,
		PasswordHash: a.PasswordHash,
		DisplayName:  a.DisplayName,
		Email:        a.Email,
		Role:         a.Role,
		Submissions:  a.Submissions,
		KarmaPoints:  a.KarmaPoints,
		JoinedAt:     a.JoinedAt,
	}
}

func (r *accountRecord) toAccount() *civika.Account {
	return &civika.Account{
		AccountID:    r.AccountID,
		PasswordHash: r.PasswordHash,
		DisplayName:  r.DisplayName,
		Email:        r.Email,
		Role:         r.Role,
		Submissions:  r.Submissions,
		KarmaPoints:  r.KarmaPoints,
		JoinedAt:     r.JoinedAt,
	}
}

// ============================================
// RegistryStorage
// ============================================

func (s *Store) CreateAccount(a *civika.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRegistry()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].AccountID == a.AccountID || records[i].Email == a.Email {
			return civika.ErrAccountExists
		}
	}

	records = append(records, toRecord(a))
	return s.writeSlot(registrySlot, records)
}

func (s *Store) GetAccount(accountID string) (*civika.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].AccountID == accountID {
			return records[i].toAccount(), nil
		}
	}
	return nil, civika.ErrAccountNotFound
}

func (s *Store) GetAccountByEmail(email string) (*civika.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Email == email {
			return records[i].toAccount(), nil
		}
	}
	return nil, civika.ErrAccountNotFound
}

func (s *Store) UpsertAccount(a *civika.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRegistry()
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].AccountID == a.AccountID {
			records[i] = toRecord(a)
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, toRecord(a))
	}

	return s.writeSlot(registrySlot, records)
}

// ============================================
// SessionStore
// ============================================

func (s *Store) SaveSession(token string, account *civika.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenTmp, err := s.stageSlot(tokenSlot, tokenRecord{Token: token})
	if err != nil {
		return err
	}
	accountTmp, err := s.stageSlot(accountSlot, toRecord(account))
	if err != nil {
		os.Remove(tokenTmp)
		return err
	}

	// Both slots are staged before either rename. The token slot commits
	// last: restore is gated on it, so a commit that fails partway never
	// leaves a loadable pair behind.
	if err := os.Rename(accountTmp, filepath.Join(s.dir, accountSlot)); err != nil {
		os.Remove(tokenTmp)
		os.Remove(accountTmp)
		return fmt.Errorf("%w: writing %s: %v", civika.ErrPersistence, accountSlot, err)
	}
	if err := os.Rename(tokenTmp, filepath.Join(s.dir, tokenSlot)); err != nil {
		os.Remove(tokenTmp)
		return fmt.Errorf("%w: writing %s: %v", civika.ErrPersistence, tokenSlot, err)
	}
	return nil
}

func (s *Store) LoadSession() (string, *civika.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token tokenRecord
	found, err := s.readSlot(tokenSlot, &token)
	if err != nil {
		return "", nil, err
	}
	if !found || token.Token == "" {
		return "", nil, civika.ErrSessionNotFound
	}

	var record accountRecord
	found, err = s.readSlot(accountSlot, &record)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, civika.ErrSessionNotFound
	}

	return token.Token, record.toAccount(), nil
}

func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeSlot(tokenSlot); err != nil {
		return err
	}
	return s.removeSlot(accountSlot)
}

// ============================================
// slot I/O
// ============================================

func (s *Store) loadRegistry() ([]accountRecord, error) {
	var records []accountRecord
	if _, err := s.readSlot(registrySlot, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) readSlot(slot string, v interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, slot))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: reading %s: %v", civika.ErrPersistence, slot, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: decoding %s: %v", civika.ErrPersistence, slot, err)
	}
	return true, nil
}

func (s *Store) writeSlot(slot string, v interface{}) error {
	tmpName, err := s.stageSlot(slot, v)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, slot)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %v", civika.ErrPersistence, slot, err)
	}
	return nil
}

// stageSlot writes the encoded value to a temp file in the store
// directory and returns its path. The caller owns the rename or
// cleanup.
func (s *Store) stageSlot(slot string, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: encoding %s: %v", civika.ErrPersistence, slot, err)
	}

	tmp, err := os.CreateTemp(s.dir, slot+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", civika.ErrPersistence, slot, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: writing %s: %v", civika.ErrPersistence, slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: writing %s: %v", civika.ErrPersistence, slot, err)
	}

	return tmp.Name(), nil
}

func (s *Store) removeSlot(slot string) error {
	err := os.Remove(filepath.Join(s.dir, slot))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %v", civika.ErrPersistence, slot, err)
	}
	return nil
}
