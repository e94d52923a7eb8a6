package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/lborres/civika/pkg/crypto"
)

const (
	accountIDPrefix = "CIVIC"

	// accountIDDigits is the starting suffix width. The width grows
	// when the registry is dense enough that fresh IDs keep colliding.
	accountIDDigits    = 4
	maxAccountIDDigits = 9
	collisionsPerWidth = 5
)

// CredentialStore owns the account registry: it issues credentials,
// verifies them against stored hashes, and replaces records after
// mutations. Plaintext passwords are never stored.
type CredentialStore struct {
	registry  RegistryStorage
	passwords crypto.PasswordHandler
	ids       *crypto.StringGenerator
	secrets   *crypto.StringGenerator

	// decoyHash is verified against when the account ID is unknown so
	// a failed login does the same work regardless of which field was
	// wrong.
	decoyHash string
}

func NewCredentialStore(registry RegistryStorage, passwords crypto.PasswordHandler) (*CredentialStore, error) {
	secrets := crypto.NewPasswordGenerator()

	decoy, err := secrets.Generate(crypto.DefaultPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate decoy password: %w", err)
	}
	decoyHash, err := passwords.Hash(decoy)
	if err != nil {
		return nil, fmt.Errorf("failed to hash decoy password: %w", err)
	}

	return &CredentialStore{
		registry:  registry,
		passwords: passwords,
		ids:       crypto.NewDigitGenerator(),
		secrets:   secrets,
		decoyHash: decoyHash,
	}, nil
}

// Register creates a new account and returns its credentials. The
// plaintext password is returned exactly once; only its hash is stored.
// New accounts start with the welcome bonus and an empty ledger.
func (cs *CredentialStore) Register(input SignupInput) (*Credentials, error) {
	if input.DisplayName == "" {
		return nil, ErrNameRequired
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}

	role := input.Role
	if role == "" {
		role = RoleCitizen
	}
	if role != RoleCitizen && role != RoleAuthority {
		return nil, ErrInvalidRole
	}

	existing, err := cs.registry.GetAccountByEmail(input.Email)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	accountID, err := cs.freshAccountID()
	if err != nil {
		return nil, err
	}

	password, err := cs.secrets.Generate(crypto.DefaultPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	passwordHash, err := cs.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		AccountID:    accountID,
		PasswordHash: passwordHash,
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		Role:         role,
		Submissions:  []Submission{},
		KarmaPoints:  WelcomeBonus,
		JoinedAt:     time.Now(),
	}

	if err := cs.registry.CreateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &Credentials{
		AccountID: accountID,
		Password:  password,
	}, nil
}

// freshAccountID generates a registry-unique account ID. IDs are the
// CIVIC prefix plus a random digit suffix, which keeps them
// distinguishable from free text.
func (cs *CredentialStore) freshAccountID() (string, error) {
	digits := accountIDDigits
	for attempt := 0; ; attempt++ {
		if attempt > 0 && attempt%collisionsPerWidth == 0 && digits < maxAccountIDDigits {
			digits++
		}

		suffix, err := cs.ids.Generate(digits)
		if err != nil {
			return "", fmt.Errorf("failed to generate account id: %w", err)
		}
		accountID := accountIDPrefix + suffix

		_, err = cs.registry.GetAccount(accountID)
		if errors.Is(err, ErrAccountNotFound) {
			return accountID, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check account id: %w", err)
		}
		// taken, try again
	}
}

// Verify checks a password against the stored hash and returns the
// matching account. Both an unknown account ID and a wrong password
// report ErrInvalidCredentials, and the hash comparison runs either
// way so the failure does not reveal which field mismatched.
func (cs *CredentialStore) Verify(accountID, password string) (*Account, error) {
	account, err := cs.registry.GetAccount(accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			cs.passwords.Verify(password, cs.decoyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	valid, err := cs.passwords.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// Get returns the registry record for an account ID.
func (cs *CredentialStore) Get(accountID string) (*Account, error) {
	return cs.registry.GetAccount(accountID)
}

// Upsert replaces the record for account.AccountID, preserving every
// other record.
func (cs *CredentialStore) Upsert(account *Account) error {
	if err := cs.registry.UpsertAccount(account); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}
