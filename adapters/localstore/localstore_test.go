package localstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lborres/civika"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store, dir
}

func testAccount(id, email string) *civika.Account {
	return &civika.Account{
		AccountID:    id,
		PasswordHash: "$argon2id$stub",
		DisplayName:  "Asha",
		Email:        email,
		Role:         civika.RoleCitizen,
		Submissions:  []civika.Submission{},
		KarmaPoints:  civika.WelcomeBonus,
		JoinedAt:     time.Now().UTC(),
	}
}

// Requirement: the registry slot round-trips accounts, including the password
// hash the domain model never serializes.
func TestStore_RegistryRoundTrip(t *testing.T) {
	// Arrange
	store, dir := newTestStore(t)
	account := testAccount("CIVIC1234", "asha@x.com")

	// Act
	if err := store.CreateAccount(account); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	// Assert
	loaded, err := store.GetAccount("CIVIC1234")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if loaded.PasswordHash != account.PasswordHash {
		t.Error("password hash must survive the round trip")
	}
	if loaded.Email != account.Email || loaded.KarmaPoints != account.KarmaPoints {
		t.Errorf("GetAccount() = %+v, want %+v", loaded, account)
	}

	byEmail, err := store.GetAccountByEmail("asha@x.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail() error = %v", err)
	}
	if byEmail.AccountID != "CIVIC1234" {
		t.Errorf("GetAccountByEmail() = %q, want CIVIC1234", byEmail.AccountID)
	}

	// a second store over the same directory sees the data
	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := reopened.GetAccount("CIVIC1234"); err != nil {
		t.Errorf("reopened store should see persisted account: %v", err)
	}
}

// Requirement: uniqueness of account ID and email is enforced at create time.
func TestStore_CreateAccount_Duplicates(t *testing.T) {
	tests := []struct {
		name      string
		duplicate *civika.Account
	}{
		{name: "duplicate account id", duplicate: testAccount("CIVIC1234", "other@x.com")},
		{name: "duplicate email", duplicate: testAccount("CIVIC9999", "asha@x.com")},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			store, _ := newTestStore(t)
			if err := store.CreateAccount(testAccount("CIVIC1234", "asha@x.com")); err != nil {
				t.Fatalf("CreateAccount() error = %v", err)
			}

			// Act
			err := store.CreateAccount(test.duplicate)

			// Assert
			if !errors.Is(err, civika.ErrAccountExists) {
				t.Errorf("CreateAccount() error = %v, want %v", err, civika.ErrAccountExists)
			}
		})
	}
}

// Requirement: lookups of unknown accounts report not-found.
func TestStore_GetAccount_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.GetAccount("CIVIC0000"); !errors.Is(err, civika.ErrAccountNotFound) {
		t.Errorf("GetAccount() error = %v, want %v", err, civika.ErrAccountNotFound)
	}
	if _, err := store.GetAccountByEmail("nobody@x.com"); !errors.Is(err, civika.ErrAccountNotFound) {
		t.Errorf("GetAccountByEmail() error = %v, want %v", err, civika.ErrAccountNotFound)
	}
}

// Requirement: Upsert replaces one record and preserves the rest.
func TestStore_UpsertAccount(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)
	store.CreateAccount(testAccount("CIVIC1234", "asha@x.com"))
	store.CreateAccount(testAccount("CIVIC5678", "ravi@x.com"))

	updated := testAccount("CIVIC1234", "asha@x.com")
	updated.KarmaPoints = 150
	updated.Submissions = []civika.Submission{{
		SubmissionID:  "123456",
		CreatedAt:     time.Now().UTC(),
		Status:        civika.StatusPending,
		IssueType:     "Pothole",
		Severity:      civika.SeverityHigh,
		PointsAwarded: civika.SubmissionAward,
	}}

	// Act
	if err := store.UpsertAccount(updated); err != nil {
		t.Fatalf("UpsertAccount() error = %v", err)
	}

	// Assert
	loaded, _ := store.GetAccount("CIVIC1234")
	if loaded.KarmaPoints != 150 || len(loaded.Submissions) != 1 {
		t.Errorf("UpsertAccount() not applied: %+v", loaded)
	}

	other, err := store.GetAccount("CIVIC5678")
	if err != nil || other.KarmaPoints != civika.WelcomeBonus {
		t.Errorf("UpsertAccount() disturbed another record: %+v, %v", other, err)
	}
}

// Requirement: the session slots persist a token+account pair, report
// not-found when empty, and clear idempotently.
func TestStore_SessionSlots(t *testing.T) {
	// Arrange
	store, dir := newTestStore(t)

	// empty store has no session
	if _, _, err := store.LoadSession(); !errors.Is(err, civika.ErrSessionNotFound) {
		t.Fatalf("LoadSession() error = %v, want %v", err, civika.ErrSessionNotFound)
	}

	account := testAccount("CIVIC1234", "asha@x.com")

	// Act
	if err := store.SaveSession("token-abc", account); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	// Assert
	token, loaded, err := store.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if token != "token-abc" || loaded.AccountID != "CIVIC1234" {
		t.Errorf("LoadSession() = %q, %+v", token, loaded)
	}

	// both slot files exist on disk
	for _, slot := range []string{tokenSlot, accountSlot} {
		if _, err := os.Stat(filepath.Join(dir, slot)); err != nil {
			t.Errorf("slot %s should exist: %v", slot, err)
		}
	}

	if err := store.ClearSession(); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}
	if _, _, err := store.LoadSession(); !errors.Is(err, civika.ErrSessionNotFound) {
		t.Errorf("LoadSession() after clear error = %v, want %v", err, civika.ErrSessionNotFound)
	}

	// clearing again is a no-op
	if err := store.ClearSession(); err != nil {
		t.Errorf("second ClearSession() error = %v", err)
	}
}

// Requirement: a failed SaveSession never leaves a loadable token+account
// pair behind, whichever slot the failure hits.
func TestStore_SaveSession_FailureLeavesNoSession(t *testing.T) {
	tests := []struct {
		name        string
		blockedSlot string
	}{
		{name: "token slot blocked", blockedSlot: tokenSlot},
		{name: "account slot blocked", blockedSlot: accountSlot},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange: a directory at the slot path makes its rename fail
			store, dir := newTestStore(t)
			if err := os.Mkdir(filepath.Join(dir, test.blockedSlot), 0o700); err != nil {
				t.Fatalf("Mkdir() error = %v", err)
			}

			// Act
			err := store.SaveSession("token-abc", testAccount("CIVIC1234", "asha@x.com"))

			// Assert
			if !errors.Is(err, civika.ErrPersistence) {
				t.Fatalf("SaveSession() error = %v, want %v", err, civika.ErrPersistence)
			}

			if err := os.Remove(filepath.Join(dir, test.blockedSlot)); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, _, err := store.LoadSession(); !errors.Is(err, civika.ErrSessionNotFound) {
				t.Errorf("LoadSession() error = %v, want %v", err, civika.ErrSessionNotFound)
			}

			// no staged temp files are left behind
			staged, err := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
			if err != nil {
				t.Fatalf("Glob() error = %v", err)
			}
			if len(staged) != 0 {
				t.Errorf("staged temp files left behind: %v", staged)
			}
		})
	}
}

// Requirement: storage failures surface as persistence errors.
func TestStore_PersistenceErrors(t *testing.T) {
	// a path occupied by a regular file cannot become a store directory
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := New(blocked); !errors.Is(err, civika.ErrPersistence) {
		t.Errorf("New() error = %v, want %v", err, civika.ErrPersistence)
	}

	// a corrupt registry slot surfaces as a persistence error
	store, dir := newTestStore(t)
	if err := os.WriteFile(filepath.Join(dir, registrySlot), []byte("not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := store.GetAccount("CIVIC1234"); !errors.Is(err, civika.ErrPersistence) {
		t.Errorf("GetAccount() error = %v, want %v", err, civika.ErrPersistence)
	}
}
