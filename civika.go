// Package civika is a session and submission ledger for civic issue
// reporting: credential issuance, token-backed sessions, a per-account
// submission lifecycle, and derived statistics, behind pluggable
// storage and HTTP adapters.
package civika

import (
	"fmt"

	"github.com/lborres/civika/core"
	"github.com/lborres/civika/pkg/cache"
	"github.com/lborres/civika/pkg/crypto"
)

// interfaces
type (
	RegistryStorage = core.RegistryStorage
	SessionStore    = core.SessionStore
	Cache           = core.Cache

	HTTPAdapter = core.HTTPAdapter

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Civika = core.Civika
	Config = core.Config
)

type (
	Account         = core.Account
	Submission      = core.Submission
	SubmissionInput = core.SubmissionInput
	Location        = core.Location
	AnalysisResult  = core.AnalysisResult
	SignupInput     = core.SignupInput
	Credentials     = core.Credentials
	Statistics      = core.Statistics

	Role             = core.Role
	Severity         = core.Severity
	SubmissionStatus = core.SubmissionStatus
)

const (
	RoleCitizen   = core.RoleCitizen
	RoleAuthority = core.RoleAuthority

	StatusPending    = core.StatusPending
	StatusInProgress = core.StatusInProgress
	StatusResolved   = core.StatusResolved

	SeverityLow    = core.SeverityLow
	SeverityMedium = core.SeverityMedium
	SeverityHigh   = core.SeverityHigh

	WelcomeBonus    = core.WelcomeBonus
	SubmissionAward = core.SubmissionAward
)

const (
	defaultBasePath  = "/api/civic"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache = cache.New
	NewArgon2        = crypto.NewArgon2
)

var (
	ErrNameRequired  = core.ErrNameRequired
	ErrEmailRequired = core.ErrEmailRequired
	ErrAccountExists = core.ErrAccountExists
	ErrInvalidRole   = core.ErrInvalidRole
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrNotAuthenticated   = core.ErrNotAuthenticated
	ErrInvalidToken       = core.ErrInvalidToken
	ErrTokenExpired       = core.ErrTokenExpired
)

var (
	ErrAccountNotFound    = core.ErrAccountNotFound
	ErrSubmissionNotFound = core.ErrSubmissionNotFound
	ErrSessionNotFound    = core.ErrSessionNotFound
	ErrPersistence        = core.ErrPersistence
)

var (
	ErrSecretRequired       = core.ErrSecretRequired
	ErrSecretTooShort       = core.ErrSecretTooShort
	ErrRegistryRequired     = core.ErrRegistryRequired
	ErrSessionStoreRequired = core.ErrSessionStoreRequired
)

func New(config Config) (*Civika, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Registry == nil {
		return nil, ErrRegistryRequired
	}
	if config.Sessions == nil {
		return nil, ErrSessionStoreRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = cache.New(cache.Config{})
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	creds, err := core.NewCredentialStore(config.Registry, passwordHasher)
	if err != nil {
		return nil, err
	}

	tokens := core.NewTokenIssuer(config.Secret, config.TokenTTL)
	sessions := core.NewSessionManager(creds, tokens, config.Sessions, cacheAdapter)

	c := &Civika{
		Sessions: sessions,
		Ledger:   core.NewLedger(sessions),
		BasePath: basePath,
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}
