package core

import (
	"time"

	"github.com/lborres/civika/pkg/crypto"
)

type Config struct {
	Secret string

	Registry RegistryStorage
	Sessions SessionStore

	// Optional config
	HTTP           HTTPAdapter
	CacheAdapter   Cache
	DisableCache   bool
	PasswordHasher crypto.PasswordHandler
	TokenTTL       time.Duration
	BasePath       string
}

type Civika struct {
	Sessions *SessionManager
	Ledger   *Ledger
	BasePath string
}
