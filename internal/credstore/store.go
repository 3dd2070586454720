// Package credstore persists the session token pair. The access and refresh
// tokens are always written and cleared together: a half-present pair is
// treated as absent.
package credstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no token pair is stored.
var ErrNotFound = errors.New("no stored session tokens")

const (
	serviceName     = "orla"
	keyAccessToken  = "orla-access-token"
	keyRefreshToken = "orla-refresh-token"
)

// Store holds the session token pair. The session manager is the only
// writer; everything else reads through it.
type Store interface {
	// SetTokens stores both tokens. Neither may be empty.
	SetTokens(access, refresh string) error

	// Tokens returns the stored pair, or ErrNotFound.
	Tokens() (access, refresh string, err error)

	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear() error
}

// SystemStore keeps the pair in the OS keychain.
type SystemStore struct{}

// NewSystemStore creates a Store backed by the OS keychain.
func NewSystemStore() *SystemStore {
	return &SystemStore{}
}

func (s *SystemStore) SetTokens(access, refresh string) error {
	if access == "" || refresh == "" {
		return errors.New("both access and refresh tokens are required")
	}
	if err := keyring.Set(serviceName, keyAccessToken, access); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := keyring.Set(serviceName, keyRefreshToken, refresh); err != nil {
		// Don't leave a half-written pair behind.
		_ = keyring.Delete(serviceName, keyAccessToken)
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *SystemStore) Tokens() (string, string, error) {
	access, err := keyring.Get(serviceName, keyAccessToken)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", fmt.Errorf("failed to read access token: %w", err)
	}
	refresh, err := keyring.Get(serviceName, keyRefreshToken)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			// Broken pair; drop the orphaned access token.
			_ = keyring.Delete(serviceName, keyAccessToken)
			return "", "", ErrNotFound
		}
		return "", "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	return access, refresh, nil
}

func (s *SystemStore) Clear() error {
	accessErr := keyring.Delete(serviceName, keyAccessToken)
	refreshErr := keyring.Delete(serviceName, keyRefreshToken)
	for _, err := range []error{accessErr, refreshErr} {
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to clear tokens: %w", err)
		}
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	present bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) SetTokens(access, refresh string) error {
	if access == "" || refresh == "" {
		return errors.New("both access and refresh tokens are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
	m.present = true
	return nil
}

func (m *MemStore) Tokens() (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return "", "", ErrNotFound
	}
	return m.access, m.refresh, nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.present = false
	return nil
}
