// Package credential persists the sign-in token in the system keyring so
// the next start can re-authenticate silently. It is the only durable
// state the client keeps; alert data is always fetched fresh.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "asteroidwatch"
	tokenKey    = "google-id-token"
)

// Store reads and writes the remembered identity token.
type Store struct {
	open func() (keyring.Keyring, error)
}

// NewStore returns a Store backed by the system keyring.
func NewStore() *Store {
	return &Store{open: openKeyring}
}

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/asteroidwatch/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("asteroidwatch-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Load returns the remembered token, or "" when none is stored.
func (s *Store) Load() (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("loading credential: %w", err)
	}

	return string(item.Data), nil
}

// Remember stores the token for silent re-authentication.
func (s *Store) Remember(token string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{Key: tokenKey, Data: []byte(token)}); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	return nil
}

// Forget removes the remembered token. A missing entry is not an error.
func (s *Store) Forget() error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	if err := ring.Remove(tokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing credential: %w", err)
	}

	return nil
}
