package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/star/asteroidwatch/internal/model"
)

// SyncError indicates the notification service rejected or failed to
// acknowledge a login. The session is reverted to empty when it occurs:
// a locally decodable token with no service acknowledgement must not
// grant access.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("backend login sync failed: %v", e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Backend is the slice of the service API the session lifecycle needs.
type Backend interface {
	LoginSync(ctx context.Context, token string) (*model.UserAccount, error)
}

// CredentialStore persists the credential for silent re-authentication.
// Both operations are best effort from the session's point of view.
type CredentialStore interface {
	Remember(token string) error
	Forget() error
}

// Session is an immutable snapshot of the authenticated state. Identity
// and RawToken are present together or absent together.
type Session struct {
	Identity *Identity
	RawToken string
}

// Authenticated reports whether the snapshot carries a signed-in identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil && s.RawToken != ""
}

// Manager owns the in-memory session. It is the single writer: screens
// read via Snapshot and never mutate. Begin and End are safe to call from
// command goroutines.
type Manager struct {
	mu       sync.RWMutex
	identity *Identity
	rawToken string

	backend Backend
	store   CredentialStore
	log     *zap.Logger
}

// NewManager creates an empty session manager.
func NewManager(backend Backend, store CredentialStore, log *zap.Logger) *Manager {
	return &Manager{
		backend: backend,
		store:   store,
		log:     log,
	}
}

// Begin establishes a session from a raw identity token. The token payload
// is decoded first; if that fails the session is untouched and
// ErrMalformedToken is returned. The service login-sync call must then
// succeed, otherwise the session is reset to empty and a *SyncError is
// returned. On success the server user record is returned and the
// credential is remembered for silent re-auth (best effort).
func (m *Manager) Begin(ctx context.Context, rawToken string) (*model.UserAccount, error) {
	identity, err := DecodeIdentity(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := m.backend.LoginSync(ctx, rawToken)
	if err != nil {
		m.clear()
		return nil, &SyncError{Err: err}
	}

	m.mu.Lock()
	m.identity = &identity
	m.rawToken = rawToken
	m.mu.Unlock()

	if err := m.store.Remember(rawToken); err != nil {
		m.log.Warn("could not remember credential", zap.Error(err))
	}

	m.log.Info("session established", zap.String("subject", identity.Subject))
	return user, nil
}

// End clears the session unconditionally and asks the credential store to
// forget the token so the next start does not silently re-authenticate.
// It never fails; a failing store is only logged. Calling End on an
// already-empty session is a no-op.
func (m *Manager) End() {
	m.clear()

	if err := m.store.Forget(); err != nil {
		m.log.Warn("could not forget credential", zap.Error(err))
	}
}

// Snapshot returns the current session. Readers must not mutate it.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return Session{}
	}

	identity := *m.identity
	return Session{Identity: &identity, RawToken: m.rawToken}
}

// Token returns the raw token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rawToken
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.identity = nil
	m.rawToken = ""
	m.mu.Unlock()
}
