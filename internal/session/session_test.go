package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/star/asteroidwatch/internal/model"
)

type fakeBackend struct {
	calls int
	user  *model.UserAccount
	err   error
}

func (f *fakeBackend) LoginSync(_ context.Context, _ string) (*model.UserAccount, error) {
	f.calls++
	return f.user, f.err
}

type fakeStore struct {
	remembered  string
	forgets     int
	rememberErr error
	forgetErr   error
}

func (f *fakeStore) Remember(token string) error {
	if f.rememberErr != nil {
		return f.rememberErr
	}
	f.remembered = token
	return nil
}

func (f *fakeStore) Forget() error {
	f.forgets++
	if f.forgetErr != nil {
		return f.forgetErr
	}
	f.remembered = ""
	return nil
}

func newTestManager(backend Backend, store CredentialStore) *Manager {
	return NewManager(backend, store, zap.NewNop())
}

func TestBeginPopulatesSession(t *testing.T) {
	backend := &fakeBackend{user: &model.UserAccount{Email: "ann@example.com"}}
	store := &fakeStore{}
	mgr := newTestManager(backend, store)

	token := makeToken(t, map[string]any{
		"sub": "g-1", "name": "Ann", "email": "ann@example.com",
	})

	user, err := mgr.Begin(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	snap := mgr.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, "g-1", snap.Identity.Subject)
	assert.Equal(t, token, snap.RawToken)
	assert.Equal(t, token, store.remembered)
}

func TestBeginMalformedTokenLeavesSessionUntouched(t *testing.T) {
	backend := &fakeBackend{}
	mgr := newTestManager(backend, &fakeStore{})

	_, err := mgr.Begin(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)

	assert.False(t, mgr.Snapshot().Authenticated())
	assert.Zero(t, backend.calls, "backend must not be called for an undecodable token")
}

func TestBeginBackendFailureFailsClosed(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	mgr := newTestManager(backend, &fakeStore{})

	token := makeToken(t, map[string]any{"sub": "g-1"})
	_, err := mgr.Begin(context.Background(), token)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)

	snap := mgr.Snapshot()
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.Identity)
	assert.Empty(t, snap.RawToken)
}

func TestIdentityAndTokenPresentTogether(t *testing.T) {
	mgr := newTestManager(&fakeBackend{user: &model.UserAccount{}}, &fakeStore{})

	check := func() {
		snap := mgr.Snapshot()
		assert.Equal(t, snap.Identity != nil, snap.RawToken != "",
			"identity and raw token must be present or absent together")
	}

	check()

	token := makeToken(t, map[string]any{"sub": "g-1"})
	_, err := mgr.Begin(context.Background(), token)
	require.NoError(t, err)
	check()

	mgr.End()
	check()
}

func TestEndIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	mgr := newTestManager(&fakeBackend{user: &model.UserAccount{}}, store)

	token := makeToken(t, map[string]any{"sub": "g-1"})
	_, err := mgr.Begin(context.Background(), token)
	require.NoError(t, err)

	mgr.End()
	assert.False(t, mgr.Snapshot().Authenticated())

	mgr.End()
	assert.False(t, mgr.Snapshot().Authenticated())
	assert.Equal(t, 2, store.forgets)
}

func TestEndSwallowsStoreFailure(t *testing.T) {
	store := &fakeStore{forgetErr: errors.New("keyring locked")}
	mgr := newTestManager(&fakeBackend{user: &model.UserAccount{}}, store)

	token := makeToken(t, map[string]any{"sub": "g-1"})
	_, err := mgr.Begin(context.Background(), token)
	require.NoError(t, err)

	mgr.End()
	assert.False(t, mgr.Snapshot().Authenticated())
}

func TestBeginSwallowsRememberFailure(t *testing.T) {
	store := &fakeStore{rememberErr: errors.New("keyring locked")}
	mgr := newTestManager(&fakeBackend{user: &model.UserAccount{}}, store)

	token := makeToken(t, map[string]any{"sub": "g-1"})
	_, err := mgr.Begin(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, mgr.Snapshot().Authenticated())
}

func TestSnapshotIsACopy(t *testing.T) {
	mgr := newTestManager(&fakeBackend{user: &model.UserAccount{}}, &fakeStore{})

	token := makeToken(t, map[string]any{"sub": "g-1", "name": "Ann"})
	_, err := mgr.Begin(context.Background(), token)
	require.NoError(t, err)

	snap := mgr.Snapshot()
	snap.Identity.Name = "mutated"

	assert.Equal(t, "Ann", mgr.Snapshot().Identity.Name)
}
