package settings

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/star/asteroidwatch/internal/api"
	"github.com/star/asteroidwatch/internal/fetch"
	"github.com/star/asteroidwatch/internal/keys"
	"github.com/star/asteroidwatch/internal/model"
)

type fakeBackend struct {
	user    model.UserAccount
	loadErr error
	saveErr error

	saved []bool
}

func (f *fakeBackend) Settings(_ context.Context, _ string) (*model.UserAccount, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeBackend) UpdateSettings(_ context.Context, _ string, enabled bool) (*model.UserAccount, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, enabled)
	u := f.user
	u.NotificationEnabled = enabled
	return &u, nil
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newLoadedModel(t *testing.T, backend *fakeBackend) Model {
	t.Helper()
	m := New(backend, staticToken("tok"), keys.DefaultKeyMap(), 80, 24)
	cmd := m.Activate()
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.Equal(t, fetch.StatusReady, m.state.Status())
	return m
}

func TestLoadReflectsServerPreference(t *testing.T) {
	backend := &fakeBackend{user: model.UserAccount{NotificationEnabled: true}}
	m := newLoadedModel(t, backend)

	assert.True(t, m.Pending())
	require.NotNil(t, m.form)
}

func TestLoadFailureShowsError(t *testing.T) {
	backend := &fakeBackend{loadErr: errors.New("connection refused")}
	m := New(backend, staticToken("tok"), keys.DefaultKeyMap(), 80, 24)

	cmd := m.Activate()
	m, _ = m.Update(cmd())

	assert.Equal(t, fetch.StatusFailed, m.state.Status())
	assert.Contains(t, m.state.Message(), "Failed to load settings.")
}

func TestSaveSendsPendingValue(t *testing.T) {
	backend := &fakeBackend{user: model.UserAccount{NotificationEnabled: false}}
	m := newLoadedModel(t, backend)

	m.fb.enabled = true
	cmd := m.save()
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	require.Equal(t, []bool{true}, backend.saved)
	assert.True(t, m.Pending())
	assert.Equal(t, "Settings saved successfully!", m.message)
	assert.False(t, m.messageErr)
	assert.True(t, m.state.Value().NotificationEnabled)
}

func TestFailedSavePreservesPendingEdit(t *testing.T) {
	backend := &fakeBackend{user: model.UserAccount{NotificationEnabled: false}}
	m := newLoadedModel(t, backend)

	backend.saveErr = &api.RequestError{
		Status: http.StatusBadRequest,
		Method: http.MethodPut,
		Path:   "/user/settings",
	}

	m.fb.enabled = true
	cmd := m.save()
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	// The edit survives the failure so the user can simply retry.
	assert.True(t, m.Pending())
	assert.True(t, m.messageErr)
	assert.Contains(t, m.message, "Failed to save settings.")
	assert.Contains(t, m.message, "400")
	assert.False(t, m.saving)
}

func TestSaveWithoutTokenIssuesNoCall(t *testing.T) {
	backend := &fakeBackend{}
	m := New(backend, staticToken(""), keys.DefaultKeyMap(), 80, 24)

	cmd := m.save()
	assert.Nil(t, cmd)
	assert.True(t, m.messageErr)
	assert.Empty(t, backend.saved)
}

func TestStaleSaveResponseIgnored(t *testing.T) {
	backend := &fakeBackend{user: model.UserAccount{NotificationEnabled: false}}
	m := newLoadedModel(t, backend)

	m.fb.enabled = true
	cmd := m.save()
	require.NotNil(t, cmd)
	msg := cmd()

	// Navigating away invalidates the outstanding save.
	m.Deactivate()

	m, _ = m.Update(msg)
	assert.Empty(t, m.message)
	assert.False(t, m.saving)
}
