package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 5*time.Second, zap.NewNop()), srv
}

func TestLoginSyncSendsBearerAndBody(t *testing.T) {
	var gotAuth, gotRequestID, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body)

		json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "googleId": "g-123", "fullName": "Ann Example",
			"email": "ann@example.com", "notificationEnabled": true,
		})
	}))

	user, err := client.LoginSync(context.Background(), "tok-abc")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "/api/auth/login-sync", gotPath)
	assert.Equal(t, "g-123", user.GoogleID)
	assert.True(t, user.NotificationEnabled)
}

func TestAlertHistoryNoContentIsEmptyNotError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	alerts, err := client.AlertHistory(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestAlertHistoryServerErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.AlertHistory(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Contains(t, err.Error(), "500")
}

func TestMissingTokenGuardIssuesNoRequest(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.AlertHistory(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.AlertByID(context.Background(), "", 9)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.Settings(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.UpdateSettings(context.Background(), "", true)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.Equal(t, int32(0), calls.Load())
}

func TestAlertByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/404", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.AlertByID(context.Background(), "tok", 404)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestAlertByIDParsesStringDistance(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 5, "asteroidName": "99942 Apophis",
			"missDistanceKilometers": "31860.7",
			"estimatedDiameterAvgMeters": 340,
			"emailSent": true,
			"receivedAt": "2026-08-20T12:00:00Z"
		}`))
	}))

	alert, err := client.AlertByID(context.Background(), "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, 31860.7, alert.MissDistanceKilometers.Float64())
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/users/settings", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["notificationEnabled"])

		json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "notificationEnabled": true,
		})
	}))

	user, err := client.UpdateSettings(context.Background(), "tok", true)
	require.NoError(t, err)
	assert.True(t, user.NotificationEnabled)
}

func TestTransportFailureWraps(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL+"/api", time.Second, zap.NewNop())

	_, err := client.AlertHistory(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}
