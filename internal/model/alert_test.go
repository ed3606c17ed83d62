package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKilometersUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    float64
		wantErr bool
	}{
		{name: "number", payload: `54321.5`, want: 54321.5},
		{name: "quoted decimal", payload: `"7480000.25"`, want: 7480000.25},
		{name: "non-numeric string", payload: `"close"`, wantErr: true},
		{name: "boolean", payload: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var km Kilometers
			err := json.Unmarshal([]byte(tt.payload), &km)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, km.Float64())
		})
	}
}

func TestAlertUnmarshalWireNames(t *testing.T) {
	payload := `{
		"id": 42,
		"asteroidName": "(2024 YR4)",
		"closeAppraochDate": "2032-12-22",
		"missDistanceKilometers": "266784.12",
		"estimatedDiameterAvgMeters": 55.7,
		"emailSent": true,
		"nasaAsteroidId": "54509621",
		"receivedAt": "2026-08-01T10:30:00Z"
	}`

	var alert Alert
	require.NoError(t, json.Unmarshal([]byte(payload), &alert))

	assert.Equal(t, int64(42), alert.ID)
	assert.Equal(t, "(2024 YR4)", alert.AsteroidName)
	require.NotNil(t, alert.CloseApproachDate)
	assert.Equal(t, "2032-12-22", *alert.CloseApproachDate)
	assert.Equal(t, 266784.12, alert.MissDistanceKilometers.Float64())
	assert.Equal(t, 55.7, alert.EstimatedDiameterAvgMeters)
	assert.True(t, alert.EmailSent)
	require.NotNil(t, alert.NASAAsteroidID)
	assert.Equal(t, "54509621", *alert.NASAAsteroidID)
	assert.Equal(t, 2026, alert.ReceivedAt.Year())
}

func TestAlertOptionalFields(t *testing.T) {
	payload := `{
		"id": 7,
		"asteroidName": "433 Eros",
		"closeAppraochDate": null,
		"missDistanceKilometers": 26700000,
		"estimatedDiameterAvgMeters": 16840,
		"emailSent": false,
		"receivedAt": "2026-07-12T08:00:00Z"
	}`

	var alert Alert
	require.NoError(t, json.Unmarshal([]byte(payload), &alert))

	assert.Nil(t, alert.CloseApproachDate)
	assert.Equal(t, "N/A", alert.ApproachDateOrNA())
	assert.Nil(t, alert.NASAAsteroidID)
	assert.Equal(t, "N/A", alert.CatalogIDOrNA())
}

func TestAlertNonNumericDistanceFailsDecode(t *testing.T) {
	payload := `{"id": 1, "asteroidName": "x", "missDistanceKilometers": "n/a"}`

	var alert Alert
	require.Error(t, json.Unmarshal([]byte(payload), &alert))
}
