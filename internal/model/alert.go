package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kilometers is a distance value that the notification service may encode
// either as a JSON number or as a quoted decimal string (the backend stores
// it as an arbitrary-precision decimal). A payload that is neither is a
// decode error, never a silent zero or NaN.
type Kilometers float64

// UnmarshalJSON accepts both `123.45` and `"123.45"`.
func (k *Kilometers) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*k = Kilometers(v)
		return nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing distance %q: %w", v, err)
		}
		*k = Kilometers(f)
		return nil
	default:
		return fmt.Errorf("distance must be a number or numeric string, got %T", raw)
	}
}

// Float64 returns the plain float value.
func (k Kilometers) Float64() float64 { return float64(k) }

// Alert is a single asteroid close-approach alert as returned by the
// notification service. The history listing and the detail endpoint return
// the same entity; the list view simply renders fewer fields.
type Alert struct {
	// ID is the service-assigned identifier for this alert.
	ID int64 `json:"id"`

	// AsteroidName is the designation of the approaching asteroid.
	AsteroidName string `json:"asteroidName"`

	// CloseApproachDate is the date of closest approach, when known.
	// The wire name preserves the backend's spelling.
	CloseApproachDate *string `json:"closeAppraochDate"`

	// MissDistanceKilometers is how far the asteroid will miss Earth.
	MissDistanceKilometers Kilometers `json:"missDistanceKilometers"`

	// EstimatedDiameterAvgMeters is the average estimated diameter.
	EstimatedDiameterAvgMeters float64 `json:"estimatedDiameterAvgMeters"`

	// EmailSent reports whether an email notification went out for
	// this alert.
	EmailSent bool `json:"emailSent"`

	// NASAAsteroidID is the source-catalog identifier, when known.
	NASAAsteroidID *string `json:"nasaAsteroidId"`

	// ReceivedAt is when the service processed the alert.
	ReceivedAt time.Time `json:"receivedAt"`
}

// ApproachDateOrNA returns the close approach date or "N/A" when absent.
func (a Alert) ApproachDateOrNA() string {
	if a.CloseApproachDate == nil || *a.CloseApproachDate == "" {
		return "N/A"
	}
	return *a.CloseApproachDate
}

// CatalogIDOrNA returns the NASA asteroid id or "N/A" when absent.
func (a Alert) CatalogIDOrNA() string {
	if a.NASAAsteroidID == nil || *a.NASAAsteroidID == "" {
		return "N/A"
	}
	return *a.NASAAsteroidID
}
