// Package station manages the charging-station registry.
//
// Stations are globally unique by name and owned by the operator that
// created them. Update and delete are scoped to the owner in a single
// statement, so a station that exists but belongs to someone else is
// indistinguishable from one that does not exist.
package station

import (
	"errors"
	"time"
)

// Station represents a charging station in the registry.
//
// JSON field names are capitalised to match the public API contract.
type Station struct {
	ID            string    `json:"id"`
	Name          string    `json:"Name"`
	Latitude      float64   `json:"Latitude"`
	Longitude     float64   `json:"Longitude"`
	Status        string    `json:"Status"`
	PowerOutput   float64   `json:"PowerOutput"`
	ConnectorType string    `json:"ConnectorType"`
	AddedBy       string    `json:"AddedBy"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Sentinel errors for station operations.
var (
	// ErrNameTaken is returned when a station name is already registered,
	// by any operator.
	ErrNameTaken = errors.New("station name already taken")

	// ErrStationNotFound covers both a missing station and a station owned
	// by a different operator.
	ErrStationNotFound = errors.New("station not found")
)

// maxNameLength is the maximum allowed station name length.
const maxNameLength = 128

// Validate checks the station fields against the registry constraints.
// It returns a descriptive error for the first violation found.
func (s *Station) Validate() error {
	if s.Name == "" {
		return errors.New("Name is required")
	}
	if len(s.Name) > maxNameLength {
		return errors.New("Name exceeds maximum length")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return errors.New("Latitude must be between -90 and 90")
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return errors.New("Longitude must be between -180 and 180")
	}
	if s.Status == "" {
		return errors.New("Status is required")
	}
	if s.PowerOutput < 0 {
		return errors.New("PowerOutput must not be negative")
	}
	if s.ConnectorType == "" {
		return errors.New("ConnectorType is required")
	}
	return nil
}
