package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FeatureVector is an ordered sequence of numeric features. The field order
// is given by the canonical order slice for the (domain, kind) the vector was
// built for.
type FeatureVector []float64

// Canonical feature orders, frozen at training time.
var (
	EarthquakeSeverityOrder = []string{
		"magnitude", "depth", "latitude", "longitude",
		"city_distance_km", "fault_distance_km",
	}

	CyclonePathOrder = []string{
		"LAT", "LON", "STORM_SPEED", "HOUR", "MONTH",
		"lat_lon_interaction", "speed_lat_interaction", "speed_lon_interaction",
		"dir_sin", "dir_cos",
	}

	CycloneKinematicsOrder = []string{
		"LAT", "LON", "STORM_SPEED", "HOUR", "MONTH", "dir_sin", "dir_cos",
		"STORM_SPEED_LAG1", "LAT_LAG", "LON_LAG", "SPEED_MA3",
		"lat_lon_interaction", "speed_lat_interaction",
	}

	CycloneSeverityOrder = []string{
		"LAT", "LON", "STORM_SPEED", "HOUR", "MONTH", "dir_sin", "dir_cos",
	}
)

// EarthquakeInput holds the raw fields of an earthquake reading.
type EarthquakeInput struct {
	Magnitude float64
	Depth     float64 // km
	Latitude  float64
	Longitude float64
}

// CycloneObservation is a single cyclone track point.
type CycloneObservation struct {
	Time      time.Time
	Lat       float64
	Lon       float64
	Speed     float64 // km/h
	Direction float64 // degrees, 0-360
}

// SeverityLabel is the four-level risk scale, ordered by increasing risk.
type SeverityLabel int

const (
	Mild SeverityLabel = iota
	Moderate
	Severe
	Catastrophic
)

var severityNames = [...]string{"Mild", "Moderate", "Severe", "Catastrophic"}

func (s SeverityLabel) String() string {
	if s < Mild || s > Catastrophic {
		return fmt.Sprintf("SeverityLabel(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalJSON serializes the label as its name, the wire form shared with the
// serialization layer.
func (s SeverityLabel) MarshalJSON() ([]byte, error) {
	if s < Mild || s > Catastrophic {
		return nil, fmt.Errorf("invalid severity label %d", int(s))
	}
	return json.Marshal(severityNames[s])
}

// UnmarshalJSON parses a label name back into a SeverityLabel.
func (s *SeverityLabel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range severityNames {
		if n == name {
			*s = SeverityLabel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity label %q", name)
}

// ReconstructionResult holds an autoencoder's reconstruction error and the
// per-feature deltas it was computed from. Derived per request, not persisted.
type ReconstructionResult struct {
	Error  float64   `json:"error"`
	Deltas []float64 `json:"deltas"`
}

// ClusterAssignment is the nearest-centroid assignment of an encoded vector.
type ClusterAssignment struct {
	Cluster  int     `json:"cluster"`
	Distance float64 `json:"distance"`
}

// PathPrediction is the predicted next-step position of a cyclone.
type PathPrediction struct {
	Lat float64 `json:"Predicted_LAT"`
	Lon float64 `json:"Predicted_LON"`
}

// KinematicsPrediction holds predicted storm speed and direction of travel.
type KinematicsPrediction struct {
	Speed     float64 `json:"predicted_speed"`     // km/h, >= 0
	Direction float64 `json:"predicted_direction"` // degrees, [0, 360)
}
