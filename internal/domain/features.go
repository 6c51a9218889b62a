package domain

import (
	"fmt"
	"math"
)

// BuildEarthquakeFeatures validates a raw earthquake reading and engineers
// the severity model's feature vector, in [EarthquakeSeverityOrder]. Pure and
// deterministic: the reference tables are compiled in and never change at
// runtime.
func BuildEarthquakeFeatures(in EarthquakeInput) (FeatureVector, error) {
	if err := validateRange("magnitude", in.Magnitude, 0, 10); err != nil {
		return nil, err
	}
	if err := validateRange("depth", in.Depth, 0, 700); err != nil {
		return nil, err
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	return FeatureVector{
		in.Magnitude,
		in.Depth,
		in.Latitude,
		in.Longitude,
		NearestCityKm(in.Latitude, in.Longitude),
		NearestFaultKm(in.Latitude, in.Longitude),
	}, nil
}

// BuildCyclonePathFeatures engineers one track point into the path model's
// feature vector, in [CyclonePathOrder].
func BuildCyclonePathFeatures(obs CycloneObservation) (FeatureVector, error) {
	if err := validateCyclone(obs); err != nil {
		return nil, err
	}

	dirSin, dirCos := EncodeDirection(obs.Direction)
	return FeatureVector{
		obs.Lat,
		obs.Lon,
		obs.Speed,
		float64(obs.Time.UTC().Hour()),
		float64(obs.Time.UTC().Month()),
		obs.Lat * obs.Lon,
		obs.Speed * obs.Lat,
		obs.Speed * obs.Lon,
		dirSin,
		dirCos,
	}, nil
}

// BuildCyclonePathWindow engineers the trailing windowSize observations into
// the path model's input sequence, oldest first. The sequence is the history
// followed by the current observation; fewer points than the window fails
// with ErrInsufficientHistory rather than padding.
func BuildCyclonePathWindow(history []CycloneObservation, current CycloneObservation, windowSize int) ([]FeatureVector, error) {
	seq := make([]CycloneObservation, 0, len(history)+1)
	seq = append(seq, history...)
	seq = append(seq, current)

	if len(seq) < windowSize {
		return nil, fmt.Errorf("%w: have %d observations, model window is %d",
			ErrInsufficientHistory, len(seq), windowSize)
	}

	seq = seq[len(seq)-windowSize:]
	window := make([]FeatureVector, len(seq))
	for i, obs := range seq {
		fv, err := BuildCyclonePathFeatures(obs)
		if err != nil {
			return nil, err
		}
		window[i] = fv
	}
	return window, nil
}

// BuildCycloneKinematicsFeatures engineers the kinematics models' feature
// vector, in [CycloneKinematicsOrder]. Lag features come from the most recent
// history points when available and degrade to the current observation
// otherwise, matching the trained serving behavior for single-point requests.
func BuildCycloneKinematicsFeatures(obs CycloneObservation, history []CycloneObservation) (FeatureVector, error) {
	if err := validateCyclone(obs); err != nil {
		return nil, err
	}
	for _, h := range history {
		if err := validateCyclone(h); err != nil {
			return nil, err
		}
	}

	speedLag1, latLag, lonLag := obs.Speed, obs.Lat, obs.Lon
	if n := len(history); n > 0 {
		prev := history[n-1]
		speedLag1, latLag, lonLag = prev.Speed, prev.Lat, prev.Lon
	}

	dirSin, dirCos := EncodeDirection(obs.Direction)
	return FeatureVector{
		obs.Lat,
		obs.Lon,
		obs.Speed,
		float64(obs.Time.UTC().Hour()),
		float64(obs.Time.UTC().Month()),
		dirSin,
		dirCos,
		speedLag1,
		latLag,
		lonLag,
		speedMA3(obs, history),
		obs.Lat * obs.Lon,
		obs.Speed * obs.Lat,
	}, nil
}

// BuildCycloneSeverityFeatures engineers the severity clustering feature
// vector, in [CycloneSeverityOrder].
func BuildCycloneSeverityFeatures(obs CycloneObservation) (FeatureVector, error) {
	if err := validateCyclone(obs); err != nil {
		return nil, err
	}

	dirSin, dirCos := EncodeDirection(obs.Direction)
	return FeatureVector{
		obs.Lat,
		obs.Lon,
		obs.Speed,
		float64(obs.Time.UTC().Hour()),
		float64(obs.Time.UTC().Month()),
		dirSin,
		dirCos,
	}, nil
}

// speedMA3 averages the storm speed over the last three track points
// (including the current one), using as many as exist.
func speedMA3(obs CycloneObservation, history []CycloneObservation) float64 {
	sum, count := obs.Speed, 1.0
	for i := len(history) - 1; i >= 0 && count < 3; i-- {
		sum += history[i].Speed
		count++
	}
	return sum / count
}

func validateCyclone(obs CycloneObservation) error {
	if obs.Time.IsZero() {
		return fmt.Errorf("%w: ISO_TIME is required", ErrValidation)
	}
	if err := validateCoordinates(obs.Lat, obs.Lon); err != nil {
		return err
	}
	if err := validateRange("STORM_SPEED", obs.Speed, 0, 300); err != nil {
		return err
	}
	return validateRange("STORM_DIR", obs.Direction, 0, 360)
}

func validateCoordinates(lat, lon float64) error {
	if err := validateRange("latitude", lat, -90, 90); err != nil {
		return err
	}
	return validateRange("longitude", lon, -180, 180)
}

func validateRange(field string, value, min, max float64) error {
	if math.IsNaN(value) || value < min || value > max {
		return fmt.Errorf("%w: %s must be between %g and %g, got %g",
			ErrValidation, field, min, max, value)
	}
	return nil
}
