package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quakeInput() EarthquakeInput {
	return EarthquakeInput{Magnitude: 5.5, Depth: 10.0, Latitude: 25.0, Longitude: 80.0}
}

func trackPoint(hour int) CycloneObservation {
	return CycloneObservation{
		Time:      time.Date(2024, time.April, 26, hour, 0, 0, 0, time.UTC),
		Lat:       18.5,
		Lon:       88.2,
		Speed:     65.0,
		Direction: 270.0,
	}
}

func TestBuildEarthquakeFeatures(t *testing.T) {
	fv, err := BuildEarthquakeFeatures(quakeInput())
	require.NoError(t, err)
	require.Len(t, fv, len(EarthquakeSeverityOrder))

	assert.Equal(t, 5.5, fv[0])
	assert.Equal(t, 10.0, fv[1])
	assert.Equal(t, 25.0, fv[2])
	assert.Equal(t, 80.0, fv[3])
	assert.Equal(t, NearestCityKm(25.0, 80.0), fv[4])
	assert.Equal(t, NearestFaultKm(25.0, 80.0), fv[5])
	assert.Positive(t, fv[4])
	assert.Positive(t, fv[5])
}

func TestBuildEarthquakeFeaturesDeterministic(t *testing.T) {
	first, err := BuildEarthquakeFeatures(quakeInput())
	require.NoError(t, err)
	second, err := BuildEarthquakeFeatures(quakeInput())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildEarthquakeFeaturesRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EarthquakeInput)
	}{
		{"magnitude above 10", func(in *EarthquakeInput) { in.Magnitude = 15 }},
		{"magnitude negative", func(in *EarthquakeInput) { in.Magnitude = -0.1 }},
		{"magnitude NaN", func(in *EarthquakeInput) { in.Magnitude = math.NaN() }},
		{"depth above 700", func(in *EarthquakeInput) { in.Depth = 701 }},
		{"depth negative", func(in *EarthquakeInput) { in.Depth = -5 }},
		{"latitude above 90", func(in *EarthquakeInput) { in.Latitude = 95 }},
		{"latitude below -90", func(in *EarthquakeInput) { in.Latitude = -90.5 }},
		{"longitude above 180", func(in *EarthquakeInput) { in.Longitude = 181 }},
		{"longitude NaN", func(in *EarthquakeInput) { in.Longitude = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := quakeInput()
			tt.mutate(&in)
			_, err := BuildEarthquakeFeatures(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBuildCyclonePathFeatures(t *testing.T) {
	obs := trackPoint(12)
	fv, err := BuildCyclonePathFeatures(obs)
	require.NoError(t, err)
	require.Len(t, fv, len(CyclonePathOrder))

	dirSin, dirCos := EncodeDirection(obs.Direction)
	assert.Equal(t, obs.Lat, fv[0])
	assert.Equal(t, obs.Lon, fv[1])
	assert.Equal(t, obs.Speed, fv[2])
	assert.Equal(t, 12.0, fv[3])
	assert.Equal(t, 4.0, fv[4])
	assert.Equal(t, obs.Lat*obs.Lon, fv[5])
	assert.Equal(t, obs.Speed*obs.Lat, fv[6])
	assert.Equal(t, obs.Speed*obs.Lon, fv[7])
	assert.Equal(t, dirSin, fv[8])
	assert.Equal(t, dirCos, fv[9])
}

func TestBuildCyclonePathFeaturesUsesUTCTimeParts(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	obs := trackPoint(0)
	obs.Time = time.Date(2024, time.January, 1, 2, 0, 0, 0, ist) // 20:30 UTC, Dec 31

	fv, err := BuildCyclonePathFeatures(obs)
	require.NoError(t, err)
	assert.Equal(t, 20.0, fv[3])
	assert.Equal(t, 12.0, fv[4])
}

func TestBuildCyclonePathFeaturesRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CycloneObservation)
	}{
		{"zero time", func(o *CycloneObservation) { o.Time = time.Time{} }},
		{"speed above 300", func(o *CycloneObservation) { o.Speed = 301 }},
		{"speed negative", func(o *CycloneObservation) { o.Speed = -1 }},
		{"direction above 360", func(o *CycloneObservation) { o.Direction = 360.1 }},
		{"direction negative", func(o *CycloneObservation) { o.Direction = -0.1 }},
		{"latitude out of range", func(o *CycloneObservation) { o.Lat = 91 }},
		{"longitude out of range", func(o *CycloneObservation) { o.Lon = -181 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := trackPoint(12)
			tt.mutate(&obs)
			_, err := BuildCyclonePathFeatures(obs)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBuildCyclonePathWindow(t *testing.T) {
	history := []CycloneObservation{trackPoint(6), trackPoint(9)}
	current := trackPoint(12)

	window, err := BuildCyclonePathWindow(history, current, 3)
	require.NoError(t, err)
	require.Len(t, window, 3)

	// Oldest first, current last.
	assert.Equal(t, 6.0, window[0][3])
	assert.Equal(t, 9.0, window[1][3])
	assert.Equal(t, 12.0, window[2][3])
}

func TestBuildCyclonePathWindowTakesTrailingPoints(t *testing.T) {
	history := []CycloneObservation{trackPoint(0), trackPoint(3), trackPoint(6), trackPoint(9)}

	window, err := BuildCyclonePathWindow(history, trackPoint(12), 3)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, 6.0, window[0][3])
	assert.Equal(t, 12.0, window[2][3])
}

func TestBuildCyclonePathWindowInsufficientHistory(t *testing.T) {
	_, err := BuildCyclonePathWindow([]CycloneObservation{trackPoint(9)}, trackPoint(12), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Contains(t, err.Error(), "have 2 observations")
}

func TestBuildCyclonePathWindowValidatesEveryPoint(t *testing.T) {
	bad := trackPoint(9)
	bad.Speed = 500

	_, err := BuildCyclonePathWindow([]CycloneObservation{trackPoint(6), bad}, trackPoint(12), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildCycloneKinematicsFeaturesWithHistory(t *testing.T) {
	prev := trackPoint(9)
	prev.Lat, prev.Lon, prev.Speed = 17.9, 88.9, 60.0
	older := trackPoint(6)
	older.Speed = 55.0
	obs := trackPoint(12)

	fv, err := BuildCycloneKinematicsFeatures(obs, []CycloneObservation{older, prev})
	require.NoError(t, err)
	require.Len(t, fv, len(CycloneKinematicsOrder))

	assert.Equal(t, prev.Speed, fv[7])
	assert.Equal(t, prev.Lat, fv[8])
	assert.Equal(t, prev.Lon, fv[9])
	assert.InDelta(t, (obs.Speed+prev.Speed+older.Speed)/3, fv[10], 1e-12)
	assert.Equal(t, obs.Lat*obs.Lon, fv[11])
	assert.Equal(t, obs.Speed*obs.Lat, fv[12])
}

func TestBuildCycloneKinematicsFeaturesNoHistory(t *testing.T) {
	obs := trackPoint(12)
	fv, err := BuildCycloneKinematicsFeatures(obs, nil)
	require.NoError(t, err)

	// Lags degrade to the current observation.
	assert.Equal(t, obs.Speed, fv[7])
	assert.Equal(t, obs.Lat, fv[8])
	assert.Equal(t, obs.Lon, fv[9])
	assert.Equal(t, obs.Speed, fv[10])
}

func TestBuildCycloneKinematicsFeaturesValidatesHistory(t *testing.T) {
	bad := trackPoint(9)
	bad.Direction = 400

	_, err := BuildCycloneKinematicsFeatures(trackPoint(12), []CycloneObservation{bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildCycloneSeverityFeatures(t *testing.T) {
	obs := trackPoint(12)
	obs.Direction = 359.9

	fv, err := BuildCycloneSeverityFeatures(obs)
	require.NoError(t, err)
	require.Len(t, fv, len(CycloneSeverityOrder))

	dirSin, dirCos := EncodeDirection(359.9)
	assert.Equal(t, dirSin, fv[5])
	assert.Equal(t, dirCos, fv[6])
	assert.InDelta(t, 359.9, DecodeDirection(fv[5], fv[6]), 1e-6)
}

func TestSpeedMA3UsesAtMostThreePoints(t *testing.T) {
	obs := trackPoint(12)
	obs.Speed = 90
	history := make([]CycloneObservation, 5)
	for i := range history {
		history[i] = trackPoint(i)
		history[i].Speed = float64(10 * (i + 1))
	}

	fv, err := BuildCycloneKinematicsFeatures(obs, history)
	require.NoError(t, err)

	// Current plus the two most recent history points only.
	assert.InDelta(t, (90.0+50.0+40.0)/3, fv[10], 1e-12)
}

func TestNearestCityKmKnownPoint(t *testing.T) {
	// At Delhi's own coordinates the nearest city distance is zero.
	assert.InDelta(t, 0.0, NearestCityKm(28.7041, 77.1025), 1e-9)
	assert.Positive(t, NearestFaultKm(28.7041, 77.1025))
}
