package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/artifact/fixture"
	"github.com/beaconx/disaster-predict/internal/domain"
)

func TestFileStorePath(t *testing.T) {
	store := artifact.NewFileStore("/srv/models")
	key := artifact.Key{Domain: artifact.DomainCyclone, Kind: artifact.KindPath}
	assert.Equal(t, filepath.Join("/srv/models", "cyclone_path.json"), store.Path(key))
}

func TestFileStoreLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixture.WriteBundle(dir))

	store := artifact.NewFileStore(dir)
	for key, want := range fixture.All() {
		art, err := store.Load(key)
		require.NoError(t, err, key)
		assert.Equal(t, want.Domain, art.Domain)
		assert.Equal(t, want.Kind, art.Kind)
		assert.Equal(t, want.Version, art.Version)
		assert.Equal(t, want.InputDim, art.InputDim)
		assert.Equal(t, want.FeatureOrder, art.FeatureOrder)
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := artifact.NewFileStore(t.TempDir())

	_, err := store.Load(artifact.Key{Domain: artifact.DomainCyclone, Kind: artifact.KindPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestFileStoreLoadCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewFileStore(dir)
	key := artifact.Key{Domain: artifact.DomainEarthquake, Kind: artifact.KindSeverity}
	require.NoError(t, os.WriteFile(store.Path(key), []byte("{not json"), 0o644))

	_, err := store.Load(key)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestFileStoreLoadKeyMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixture.WriteBundle(dir))
	store := artifact.NewFileStore(dir)

	// A path bundle saved under the kinematics file name must be rejected.
	pathKey := artifact.Key{Domain: artifact.DomainCyclone, Kind: artifact.KindPath}
	kinKey := artifact.Key{Domain: artifact.DomainCyclone, Kind: artifact.KindKinematics}
	data, err := os.ReadFile(store.Path(pathKey))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(kinKey), data, 0o644))

	_, err = store.Load(kinKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestFileStoreLoadInvalidBundle(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewFileStore(dir)
	key := artifact.Key{Domain: artifact.DomainCyclone, Kind: artifact.KindSeverity}

	// Well-formed JSON with the right key but a broken model section.
	bundle := `{
		"domain": "cyclone",
		"kind": "severity",
		"version": "demo-1",
		"input_dim": 7,
		"feature_order": ["a","b","c","d","e","f","g"],
		"severity": {"scaler": {"mean": [], "scale": []}, "autoencoder": {"encoder": []}}
	}`
	require.NoError(t, os.WriteFile(store.Path(key), []byte(bundle), 0o644))

	_, err := store.Load(key)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestArtifactValidateThresholdOrdering(t *testing.T) {
	art := fixture.EarthquakeSeverity()
	art.Severity.Clustering = nil
	art.Severity.Thresholds = []float64{0.1, 0.5, 0.4}

	err := art.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")

	art.Severity.Thresholds = []float64{0.1, 0.4, 0.9}
	assert.NoError(t, art.Validate())
}

func TestArtifactValidateEncoderOnlyNeedsClustering(t *testing.T) {
	art := fixture.CycloneSeverity()
	art.Severity.Clustering = nil
	art.Severity.Thresholds = []float64{0.1, 0.4, 0.9}

	err := art.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoder")
}
