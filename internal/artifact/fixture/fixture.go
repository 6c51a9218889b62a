// Package fixture builds the deterministic demo artifact bundle used by the
// test suites and cmd/genartifacts. Weights come from a seeded generator, so
// every build of every bundle is bit-identical; the numbers are synthetic but
// shaped like real exports (scalers over physical ranges, bounded
// activations, coordinate outputs near the output scaler's mean).
package fixture

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/model"
)

// gen returns a deterministic pseudo-weight stream for a seed.
func gen(seed float64) func() float64 {
	k := 0.0
	return func() float64 {
		k++
		return math.Sin(seed+k*0.7) / 2
	}
}

func denseLayer(next func() float64, in, out int, activation string) model.Layer {
	l := model.Layer{
		Weights:    make([][]float64, out),
		Biases:     make([]float64, out),
		Activation: activation,
	}
	for i := range l.Weights {
		row := make([]float64, in)
		for j := range row {
			row[j] = next()
		}
		l.Weights[i] = row
		l.Biases[i] = next() / 4
	}
	return l
}

func matrix(next func() float64, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		row := make([]float64, cols)
		for j := range row {
			row[j] = next()
		}
		m[i] = row
	}
	return m
}

func vector(next func() float64, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = next() / 4
	}
	return v
}

// smallTree builds one regression tree splitting on feature at threshold 0
// (inputs are standardized, so 0 is the feature's mean) with leaf values
// scaled by amplitude.
func smallTree(next func() float64, feature int, amplitude float64) model.Tree {
	return model.Tree{Nodes: []model.TreeNode{
		{Feature: feature, Threshold: 0, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: next() * amplitude},
		{Left: -1, Right: -1, Value: next() * amplitude},
	}}
}

func ensemble(next func() float64, base float64, features []int, amplitude float64) model.Ensemble {
	e := model.Ensemble{BaseScore: base}
	for _, f := range features {
		e.Trees = append(e.Trees, smallTree(next, f, amplitude))
	}
	return e
}

// EarthquakeSeverity builds the demo earthquake severity bundle: a full
// autoencoder plus a four-cluster labeling over the latent space.
func EarthquakeSeverity() *artifact.Artifact {
	next := gen(1)
	return &artifact.Artifact{
		Domain:       artifact.DomainEarthquake,
		Kind:         artifact.KindSeverity,
		Version:      "demo-1",
		InputDim:     6,
		FeatureOrder: domain.EarthquakeSeverityOrder,
		Severity: &artifact.SeverityModel{
			Scaler: model.Scaler{
				Mean:  []float64{5, 100, 0, 0, 1500, 900},
				Scale: []float64{2.5, 150, 45, 90, 2000, 1200},
			},
			Autoencoder: model.Autoencoder{
				Encoder: model.Network{
					denseLayer(next, 6, 8, model.ActivationReLU),
					denseLayer(next, 8, 4, model.ActivationReLU),
					denseLayer(next, 4, 3, model.ActivationLinear),
				},
				Decoder: model.Network{
					denseLayer(next, 3, 4, model.ActivationReLU),
					denseLayer(next, 4, 8, model.ActivationReLU),
					denseLayer(next, 8, 6, model.ActivationTanh),
				},
			},
			Clustering: &artifact.Clustering{
				KMeans: model.KMeans{Centroids: matrix(next, 4, 3)},
				Labels: []domain.SeverityLabel{domain.Mild, domain.Moderate, domain.Severe, domain.Catastrophic},
			},
		},
	}
}

// CycloneSeverity builds the demo cyclone severity bundle: encoder plus
// clustering, no decoder (cluster assignment is the whole decision).
func CycloneSeverity() *artifact.Artifact {
	next := gen(2)
	return &artifact.Artifact{
		Domain:       artifact.DomainCyclone,
		Kind:         artifact.KindSeverity,
		Version:      "demo-1",
		InputDim:     7,
		FeatureOrder: domain.CycloneSeverityOrder,
		Severity: &artifact.SeverityModel{
			Scaler: model.Scaler{
				Mean:  []float64{15, 75, 60, 12, 6.5, 0, 0},
				Scale: []float64{20, 60, 45, 7, 3.5, 0.75, 0.75},
			},
			Autoencoder: model.Autoencoder{
				Encoder: model.Network{
					denseLayer(next, 7, 6, model.ActivationReLU),
					denseLayer(next, 6, 3, model.ActivationLinear),
				},
			},
			Clustering: &artifact.Clustering{
				KMeans: model.KMeans{Centroids: matrix(next, 4, 3)},
				Labels: []domain.SeverityLabel{domain.Mild, domain.Moderate, domain.Severe, domain.Catastrophic},
			},
		},
	}
}

// CyclonePath builds the demo path bundle: a three-step LSTM window emitting
// absolute next-step coordinates.
func CyclonePath() *artifact.Artifact {
	next := gen(3)
	const hidden = 6
	return &artifact.Artifact{
		Domain:       artifact.DomainCyclone,
		Kind:         artifact.KindPath,
		Version:      "demo-1",
		InputDim:     10,
		FeatureOrder: domain.CyclonePathOrder,
		Path: &artifact.PathModel{
			WindowSize: 3,
			InputScaler: model.Scaler{
				Mean:  []float64{15, 75, 60, 12, 6.5, 1100, 900, 4500, 0, 0},
				Scale: []float64{20, 60, 45, 7, 3.5, 2200, 1800, 9000, 0.75, 0.75},
			},
			OutputScaler: model.Scaler{
				Mean:  []float64{18, 78},
				Scale: []float64{8, 12},
			},
			Cell: model.LSTM{
				InputSize:  10,
				HiddenSize: hidden,
				Wx:         matrix(next, 4*hidden, 10),
				Wh:         matrix(next, 4*hidden, hidden),
				B:          vector(next, 4*hidden),
			},
			Output:           denseLayer(next, hidden, 2, model.ActivationLinear),
			OutputConvention: artifact.PathAbsolute,
		},
	}
}

// CycloneKinematics builds the demo kinematics bundle: a speed ensemble and
// a sin/cos direction pair decoded via atan2.
func CycloneKinematics() *artifact.Artifact {
	next := gen(4)
	return &artifact.Artifact{
		Domain:       artifact.DomainCyclone,
		Kind:         artifact.KindKinematics,
		Version:      "demo-1",
		InputDim:     13,
		FeatureOrder: domain.CycloneKinematicsOrder,
		Kinematics: &artifact.KinematicsModel{
			Scaler: model.Scaler{
				Mean:  []float64{15, 75, 60, 12, 6.5, 0, 0, 60, 15, 75, 60, 1100, 900},
				Scale: []float64{20, 60, 45, 7, 3.5, 0.75, 0.75, 45, 20, 60, 45, 2200, 1800},
			},
			Speed:               ensemble(next, 55, []int{2, 7, 10, 0}, 6),
			DirectionConvention: artifact.DirectionSinCos,
			DirectionSin:        ptr(ensemble(next, 0, []int{5, 1, 2}, 0.5)),
			DirectionCos:        ptr(ensemble(next, 0.2, []int{6, 0, 2}, 0.5)),
		},
	}
}

func ptr(e model.Ensemble) *model.Ensemble { return &e }

// All returns the complete demo bundle, keyed for the registry.
func All() map[artifact.Key]*artifact.Artifact {
	arts := []*artifact.Artifact{
		EarthquakeSeverity(),
		CyclonePath(),
		CycloneKinematics(),
		CycloneSeverity(),
	}
	out := make(map[artifact.Key]*artifact.Artifact, len(arts))
	for _, a := range arts {
		out[artifact.Key{Domain: a.Domain, Kind: a.Kind}] = a
	}
	return out
}

// WriteBundle writes every demo artifact as JSON into dir, named the way
// artifact.FileStore expects.
func WriteBundle(dir string) error {
	store := artifact.NewFileStore(dir)
	for key, art := range All() {
		data, err := json.MarshalIndent(art, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		path := store.Path(key)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
