// Package artifact manages trained model bundles: their on-disk JSON schema,
// loading from the read-only model store, and a thread-safe registry that
// loads each bundle exactly once and shares it immutably across requests.
package artifact

import (
	"fmt"

	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/model"
)

// Domain identifies the disaster type a bundle was trained for.
type Domain string

// Kind identifies the model role within a domain.
type Kind string

const (
	DomainEarthquake Domain = "earthquake"
	DomainCyclone    Domain = "cyclone"

	KindSeverity   Kind = "severity"
	KindPath       Kind = "path"
	KindKinematics Kind = "kinematics"
)

// Key addresses one bundle in the registry and the model store.
type Key struct {
	Domain Domain
	Kind   Kind
}

func (k Key) String() string { return string(k.Domain) + "/" + string(k.Kind) }

// RequiredKeys lists every bundle the service needs to serve all use cases.
func RequiredKeys() []Key {
	return []Key{
		{DomainEarthquake, KindSeverity},
		{DomainCyclone, KindPath},
		{DomainCyclone, KindKinematics},
		{DomainCyclone, KindSeverity},
	}
}

// contracts maps each key to the canonical feature order the engineering
// pipeline produces for it. A bundle declaring anything else is rejected.
var contracts = map[Key][]string{
	{DomainEarthquake, KindSeverity}: domain.EarthquakeSeverityOrder,
	{DomainCyclone, KindPath}:        domain.CyclonePathOrder,
	{DomainCyclone, KindKinematics}:  domain.CycloneKinematicsOrder,
	{DomainCyclone, KindSeverity}:    domain.CycloneSeverityOrder,
}

// ContractFor returns the canonical feature order for a key.
func ContractFor(key Key) ([]string, bool) {
	order, ok := contracts[key]
	return order, ok
}

// Output conventions recorded by the training pipeline. The trained weights
// alone do not reveal which convention a model uses, so bundles must declare
// it explicitly.
const (
	// PathAbsolute: the path model emits absolute next-step coordinates.
	PathAbsolute = "absolute"
	// PathDelta: the path model emits a coordinate delta to add to the most
	// recent known position.
	PathDelta = "delta"

	// DirectionDegrees: the direction regressor emits raw degrees.
	DirectionDegrees = "degrees"
	// DirectionSinCos: two regressors emit sin/cos components decoded via atan2.
	DirectionSinCos = "sincos"
)

// Artifact is one immutable trained bundle. Exactly one of the model
// sections is populated, matching Kind. Never mutated after load; shared
// read-only by all concurrent requests.
type Artifact struct {
	Domain       Domain   `json:"domain"`
	Kind         Kind     `json:"kind"`
	Version      string   `json:"version"`
	InputDim     int      `json:"input_dim"`
	FeatureOrder []string `json:"feature_order"`

	Severity   *SeverityModel   `json:"severity,omitempty"`
	Path       *PathModel       `json:"path,omitempty"`
	Kinematics *KinematicsModel `json:"kinematics,omitempty"`
}

// SeverityModel scores inputs with an autoencoder and maps the score to a
// label, either through a trained clustering or through ordered thresholds.
type SeverityModel struct {
	Scaler      model.Scaler      `json:"scaler"`
	Autoencoder model.Autoencoder `json:"autoencoder"`

	// Clustering, when present, is authoritative for labeling. Labels are
	// indexed by cluster id, ranked by mean reconstruction error at training
	// time.
	Clustering *Clustering `json:"clustering,omitempty"`

	// Thresholds are ordered upper error bounds (b1 < b2 < b3) for
	// Mild/Moderate/Severe; anything above the last bound is Catastrophic.
	// Used only when Clustering is absent.
	Thresholds []float64 `json:"thresholds,omitempty"`
}

// Clustering pairs latent-space centroids with their severity labels.
type Clustering struct {
	KMeans model.KMeans           `json:"kmeans"`
	Labels []domain.SeverityLabel `json:"labels"`
}

// PathModel predicts the next-step position from a feature window.
type PathModel struct {
	WindowSize       int          `json:"window_size"`
	InputScaler      model.Scaler `json:"input_scaler"`
	OutputScaler     model.Scaler `json:"output_scaler"`
	Cell             model.LSTM   `json:"cell"`
	Output           model.Layer  `json:"output"`
	OutputConvention string       `json:"output_convention"`
}

// KinematicsModel predicts storm speed and direction with independent tree
// ensembles. Direction carries one ensemble for the degrees convention or a
// sin/cos pair for the sincos convention.
type KinematicsModel struct {
	Scaler              model.Scaler    `json:"scaler"`
	Speed               model.Ensemble  `json:"speed"`
	DirectionConvention string          `json:"direction_convention"`
	Direction           *model.Ensemble `json:"direction,omitempty"`
	DirectionSin        *model.Ensemble `json:"direction_sin,omitempty"`
	DirectionCos        *model.Ensemble `json:"direction_cos,omitempty"`
}

// Validate checks the bundle's internal consistency: section presence per
// kind, weight shapes, and declared conventions. Contract checks against the
// feature engineering pipeline belong to the registry, not here.
func (a *Artifact) Validate() error {
	if a.InputDim <= 0 {
		return fmt.Errorf("input_dim must be positive, got %d", a.InputDim)
	}
	if len(a.FeatureOrder) != a.InputDim {
		return fmt.Errorf("feature_order has %d entries, input_dim is %d", len(a.FeatureOrder), a.InputDim)
	}

	switch a.Kind {
	case KindSeverity:
		if a.Severity == nil {
			return fmt.Errorf("severity bundle missing severity section")
		}
		return a.Severity.validate(a.InputDim)
	case KindPath:
		if a.Path == nil {
			return fmt.Errorf("path bundle missing path section")
		}
		return a.Path.validate(a.InputDim)
	case KindKinematics:
		if a.Kinematics == nil {
			return fmt.Errorf("kinematics bundle missing kinematics section")
		}
		return a.Kinematics.validate(a.InputDim)
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}
}

func (s *SeverityModel) validate(inputDim int) error {
	if err := s.Scaler.Validate(); err != nil {
		return fmt.Errorf("scaler: %w", err)
	}
	if s.Scaler.Dim() != inputDim {
		return fmt.Errorf("scaler dimension %d does not match input_dim %d", s.Scaler.Dim(), inputDim)
	}
	if err := s.Autoencoder.Validate(); err != nil {
		return fmt.Errorf("autoencoder: %w", err)
	}
	if s.Autoencoder.Encoder.InputDim() != inputDim {
		return fmt.Errorf("encoder expects %d inputs, input_dim is %d", s.Autoencoder.Encoder.InputDim(), inputDim)
	}

	if s.Clustering != nil {
		if err := s.Clustering.KMeans.Validate(); err != nil {
			return fmt.Errorf("clustering: %w", err)
		}
		if s.Clustering.KMeans.Dim() != s.Autoencoder.Encoder.OutputDim() {
			return fmt.Errorf("centroids have dimension %d, latent space is %d",
				s.Clustering.KMeans.Dim(), s.Autoencoder.Encoder.OutputDim())
		}
		if len(s.Clustering.Labels) != len(s.Clustering.KMeans.Centroids) {
			return fmt.Errorf("clustering has %d centroids but %d labels",
				len(s.Clustering.KMeans.Centroids), len(s.Clustering.Labels))
		}
		for i, l := range s.Clustering.Labels {
			if l < domain.Mild || l > domain.Catastrophic {
				return fmt.Errorf("cluster %d has invalid label %d", i, int(l))
			}
		}
		return nil
	}

	// Threshold labeling needs a reconstruction error, hence a decoder.
	if !s.Autoencoder.CanReconstruct() {
		return fmt.Errorf("bundle has neither clustering nor a decoder for threshold scoring")
	}
	if len(s.Thresholds) == 0 {
		return fmt.Errorf("bundle has no clustering and no thresholds")
	}
	for i := 1; i < len(s.Thresholds); i++ {
		if s.Thresholds[i] <= s.Thresholds[i-1] {
			return fmt.Errorf("thresholds must be strictly increasing")
		}
	}
	return nil
}

func (p *PathModel) validate(inputDim int) error {
	if p.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", p.WindowSize)
	}
	if err := p.InputScaler.Validate(); err != nil {
		return fmt.Errorf("input scaler: %w", err)
	}
	if p.InputScaler.Dim() != inputDim {
		return fmt.Errorf("input scaler dimension %d does not match input_dim %d", p.InputScaler.Dim(), inputDim)
	}
	if err := p.OutputScaler.Validate(); err != nil {
		return fmt.Errorf("output scaler: %w", err)
	}
	if p.OutputScaler.Dim() != 2 {
		return fmt.Errorf("output scaler must cover (lat, lon), has dimension %d", p.OutputScaler.Dim())
	}
	if err := p.Cell.Validate(); err != nil {
		return fmt.Errorf("lstm: %w", err)
	}
	if p.Cell.InputSize != inputDim {
		return fmt.Errorf("lstm expects %d inputs, input_dim is %d", p.Cell.InputSize, inputDim)
	}
	if err := p.Output.Validate(); err != nil {
		return fmt.Errorf("output layer: %w", err)
	}
	if p.Output.InputDim() != p.Cell.HiddenSize {
		return fmt.Errorf("output layer expects %d inputs, hidden size is %d", p.Output.InputDim(), p.Cell.HiddenSize)
	}
	if p.Output.OutputDim() != 2 {
		return fmt.Errorf("output layer must emit (lat, lon), emits %d", p.Output.OutputDim())
	}
	switch p.OutputConvention {
	case PathAbsolute, PathDelta:
		return nil
	default:
		return fmt.Errorf("unknown output_convention %q", p.OutputConvention)
	}
}

func (k *KinematicsModel) validate(inputDim int) error {
	if err := k.Scaler.Validate(); err != nil {
		return fmt.Errorf("scaler: %w", err)
	}
	if k.Scaler.Dim() != inputDim {
		return fmt.Errorf("scaler dimension %d does not match input_dim %d", k.Scaler.Dim(), inputDim)
	}
	if err := k.Speed.Validate(inputDim); err != nil {
		return fmt.Errorf("speed ensemble: %w", err)
	}

	switch k.DirectionConvention {
	case DirectionDegrees:
		if k.Direction == nil {
			return fmt.Errorf("degrees convention requires a direction ensemble")
		}
		if err := k.Direction.Validate(inputDim); err != nil {
			return fmt.Errorf("direction ensemble: %w", err)
		}
	case DirectionSinCos:
		if k.DirectionSin == nil || k.DirectionCos == nil {
			return fmt.Errorf("sincos convention requires direction_sin and direction_cos ensembles")
		}
		if err := k.DirectionSin.Validate(inputDim); err != nil {
			return fmt.Errorf("direction_sin ensemble: %w", err)
		}
		if err := k.DirectionCos.Validate(inputDim); err != nil {
			return fmt.Errorf("direction_cos ensemble: %w", err)
		}
	default:
		return fmt.Errorf("unknown direction_convention %q", k.DirectionConvention)
	}
	return nil
}
