// Package predictor orchestrates the prediction use cases: it wires feature
// engineering to registry-resolved model artifacts and fuses model outputs
// into decisions.
//
// Failure policy is all-or-nothing: if any sub-step fails (validation,
// artifact resolution, inference) the whole use case fails with that error.
// A half-computed disaster prediction is more dangerous than an explicit
// failure signal, so no partial or degraded result is ever returned.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/observability"
)

// PredictionEvent is the record published after each successful decision.
type PredictionEvent struct {
	UseCase     string    `json:"use_case"`
	Result      any       `json:"result"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Publisher delivers prediction events to a sink. Publishing is best-effort
// and post-decision; it is not covered by the all-or-nothing policy.
type Publisher interface {
	Publish(ctx context.Context, event PredictionEvent) error
}

// Predictor is the top-level entry point for all use cases.
type Predictor struct {
	registry  *artifact.Registry
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// New creates a Predictor. publisher may be nil to disable event publishing.
func New(registry *artifact.Registry, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Predictor {
	return &Predictor{
		registry:  registry,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// EarthquakeSeverityResult is the decision for one earthquake reading. Only
// Severity crosses the wire; the reconstruction detail feeds logs and events.
type EarthquakeSeverityResult struct {
	Severity       domain.SeverityLabel        `json:"severity"`
	Reconstruction domain.ReconstructionResult `json:"reconstruction"`
	Cluster        *domain.ClusterAssignment   `json:"cluster,omitempty"`
}

// CycloneSeverityResult is the decision for one cyclone track point.
type CycloneSeverityResult struct {
	Severity domain.SeverityLabel      `json:"severity"`
	Cluster  *domain.ClusterAssignment `json:"cluster,omitempty"`
}

// CheckReadiness resolves every required artifact, returning the first
// failure. Ready means every use case can serve.
func (p *Predictor) CheckReadiness(_ context.Context) error {
	for _, key := range artifact.RequiredKeys() {
		if _, err := p.registry.Get(key); err != nil {
			return err
		}
	}
	return nil
}

// PredictEarthquakeSeverity scores one earthquake reading.
func (p *Predictor) PredictEarthquakeSeverity(ctx context.Context, in domain.EarthquakeInput) (EarthquakeSeverityResult, error) {
	uc := EarthquakeSeverity
	done := p.observe(uc)

	features, err := domain.BuildEarthquakeFeatures(in)
	if err != nil {
		return EarthquakeSeverityResult{}, done(EarthquakeSeverityResult{}, err)
	}

	art, err := p.registry.Get(uc.Key())
	if err != nil {
		return EarthquakeSeverityResult{}, done(EarthquakeSeverityResult{}, err)
	}
	if err := ctx.Err(); err != nil {
		return EarthquakeSeverityResult{}, done(EarthquakeSeverityResult{}, err)
	}

	result, err := scoreSeverity(art.Severity, features)
	return result, done(result, err)
}

// ClassifyCycloneSeverity classifies one cyclone track point.
func (p *Predictor) ClassifyCycloneSeverity(ctx context.Context, obs domain.CycloneObservation) (CycloneSeverityResult, error) {
	uc := CycloneSeverity
	done := p.observe(uc)

	features, err := domain.BuildCycloneSeverityFeatures(obs)
	if err != nil {
		return CycloneSeverityResult{}, done(CycloneSeverityResult{}, err)
	}

	art, err := p.registry.Get(uc.Key())
	if err != nil {
		return CycloneSeverityResult{}, done(CycloneSeverityResult{}, err)
	}
	if err := ctx.Err(); err != nil {
		return CycloneSeverityResult{}, done(CycloneSeverityResult{}, err)
	}

	full, err := scoreSeverity(art.Severity, features)
	result := CycloneSeverityResult{Severity: full.Severity, Cluster: full.Cluster}
	return result, done(result, err)
}

// PredictCyclonePath predicts the next-step position from the observation
// history plus the current track point.
func (p *Predictor) PredictCyclonePath(ctx context.Context, history []domain.CycloneObservation, current domain.CycloneObservation) (domain.PathPrediction, error) {
	uc := CyclonePath
	done := p.observe(uc)

	art, err := p.registry.Get(uc.Key())
	if err != nil {
		return domain.PathPrediction{}, done(nil, err)
	}

	window, err := domain.BuildCyclonePathWindow(history, current, art.Path.WindowSize)
	if err != nil {
		return domain.PathPrediction{}, done(nil, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.PathPrediction{}, done(nil, err)
	}

	result, err := runPath(art.Path, window, current)
	return result, done(result, err)
}

// PredictCycloneKinematics predicts storm speed and direction for the current
// track point; history, when present, feeds the lag features.
func (p *Predictor) PredictCycloneKinematics(ctx context.Context, history []domain.CycloneObservation, current domain.CycloneObservation) (domain.KinematicsPrediction, error) {
	uc := CycloneKinematics
	done := p.observe(uc)

	features, err := domain.BuildCycloneKinematicsFeatures(current, history)
	if err != nil {
		return domain.KinematicsPrediction{}, done(nil, err)
	}

	art, err := p.registry.Get(uc.Key())
	if err != nil {
		return domain.KinematicsPrediction{}, done(nil, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.KinematicsPrediction{}, done(nil, err)
	}

	result, err := runKinematics(art.Kinematics, features)
	return result, done(result, err)
}

// observe starts timing a use case call and returns a closure that records
// the outcome, logs it, and publishes the event on success. The closure
// passes the error through so call sites stay single-line.
func (p *Predictor) observe(uc UseCase) func(result any, err error) error {
	start := p.clock.Now()
	return func(result any, err error) error {
		p.metrics.InferenceDuration.WithLabelValues(uc.String()).Observe(p.clock.Since(start).Seconds())
		p.metrics.PredictionRequests.WithLabelValues(uc.String(), outcomeLabel(err)).Inc()

		if err != nil {
			p.logger.Warn("prediction failed", "use_case", uc.String(), "error", err)
			return err
		}

		p.logger.Info("prediction served", "use_case", uc.String())
		p.publish(uc, result)
		return nil
	}
}

// publish sends the prediction event when a publisher is configured.
// Failures are logged and counted but never fail the request: the decision
// already happened and the sink is an audit channel.
func (p *Predictor) publish(uc UseCase, result any) {
	if p.publisher == nil {
		return
	}

	event := PredictionEvent{
		UseCase:     uc.String(),
		Result:      result,
		ProcessedAt: p.clock.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("prediction event publish failed", "use_case", uc.String(), "error", err)
		return
	}
	p.metrics.EventsPublished.Inc()
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientHistory):
		return "validation_error"
	case errors.Is(err, domain.ErrModelNotFound), errors.Is(err, domain.ErrModelLoad), errors.Is(err, domain.ErrModelContract):
		return "model_error"
	default:
		return "inference_error"
	}
}

// scoreSeverity runs the autoencoder and resolves a label. Cluster-to-label
// mapping is authoritative when the bundle carries clustering metadata;
// ordered thresholds apply only when it does not. The policy is fixed per
// artifact at load time, never chosen per request.
func scoreSeverity(m *artifact.SeverityModel, features domain.FeatureVector) (EarthquakeSeverityResult, error) {
	scaled, err := m.Scaler.Transform(features)
	if err != nil {
		return EarthquakeSeverityResult{}, fmt.Errorf("%w: scale input: %v", domain.ErrInference, err)
	}

	var result EarthquakeSeverityResult
	if m.Autoencoder.CanReconstruct() {
		recon, err := m.Autoencoder.Reconstruct(scaled)
		if err != nil {
			return EarthquakeSeverityResult{}, fmt.Errorf("%w: reconstruct (input dim %d): %v", domain.ErrInference, len(scaled), err)
		}
		result.Reconstruction = recon
	}

	if m.Clustering != nil {
		latent, err := m.Autoencoder.Encode(scaled)
		if err != nil {
			return EarthquakeSeverityResult{}, fmt.Errorf("%w: encode (input dim %d): %v", domain.ErrInference, len(scaled), err)
		}
		assignment, err := m.Clustering.KMeans.Assign(latent)
		if err != nil {
			return EarthquakeSeverityResult{}, fmt.Errorf("%w: cluster assignment: %v", domain.ErrInference, err)
		}
		result.Cluster = &assignment
		result.Severity = m.Clustering.Labels[assignment.Cluster]
		return result, nil
	}

	result.Severity = thresholdLabel(m.Thresholds, result.Reconstruction.Error)
	return result, nil
}

// thresholdLabel buckets a reconstruction error against ordered upper
// bounds. Monotone by construction: a larger error never maps to a lower
// rank.
func thresholdLabel(thresholds []float64, reconstructionError float64) domain.SeverityLabel {
	for i, bound := range thresholds {
		if reconstructionError < bound {
			label := domain.Mild + domain.SeverityLabel(i)
			if label > domain.Catastrophic {
				return domain.Catastrophic
			}
			return label
		}
	}
	return domain.Catastrophic
}

// runPath executes the recurrent model over the window and applies the
// bundle's output convention.
func runPath(m *artifact.PathModel, window []domain.FeatureVector, current domain.CycloneObservation) (domain.PathPrediction, error) {
	scaled := make([][]float64, len(window))
	for i, fv := range window {
		s, err := m.InputScaler.Transform(fv)
		if err != nil {
			return domain.PathPrediction{}, fmt.Errorf("%w: scale window step %d: %v", domain.ErrInference, i, err)
		}
		scaled[i] = s
	}

	hidden, err := m.Cell.Run(scaled)
	if err != nil {
		return domain.PathPrediction{}, fmt.Errorf("%w: lstm (window %d x %d): %v", domain.ErrInference, len(scaled), len(scaled[0]), err)
	}
	out, err := m.Output.Forward(hidden)
	if err != nil {
		return domain.PathPrediction{}, fmt.Errorf("%w: output layer: %v", domain.ErrInference, err)
	}
	coords, err := m.OutputScaler.Inverse(out)
	if err != nil {
		return domain.PathPrediction{}, fmt.Errorf("%w: unscale output: %v", domain.ErrInference, err)
	}

	pred := domain.PathPrediction{Lat: coords[0], Lon: coords[1]}
	if m.OutputConvention == artifact.PathDelta {
		pred.Lat += current.Lat
		pred.Lon += current.Lon
	}

	if pred.Lat < -90 || pred.Lat > 90 || pred.Lon < -180 || pred.Lon > 180 {
		return domain.PathPrediction{}, fmt.Errorf("%w: predicted position (%.4f, %.4f) is off the globe",
			domain.ErrInference, pred.Lat, pred.Lon)
	}
	return pred, nil
}

// runKinematics executes both tree ensembles and decodes direction per the
// bundle's convention. Negative speed is a modeling artifact, clamped to
// zero rather than rejected.
func runKinematics(m *artifact.KinematicsModel, features domain.FeatureVector) (domain.KinematicsPrediction, error) {
	scaled, err := m.Scaler.Transform(features)
	if err != nil {
		return domain.KinematicsPrediction{}, fmt.Errorf("%w: scale input: %v", domain.ErrInference, err)
	}

	speed, err := m.Speed.Predict(scaled)
	if err != nil {
		return domain.KinematicsPrediction{}, fmt.Errorf("%w: speed ensemble (input dim %d): %v", domain.ErrInference, len(scaled), err)
	}
	if speed < 0 {
		speed = 0
	}

	var direction float64
	switch m.DirectionConvention {
	case artifact.DirectionSinCos:
		dirSin, err := m.DirectionSin.Predict(scaled)
		if err != nil {
			return domain.KinematicsPrediction{}, fmt.Errorf("%w: direction_sin ensemble: %v", domain.ErrInference, err)
		}
		dirCos, err := m.DirectionCos.Predict(scaled)
		if err != nil {
			return domain.KinematicsPrediction{}, fmt.Errorf("%w: direction_cos ensemble: %v", domain.ErrInference, err)
		}
		direction = domain.DecodeDirection(dirSin, dirCos)
	default:
		deg, err := m.Direction.Predict(scaled)
		if err != nil {
			return domain.KinematicsPrediction{}, fmt.Errorf("%w: direction ensemble: %v", domain.ErrInference, err)
		}
		direction = domain.NormalizeDegrees(deg)
	}

	return domain.KinematicsPrediction{Speed: speed, Direction: direction}, nil
}
