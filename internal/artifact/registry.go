package artifact

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/observability"
)

// Registry lazily loads artifacts and caches them for the process lifetime.
// Each key transitions from empty to populated exactly once; warm reads take
// no per-request lock beyond the entry lookup. Load outcomes, including
// failures, are cached: a broken model store is an operational fault fixed by
// an operator and a restart, never retried with a different model.
type Registry struct {
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[Key]*entry
}

type entry struct {
	once sync.Once
	art  *Artifact
	err  error
}

// NewRegistry creates a Registry over the given store.
func NewRegistry(store Store, logger *slog.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{
		store:   store,
		logger:  logger,
		metrics: metrics,
		entries: make(map[Key]*entry),
	}
}

// Get returns the artifact for key, loading it on first use. Concurrent
// first calls for the same key share one load; the loser goroutines block
// until it completes.
func (r *Registry) Get(key Key) (*Artifact, error) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.art, e.err = r.load(key)
	})
	return e.art, e.err
}

// Preload eagerly resolves every required artifact, returning the first
// failure. Used at startup when MODEL_PRELOAD is set so contract faults
// surface before traffic does.
func (r *Registry) Preload() error {
	for _, key := range RequiredKeys() {
		if _, err := r.Get(key); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) load(key Key) (*Artifact, error) {
	art, err := r.store.Load(key)
	if err != nil {
		r.metrics.ArtifactLoads.WithLabelValues(key.String(), "error").Inc()
		r.logger.Error("artifact load failed", "key", key.String(), "error", err)
		return nil, err
	}

	if err := checkContract(key, art); err != nil {
		r.metrics.ArtifactLoads.WithLabelValues(key.String(), "contract_error").Inc()
		r.logger.Error("artifact contract mismatch", "key", key.String(), "error", err)
		return nil, err
	}

	r.metrics.ArtifactLoads.WithLabelValues(key.String(), "success").Inc()
	r.metrics.ArtifactsLoaded.Inc()
	r.logger.Info("artifact loaded",
		"key", key.String(),
		"version", art.Version,
		"input_dim", art.InputDim,
	)
	return art, nil
}

// checkContract verifies the bundle's declared input contract against the
// feature engineering pipeline for its key. A mismatch means the deployed
// bundle was trained against a different pipeline revision.
func checkContract(key Key, art *Artifact) error {
	want, ok := ContractFor(key)
	if !ok {
		return fmt.Errorf("%w: no feature contract defined for %s", domain.ErrModelContract, key)
	}
	if art.InputDim != len(want) {
		return fmt.Errorf("%w: %s declares input_dim %d, pipeline produces %d features",
			domain.ErrModelContract, key, art.InputDim, len(want))
	}
	if !slices.Equal(art.FeatureOrder, want) {
		return fmt.Errorf("%w: %s declares feature order %v, pipeline produces %v",
			domain.ErrModelContract, key, art.FeatureOrder, want)
	}
	return nil
}
