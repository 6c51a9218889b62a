// Command modelcheck verifies a model store before deployment: every
// required artifact loads, satisfies its feature contract, and survives a
// smoke inference for its use case. Exit code 1 on any failure.
//
// Usage:
//
//	go run ./cmd/modelcheck -model-dir models
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/observability"
	"github.com/beaconx/disaster-predict/internal/predictor"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	modelDir := flag.String("model-dir", "", "directory containing artifact bundle files")
	flag.Parse()

	if *modelDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*modelDir))
}

func run(modelDir string) int {
	logger := observability.NewLogger("warn", "text")
	metrics := observability.NewMetricsForTesting()
	store := artifact.NewFileStore(modelDir)
	registry := artifact.NewRegistry(store, logger, metrics)

	phases := []*phase{
		checkLoads(registry),
		checkSmoke(registry, logger, metrics),
	}

	code := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		code = 1
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	return code
}

// checkLoads resolves every required artifact through the registry, which
// also enforces the feature contracts.
func checkLoads(registry *artifact.Registry) *phase {
	p := &phase{name: "artifact loading and contracts"}
	for _, key := range artifact.RequiredKeys() {
		art, err := registry.Get(key)
		if err != nil {
			p.errorf("%s: %v", key, err)
			continue
		}
		if art.Version == "" {
			p.errorf("%s: bundle has no version", key)
		}
	}
	return p
}

// checkSmoke runs one representative request per use case against the loaded
// artifacts.
func checkSmoke(registry *artifact.Registry, logger *slog.Logger, metrics *observability.Metrics) *phase {
	p := &phase{name: "smoke inference"}

	pred := predictor.New(registry, nil, logger, metrics, clockwork.NewRealClock())
	ctx := context.Background()

	obs := func(hoursAgo int) domain.CycloneObservation {
		return domain.CycloneObservation{
			Time:      time.Date(2024, time.April, 26, 12-hoursAgo, 0, 0, 0, time.UTC),
			Lat:       25.0,
			Lon:       80.0,
			Speed:     50.0,
			Direction: 180.0,
		}
	}
	history := []domain.CycloneObservation{obs(3), obs(2), obs(1)}

	if _, err := pred.PredictEarthquakeSeverity(ctx, domain.EarthquakeInput{
		Magnitude: 5.5, Depth: 10.0, Latitude: 25.0, Longitude: 80.0,
	}); err != nil {
		p.errorf("earthquake severity: %v", err)
	}

	if _, err := pred.PredictCyclonePath(ctx, history, obs(0)); err != nil {
		p.errorf("cyclone path: %v", err)
	}

	if kin, err := pred.PredictCycloneKinematics(ctx, history, obs(0)); err != nil {
		p.errorf("cyclone kinematics: %v", err)
	} else {
		if kin.Speed < 0 {
			p.errorf("cyclone kinematics: negative speed %f", kin.Speed)
		}
		if kin.Direction < 0 || kin.Direction >= 360 {
			p.errorf("cyclone kinematics: direction %f outside [0,360)", kin.Direction)
		}
	}

	if _, err := pred.ClassifyCycloneSeverity(ctx, obs(0)); err != nil {
		p.errorf("cyclone severity: %v", err)
	}

	return p
}
