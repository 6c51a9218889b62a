// Command genartifacts writes the deterministic demo artifact bundle used
// for local development and the test suites. It uses the actual artifact
// schema package, so the generated files always load through the same code
// path the service uses.
//
// Usage:
//
//	go run ./cmd/genartifacts -out models
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/artifact/fixture"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for artifact bundle files")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := fixture.WriteBundle(*out); err != nil {
		return err
	}

	// Reload through the real store to prove the round trip.
	store := artifact.NewFileStore(*out)
	for key := range fixture.All() {
		art, err := store.Load(key)
		if err != nil {
			return fmt.Errorf("reload %s: %w", key, err)
		}
		log.Printf("wrote %s (version %s, input_dim %d)", store.Path(key), art.Version, art.InputDim)
	}
	return nil
}
