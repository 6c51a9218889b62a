package model

import (
	"fmt"
	"math"

	"github.com/beaconx/disaster-predict/internal/domain"
)

// Autoencoder pairs an encoder with its mirror decoder. Reconstruction error
// measures how unlike the training data an input is.
type Autoencoder struct {
	Encoder Network `json:"encoder"`
	Decoder Network `json:"decoder"`
}

// Validate checks both halves and that the decoder inverts the encoder's
// dimensions.
func (a Autoencoder) Validate() error {
	if err := a.Encoder.Validate(); err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	if len(a.Decoder) == 0 {
		// Encoder-only bundles are legal; they support cluster assignment
		// but not reconstruction scoring.
		return nil
	}
	if err := a.Decoder.Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if a.Encoder.OutputDim() != a.Decoder.InputDim() {
		return fmt.Errorf("encoder outputs %d but decoder expects %d",
			a.Encoder.OutputDim(), a.Decoder.InputDim())
	}
	if a.Decoder.OutputDim() != a.Encoder.InputDim() {
		return fmt.Errorf("decoder outputs %d but encoder expects %d",
			a.Decoder.OutputDim(), a.Encoder.InputDim())
	}
	return nil
}

// CanReconstruct reports whether the bundle shipped a decoder.
func (a Autoencoder) CanReconstruct() bool { return len(a.Decoder) > 0 }

// Encode maps in to its latent representation.
func (a Autoencoder) Encode(in []float64) ([]float64, error) {
	return a.Encoder.Forward(in)
}

// Reconstruct encodes then decodes in and returns the mean squared
// reconstruction error with per-feature deltas (input minus reconstruction).
func (a Autoencoder) Reconstruct(in []float64) (domain.ReconstructionResult, error) {
	if !a.CanReconstruct() {
		return domain.ReconstructionResult{}, fmt.Errorf("autoencoder has no decoder")
	}
	latent, err := a.Encoder.Forward(in)
	if err != nil {
		return domain.ReconstructionResult{}, err
	}
	recon, err := a.Decoder.Forward(latent)
	if err != nil {
		return domain.ReconstructionResult{}, err
	}

	deltas := make([]float64, len(in))
	var sumSq float64
	for i := range in {
		deltas[i] = in[i] - recon[i]
		sumSq += deltas[i] * deltas[i]
	}
	mse := sumSq / float64(len(in))
	if math.IsNaN(mse) || math.IsInf(mse, 0) {
		return domain.ReconstructionResult{}, fmt.Errorf("reconstruction error is not finite")
	}
	return domain.ReconstructionResult{Error: mse, Deltas: deltas}, nil
}
