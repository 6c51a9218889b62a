package model

import "fmt"

// Scaler is a standard scaler fitted at training time: z = (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Validate checks the scaler's shape and that no scale entry is zero.
func (s Scaler) Validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no mean")
	}
	if len(s.Scale) != len(s.Mean) {
		return fmt.Errorf("scaler has %d means but %d scales", len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return fmt.Errorf("scaler entry %d has zero scale", i)
		}
	}
	return nil
}

// Dim returns the scaler's feature dimension.
func (s Scaler) Dim() int { return len(s.Mean) }

// Transform standardizes in.
func (s Scaler) Transform(in []float64) ([]float64, error) {
	if len(in) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(in))
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// Inverse undoes Transform.
func (s Scaler) Inverse(in []float64) ([]float64, error) {
	if len(in) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(in))
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v*s.Scale[i] + s.Mean[i]
	}
	return out, nil
}
