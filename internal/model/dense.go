package model

import (
	"fmt"
	"math"
)

// Activation names accepted in layer definitions.
const (
	ActivationLinear  = "linear"
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
)

// Layer is one dense layer: out = activation(W·in + b). Weights are stored
// row-major, one row per output unit.
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// Validate checks the layer's internal shape consistency.
func (l Layer) Validate() error {
	if len(l.Weights) == 0 {
		return fmt.Errorf("layer has no weight rows")
	}
	if len(l.Biases) != len(l.Weights) {
		return fmt.Errorf("layer has %d weight rows but %d biases", len(l.Weights), len(l.Biases))
	}
	in := len(l.Weights[0])
	for i, row := range l.Weights {
		if len(row) != in {
			return fmt.Errorf("weight row %d has %d columns, expected %d", i, len(row), in)
		}
	}
	switch l.Activation {
	case ActivationLinear, ActivationReLU, ActivationSigmoid, ActivationTanh:
		return nil
	default:
		return fmt.Errorf("unknown activation %q", l.Activation)
	}
}

// InputDim returns the layer's expected input length.
func (l Layer) InputDim() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

// OutputDim returns the layer's output length.
func (l Layer) OutputDim() int { return len(l.Weights) }

// Forward applies the layer to in.
func (l Layer) Forward(in []float64) ([]float64, error) {
	if len(in) != l.InputDim() {
		return nil, fmt.Errorf("layer expects %d inputs, got %d", l.InputDim(), len(in))
	}
	out := make([]float64, len(l.Weights))
	for i, row := range l.Weights {
		sum := l.Biases[i]
		for j, w := range row {
			sum += w * in[j]
		}
		out[i] = activate(l.Activation, sum)
	}
	return out, nil
}

// Network is a stack of dense layers applied in order.
type Network []Layer

// Validate checks every layer and the dimension chaining between them.
func (n Network) Validate() error {
	for i, l := range n {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		if i > 0 && n[i-1].OutputDim() != l.InputDim() {
			return fmt.Errorf("layer %d expects %d inputs but layer %d outputs %d",
				i, l.InputDim(), i-1, n[i-1].OutputDim())
		}
	}
	return nil
}

// InputDim returns the first layer's input length, 0 for an empty network.
func (n Network) InputDim() int {
	if len(n) == 0 {
		return 0
	}
	return n[0].InputDim()
}

// OutputDim returns the last layer's output length, 0 for an empty network.
func (n Network) OutputDim() int {
	if len(n) == 0 {
		return 0
	}
	return n[len(n)-1].OutputDim()
}

// Forward runs the network over in.
func (n Network) Forward(in []float64) ([]float64, error) {
	out := in
	var err error
	for i, l := range n {
		out, err = l.Forward(out)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return out, nil
}

func activate(name string, x float64) float64 {
	switch name {
	case ActivationReLU:
		return math.Max(0, x)
	case ActivationSigmoid:
		return 1 / (1 + math.Exp(-x))
	case ActivationTanh:
		return math.Tanh(x)
	default:
		return x
	}
}
