package model

import (
	"fmt"
	"math"
)

// LSTM is a single recurrent layer. Gate weights are stacked row-wise in the
// order input, forget, cell, output: Wx is (4*hidden)×input, Wh is
// (4*hidden)×hidden, and B has 4*hidden entries.
type LSTM struct {
	InputSize  int         `json:"input_size"`
	HiddenSize int         `json:"hidden_size"`
	Wx         [][]float64 `json:"wx"`
	Wh         [][]float64 `json:"wh"`
	B          []float64   `json:"b"`
}

// Validate checks the stacked weight shapes.
func (l LSTM) Validate() error {
	if l.InputSize <= 0 || l.HiddenSize <= 0 {
		return fmt.Errorf("lstm sizes must be positive, got input=%d hidden=%d", l.InputSize, l.HiddenSize)
	}
	rows := 4 * l.HiddenSize
	if len(l.Wx) != rows || len(l.Wh) != rows || len(l.B) != rows {
		return fmt.Errorf("lstm expects %d gate rows, got wx=%d wh=%d b=%d",
			rows, len(l.Wx), len(l.Wh), len(l.B))
	}
	for i, row := range l.Wx {
		if len(row) != l.InputSize {
			return fmt.Errorf("wx row %d has %d columns, expected %d", i, len(row), l.InputSize)
		}
	}
	for i, row := range l.Wh {
		if len(row) != l.HiddenSize {
			return fmt.Errorf("wh row %d has %d columns, expected %d", i, len(row), l.HiddenSize)
		}
	}
	return nil
}

// Run consumes the window in chronological order (oldest first) and returns
// the final hidden state. State starts at zero; nothing is retained between
// calls, so concurrent runs are independent.
func (l LSTM) Run(window [][]float64) ([]float64, error) {
	h := make([]float64, l.HiddenSize)
	c := make([]float64, l.HiddenSize)
	for t, x := range window {
		if len(x) != l.InputSize {
			return nil, fmt.Errorf("step %d has %d features, lstm expects %d", t, len(x), l.InputSize)
		}
		l.step(x, h, c)
	}
	for _, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("lstm hidden state is not finite")
		}
	}
	return h, nil
}

// step advances one timestep, updating h and c in place.
func (l LSTM) step(x, h, c []float64) {
	hs := l.HiddenSize
	pre := make([]float64, 4*hs)
	for r := range pre {
		sum := l.B[r]
		for j, v := range x {
			sum += l.Wx[r][j] * v
		}
		for j, v := range h {
			sum += l.Wh[r][j] * v
		}
		pre[r] = sum
	}
	for j := 0; j < hs; j++ {
		i := sigmoid(pre[j])
		f := sigmoid(pre[hs+j])
		g := math.Tanh(pre[2*hs+j])
		o := sigmoid(pre[3*hs+j])
		c[j] = f*c[j] + i*g
		h[j] = o * math.Tanh(c[j])
	}
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
