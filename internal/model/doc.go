// Package model implements the numeric inference primitives the prediction
// service executes: dense feed-forward networks, a single-layer LSTM,
// gradient-boosted tree ensembles, k-means assignment, and standard scaling.
//
// All primitives are stateless forward passes over immutable weights, safe
// for concurrent use. Feature dimensions are single digits to low tens, so
// everything operates on plain float64 slices; there is deliberately no
// linear-algebra dependency.
package model
