package domain

import "errors"

// Error taxonomy. Callers classify failures with errors.Is; the HTTP layer
// maps validation errors to client faults, model errors to service
// unavailability, and inference errors to internal faults.
var (
	// ErrValidation marks a raw field outside its physical range. Rejected
	// before any model is touched.
	ErrValidation = errors.New("input validation failed")

	// ErrInsufficientHistory marks a history window shorter than the model's
	// trained sequence length. Inputs are never padded or truncated to fit.
	ErrInsufficientHistory = errors.New("insufficient observation history")

	// ErrModelNotFound marks a missing artifact file in the model store.
	ErrModelNotFound = errors.New("model artifact not found")

	// ErrModelLoad marks an unreadable or internally inconsistent artifact.
	ErrModelLoad = errors.New("model artifact load failed")

	// ErrModelContract marks an artifact whose declared input contract does
	// not match the feature engineering contract for its (domain, kind).
	ErrModelContract = errors.New("model contract mismatch")

	// ErrInference marks an unexpected failure during a forward pass.
	ErrInference = errors.New("inference failed")
)
