package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Startup errors
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrModelIncompatible = fmt.Errorf("%w: incompatible feature layout", ErrModelUnavailable)

	// Input errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnknownGender = fmt.Errorf("%w: unknown gender", ErrInvalidInput)
	ErrOutOfRange    = fmt.Errorf("%w: value out of range", ErrInvalidInput)
	ErrNotFinite     = fmt.Errorf("%w: value is not a finite number", ErrInvalidInput)

	// Inference errors
	ErrInferenceFailed = errors.New("inference failed")
	ErrOutputShape     = fmt.Errorf("%w: unexpected output shape", ErrInferenceFailed)
	ErrFeatureShape    = fmt.Errorf("%w: unexpected feature vector length", ErrInferenceFailed)
)

// NewRangeError reports a field outside its inclusive domain.
func NewRangeError(field string, value, min, max float64) error {
	return fmt.Errorf("%w: %s must be between %g and %g, got %g", ErrOutOfRange, field, min, max, value)
}

// NewFeatureCountError reports a vector whose length differs from the model's.
func NewFeatureCountError(want, got int) error {
	return fmt.Errorf("%w: want %d features, got %d", ErrFeatureShape, want, got)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsInferenceFailure(err error) bool {
	return errors.Is(err, ErrInferenceFailed)
}

func IsModelUnavailable(err error) bool {
	return errors.Is(err, ErrModelUnavailable)
}
