package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		invalid   bool
		inference bool
		startup   bool
	}{
		{"unknown gender", ErrUnknownGender, true, false, false},
		{"range", NewRangeError("age", 0, 1, 100), true, false, false},
		{"not finite", ErrNotFinite, true, false, false},
		{"output shape", ErrOutputShape, false, true, false},
		{"feature count", NewFeatureCountError(7, 6), false, true, false},
		{"incompatible model", ErrModelIncompatible, false, false, true},
		{"wrapped", fmt.Errorf("ctx: %w", ErrUnknownGender), true, false, false},
		{"unrelated", errors.New("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalidInput(tt.err); got != tt.invalid {
				t.Errorf("IsInvalidInput = %v, want %v", got, tt.invalid)
			}
			if got := IsInferenceFailure(tt.err); got != tt.inference {
				t.Errorf("IsInferenceFailure = %v, want %v", got, tt.inference)
			}
			if got := IsModelUnavailable(tt.err); got != tt.startup {
				t.Errorf("IsModelUnavailable = %v, want %v", got, tt.startup)
			}
		})
	}
}

func TestNewRangeErrorMessage(t *testing.T) {
	err := NewRangeError("body_temp_c", 46, 35, 45)
	want := "invalid input: value out of range: body_temp_c must be between 35 and 45, got 46"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
