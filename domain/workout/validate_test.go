package workout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"kcalcount/domain/core"
)

func TestBoundRule(t *testing.T) {
	assert.Equal(t, "min=1,max=100", AgeBound.Rule())
	assert.Equal(t, "min=35,max=45", BodyTempBound.Rule())
}

func TestBoundCheck(t *testing.T) {
	tests := []struct {
		name   string
		bound  Bound
		value  float64
		target error
	}{
		{"lower edge", AgeBound, 1, nil},
		{"upper edge", BodyTempBound, 45, nil},
		{"fractional inside", BodyTempBound, 36.6, nil},
		{"below", AgeBound, 0.999, core.ErrOutOfRange},
		{"above", WeightBound, 200.5, core.ErrOutOfRange},
		{"nan", HeightBound, math.NaN(), core.ErrNotFinite},
		{"positive infinity", DurationBound, math.Inf(1), core.ErrNotFinite},
		{"negative infinity", HeartRateBound, math.Inf(-1), core.ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bound.Check(tt.value)
			if tt.target == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.bound.Field)
		})
	}
}

func TestBoundCheckMessage(t *testing.T) {
	err := AgeBound.Check(101)
	assert.EqualError(t, err, "invalid input: value out of range: age must be between 1 and 100, got 101")
}
