package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCalories(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{250.0, "Estimated Calories Burnt: 250.00 kcal"},
		{123.456, "Estimated Calories Burnt: 123.46 kcal"},
		{0, "Estimated Calories Burnt: 0.00 kcal"},
		{9.999, "Estimated Calories Burnt: 10.00 kcal"},
		{-1.5, "Estimated Calories Burnt: -1.50 kcal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCalories(tt.value))
	}
}

func TestNewEstimate(t *testing.T) {
	v := FeatureVector{1, 25, 170, 65, 60, 100, 37}
	e := NewEstimate("id-1", v, 231.049)
	assert.Equal(t, "Estimated Calories Burnt: 231.05 kcal", e.Text)
	assert.Equal(t, 231.049, e.Calories)
	assert.Equal(t, v, e.Features)
}
