package workout

import (
	"testing"

	"kcalcount/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenderEncode(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		hasError bool
	}{
		{"male", 1, false},
		{"female", 0, false},
		{"Male", 1, false},
		{" FEMALE ", 0, false},
		{"", 0, true},
		{"other", 0, true},
		{"m", 0, true},
		{"1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Gender(tt.input).Encode()
			if tt.hasError {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrUnknownGender)
				assert.True(t, core.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseGenderNormalises(t *testing.T) {
	g, err := ParseGender("  Female")
	require.NoError(t, err)
	assert.Equal(t, Female, g)
	assert.Equal(t, "Female", g.Label())
}
