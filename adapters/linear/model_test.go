package linear

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kcalcount/domain/core"
)

func TestLoadAndPredict(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "linear.json"))
	require.NoError(t, err)

	assert.Equal(t, 7, m.NumFeature())
	assert.Equal(t, "linear:linear.json", m.Name())
	assert.Equal(t, "Heart_Rate", m.FeatureNames()[5])

	// -60 + 1.5*1 + 0.2*30 - 0.1*180 + 0.3*80 + 6*30 + 1*110 - 2*40
	got, err := m.Predict(context.Background(), [][]float64{{1, 30, 180, 80, 30, 110, 40}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 163.5, got[0], 1e-9)
}

func TestPredictWrongWidth(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "linear.json"))
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), [][]float64{{1, 2}})
	assert.True(t, errors.Is(err, core.ErrFeatureShape))
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"intercept": `,
		"no coefficients": `{"intercept": 1}`,
		"name mismatch":   `{"intercept": 1, "coefficients": [1, 2], "feature_names": ["a"]}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
