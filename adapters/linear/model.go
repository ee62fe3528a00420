// Package linear scores features with a fitted linear regression exported as
// JSON: {"intercept": b, "coefficients": [w0..wn], "feature_names": [...]}.
package linear

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"kcalcount/domain/core"
)

type artifact struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	FeatureNames []string  `json:"feature_names"`
}

// Model is immutable after Load.
type Model struct {
	name         string
	intercept    float64
	coefficients []float64
	featureNames []string
}

// Load reads a linear model artifact.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	m.name = filepath.Base(path)
	return m, nil
}

func Parse(data []byte) (*Model, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if len(a.Coefficients) == 0 {
		return nil, errors.New("coefficients missing")
	}
	if len(a.FeatureNames) > 0 && len(a.FeatureNames) != len(a.Coefficients) {
		return nil, fmt.Errorf("%d feature names for %d coefficients", len(a.FeatureNames), len(a.Coefficients))
	}
	if math.IsNaN(a.Intercept) || math.IsInf(a.Intercept, 0) || floats.HasNaN(a.Coefficients) {
		return nil, errors.New("non-finite parameters")
	}
	return &Model{
		intercept:    a.Intercept,
		coefficients: a.Coefficients,
		featureNames: a.FeatureNames,
	}, nil
}

// Predict returns intercept + w·x for every row.
func (m *Model) Predict(ctx context.Context, batch [][]float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(batch))
	for i, row := range batch {
		if len(row) != len(m.coefficients) {
			return nil, core.NewFeatureCountError(len(m.coefficients), len(row))
		}
		out[i] = m.intercept + floats.Dot(m.coefficients, row)
	}
	return out, nil
}

func (m *Model) Name() string {
	return "linear:" + m.name
}

func (m *Model) NumFeature() int {
	return len(m.coefficients)
}

func (m *Model) FeatureNames() []string {
	return append([]string(nil), m.featureNames...)
}
