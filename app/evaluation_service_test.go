package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kcalcount/domain/workout"
	"kcalcount/internal"
	apperrors "kcalcount/internal/errors"
)

// durationModel predicts twice the workout duration.
type durationModel struct{}

func (durationModel) Predict(_ context.Context, batch [][]float64) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, row := range batch {
		out[i] = 2 * row[workout.IdxDuration]
	}
	return out, nil
}

func (durationModel) Name() string { return "duration" }

type staticSource struct {
	samples []workout.LabelledSample
	skipped []error
	err     error
}

func (s staticSource) ReadSamples(context.Context) ([]workout.LabelledSample, []error, error) {
	return s.samples, s.skipped, s.err
}

func sample(row int, duration, calories float64) workout.LabelledSample {
	req := workout.DefaultRequest()
	req.DurationMin = duration
	return workout.LabelledSample{Row: row, Request: req, Calories: calories}
}

func TestEvaluateMetrics(t *testing.T) {
	source := staticSource{
		samples: []workout.LabelledSample{
			sample(2, 10, 20), // exact
			sample(3, 20, 44), // under by 4
			sample(4, 30, 58), // over by 2
			sample(5, 40, 80), // exact
		},
		skipped: []error{errors.New("row 6: Gender is empty")},
	}
	predictor := NewPredictionService(durationModel{}, internal.NewNopLogger())
	report, err := NewEvaluationService(predictor, source, internal.NewNopLogger()).Evaluate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "duration", report.Model)
	assert.Equal(t, 4, report.Evaluated)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)
	assert.InDelta(t, 1.5, report.MAE, 1e-9)
	assert.InDelta(t, math.Sqrt(5), report.RMSE, 1e-9)
	assert.InDelta(t, -0.5, report.Bias, 1e-9)
	assert.InDelta(t, 4.0, report.MaxAbsErr, 1e-9)

	assert.InDelta(t, 4.0, report.P90AbsErr, 1e-9)

	// labels 20,44,58,80: mean 50.5, population variance 474.75
	assert.InDelta(t, 1-5/474.75, report.R2, 1e-9)
}

func TestEvaluateCountsInvalidSamplesAsSkipped(t *testing.T) {
	bad := sample(3, 10, 20)
	bad.Request.Age = 0
	source := staticSource{samples: []workout.LabelledSample{sample(2, 10, 20), bad}}

	predictor := NewPredictionService(durationModel{}, internal.NewNopLogger())
	report, err := NewEvaluationService(predictor, source, internal.NewNopLogger()).Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.SkippedRows, 1)
	assert.Contains(t, report.SkippedRows[0].Error(), "row 3")
	assert.True(t, math.IsNaN(report.R2))
}

func TestEvaluateNoUsableRows(t *testing.T) {
	source := staticSource{skipped: []error{errors.New("row 2: bad")}}
	predictor := NewPredictionService(durationModel{}, internal.NewNopLogger())
	report, err := NewEvaluationService(predictor, source, internal.NewNopLogger()).Evaluate(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataSource, apperrors.GetCode(err))
	assert.Equal(t, 1, report.Skipped)
}

func TestEvaluateSourceError(t *testing.T) {
	source := staticSource{err: apperrors.DataSource("x.xlsx", errors.New("locked"))}
	predictor := NewPredictionService(durationModel{}, internal.NewNopLogger())
	_, err := NewEvaluationService(predictor, source, internal.NewNopLogger()).Evaluate(context.Background())
	assert.Equal(t, apperrors.CodeDataSource, apperrors.GetCode(err))
}
