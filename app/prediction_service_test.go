package app

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kcalcount/adapters/modelstore"
	"kcalcount/domain/core"
	"kcalcount/domain/workout"
	"kcalcount/internal"
	apperrors "kcalcount/internal/errors"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Predict(ctx context.Context, batch [][]float64) ([]float64, error) {
	args := m.Called(ctx, batch)
	out, _ := args.Get(0).([]float64)
	return out, args.Error(1)
}

func (m *mockModel) Name() string {
	return "mock"
}

func femaleExample() workout.PredictionRequest {
	return workout.PredictionRequest{
		Gender:       workout.Female,
		Age:          30,
		HeightCm:     165,
		WeightKg:     60,
		DurationMin:  45,
		HeartRateBPM: 120,
		BodyTempC:    38.5,
	}
}

func TestPredictFemaleExample(t *testing.T) {
	model := new(mockModel)
	model.On("Predict", mock.Anything, [][]float64{{0, 30, 165, 60, 45, 120, 38.5}}).
		Return([]float64{171.544}, nil).Once()

	svc := NewPredictionService(model, internal.NewNopLogger())
	est, err := svc.Predict(context.Background(), femaleExample())
	require.NoError(t, err)

	assert.Equal(t, "Estimated Calories Burnt: 171.54 kcal", est.Text)
	assert.Equal(t, 171.544, est.Calories)
	assert.Equal(t, workout.FeatureVector{0, 30, 165, 60, 45, 120, 38.5}, est.Features)
	assert.NotEmpty(t, est.ID.String())
	model.AssertExpectations(t)
}

func TestPredictInvalidInputNeverReachesModel(t *testing.T) {
	model := new(mockModel)
	svc := NewPredictionService(model, internal.NewNopLogger())

	tests := map[string]func(*workout.PredictionRequest){
		"age too high":      func(r *workout.PredictionRequest) { r.Age = 101 },
		"body temp too low": func(r *workout.PredictionRequest) { r.BodyTempC = 34.9 },
		"unknown gender":    func(r *workout.PredictionRequest) { r.Gender = "other" },
		"NaN heart rate":    func(r *workout.PredictionRequest) { r.HeartRateBPM = math.NaN() },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := femaleExample()
			mutate(&req)

			_, err := svc.Predict(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
			assert.True(t, core.IsInvalidInput(err))
		})
	}
	model.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestPredictInferenceFailures(t *testing.T) {
	tests := []struct {
		name     string
		out      []float64
		err      error
		sentinel error
	}{
		{"model error", nil, errors.New("booster exploded"), nil},
		{"no outputs", []float64{}, nil, core.ErrOutputShape},
		{"two outputs", []float64{1, 2}, nil, core.ErrOutputShape},
		{"NaN output", []float64{math.NaN()}, nil, core.ErrInferenceFailed},
		{"infinite output", []float64{math.Inf(1)}, nil, core.ErrInferenceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := new(mockModel)
			model.On("Predict", mock.Anything, mock.Anything).Return(tt.out, tt.err)

			est, err := NewPredictionService(model, internal.NewNopLogger()).Predict(context.Background(), femaleExample())
			require.Error(t, err)
			assert.Equal(t, workout.Estimate{}, est)
			assert.Equal(t, apperrors.CodeInferenceFailed, apperrors.GetCode(err))
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			model.AssertNumberOfCalls(t, "Predict", 1)
		})
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	model, err := modelstore.Load(modelstore.KindXGBoost,
		filepath.Join("..", "adapters", "xgboost", "testdata", "native.json"), modelstore.Options{})
	require.NoError(t, err)
	svc := NewPredictionService(model, internal.NewNopLogger())

	first, err := svc.Predict(context.Background(), femaleExample())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Predict(context.Background(), femaleExample())
		require.NoError(t, err)
		assert.Equal(t, first.Calories, again.Calories)
		assert.Equal(t, first.Text, again.Text)
		assert.NotEqual(t, first.ID, again.ID)
	}
	assert.Equal(t, "Estimated Calories Burnt: 155.00 kcal", first.Text)
}
