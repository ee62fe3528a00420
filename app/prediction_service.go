package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"kcalcount/domain/core"
	"kcalcount/domain/workout"
	"kcalcount/internal"
	apperrors "kcalcount/internal/errors"
	"kcalcount/ports"
)

// PredictionService validates a workout, encodes it and asks the model for
// one calorie estimate
type PredictionService struct {
	model ports.RegressionModel
	log   *internal.Logger
}

// NewPredictionService creates a prediction service around a loaded model
func NewPredictionService(model ports.RegressionModel, log *internal.Logger) *PredictionService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &PredictionService{model: model, log: log}
}

// ModelName identifies the loaded artifact.
func (s *PredictionService) ModelName() string {
	return s.model.Name()
}

// Predict returns an Estimate or an AppError coded INVALID_INPUT or
// INFERENCE_FAILED. Invalid requests never reach the model.
func (s *PredictionService) Predict(ctx context.Context, req workout.PredictionRequest) (workout.Estimate, error) {
	features, err := req.Features()
	if err != nil {
		s.log.Debug("[PredictionService] rejected request: %v", err)
		return workout.Estimate{}, apperrors.InvalidInput(err)
	}

	id := core.NewPredictionID()
	start := time.Now()

	out, err := s.model.Predict(ctx, features.Batch())
	if err != nil {
		s.log.Error("[PredictionService] %s: model %s failed: %v", id, s.model.Name(), err)
		return workout.Estimate{}, apperrors.InferenceFailed(err)
	}
	if len(out) != 1 {
		err := fmt.Errorf("%w: got %d outputs for 1 sample", core.ErrOutputShape, len(out))
		s.log.Error("[PredictionService] %s: %v", id, err)
		return workout.Estimate{}, apperrors.InferenceFailed(err)
	}
	kcal := out[0]
	if math.IsNaN(kcal) || math.IsInf(kcal, 0) {
		err := fmt.Errorf("%w: non-finite output %v", core.ErrInferenceFailed, kcal)
		s.log.Error("[PredictionService] %s: %v", id, err)
		return workout.Estimate{}, apperrors.InferenceFailed(err)
	}

	s.log.Debug("[PredictionService] %s: features=%v", id, features)
	s.log.Info("[PredictionService] %s: %.2f kcal in %s", id, kcal, time.Since(start))
	return workout.NewEstimate(id, features, kcal), nil
}
