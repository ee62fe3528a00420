package app

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"kcalcount/internal"
	apperrors "kcalcount/internal/errors"
	"kcalcount/ports"
)

// EvaluationReport summarises model accuracy over labelled samples.
type EvaluationReport struct {
	Model     string  `json:"model"`
	Evaluated int     `json:"evaluated"`
	Skipped   int     `json:"skipped"`
	Failed    int     `json:"failed"`
	MAE       float64 `json:"mae"`
	RMSE      float64 `json:"rmse"`
	R2        float64 `json:"r2"`
	Bias      float64 `json:"bias"`
	P90AbsErr float64 `json:"p90_abs_error"`
	MaxAbsErr float64 `json:"max_abs_error"`

	// SkippedRows holds the reason each input row was not evaluated.
	SkippedRows []error `json:"-"`
}

// EvaluationService scores every labelled sample through the prediction
// service and compares the estimates with the measured calories
type EvaluationService struct {
	predictor *PredictionService
	source    ports.SampleSource
	log       *internal.Logger
}

func NewEvaluationService(predictor *PredictionService, source ports.SampleSource, log *internal.Logger) *EvaluationService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &EvaluationService{predictor: predictor, source: source, log: log}
}

// Evaluate reads all samples and computes the report. Rows that fail
// validation or inference are counted, never fatal.
func (s *EvaluationService) Evaluate(ctx context.Context) (*EvaluationReport, error) {
	samples, skipped, err := s.source.ReadSamples(ctx)
	if err != nil {
		return nil, err
	}

	report := &EvaluationReport{
		Model:       s.predictor.ModelName(),
		Skipped:     len(skipped),
		SkippedRows: skipped,
	}

	var predicted, actual []float64
	for _, sample := range samples {
		est, err := s.predictor.Predict(ctx, sample.Request)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if apperrors.HasCode(err, apperrors.CodeInvalidInput) {
				report.Skipped++
				report.SkippedRows = append(report.SkippedRows, fmt.Errorf("row %d: %w", sample.Row, err))
				continue
			}
			report.Failed++
			s.log.Warn("[EvaluationService] row %d: %v", sample.Row, err)
			continue
		}
		predicted = append(predicted, est.Calories)
		actual = append(actual, sample.Calories)
	}

	report.Evaluated = len(predicted)
	if report.Evaluated == 0 {
		return report, apperrors.DataSource("samples", errors.New("no rows could be evaluated"))
	}
	if err := fillMetrics(report, predicted, actual); err != nil {
		return nil, apperrors.Wrap(err, "failed to compute evaluation metrics")
	}

	s.log.Info("[EvaluationService] %s: n=%d MAE=%.3f RMSE=%.3f R2=%.4f",
		report.Model, report.Evaluated, report.MAE, report.RMSE, report.R2)
	return report, nil
}

func fillMetrics(report *EvaluationReport, predicted, actual []float64) error {
	residuals := make(stats.Float64Data, len(predicted))
	absErrs := make(stats.Float64Data, len(predicted))
	squared := make(stats.Float64Data, len(predicted))
	for i := range predicted {
		residuals[i] = predicted[i] - actual[i]
		absErrs[i] = math.Abs(residuals[i])
		squared[i] = residuals[i] * residuals[i]
	}

	var err error
	if report.MAE, err = absErrs.Mean(); err != nil {
		return err
	}
	mse, err := squared.Mean()
	if err != nil {
		return err
	}
	report.RMSE = math.Sqrt(mse)
	if report.Bias, err = residuals.Mean(); err != nil {
		return err
	}
	if report.P90AbsErr, err = stats.PercentileNearestRank(absErrs, 90); err != nil {
		return err
	}
	if report.MaxAbsErr, err = absErrs.Max(); err != nil {
		return err
	}

	// R² is undefined when every label is identical.
	variance, err := stats.PopulationVariance(actual)
	if err != nil {
		return err
	}
	if variance == 0 {
		report.R2 = math.NaN()
		return nil
	}
	report.R2 = stat.RSquaredFrom(predicted, actual, nil)
	return nil
}
