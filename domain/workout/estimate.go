package workout

import (
	"fmt"

	"kcalcount/domain/core"
)

// Estimate is the rendered outcome of one prediction.
type Estimate struct {
	ID       core.PredictionID `json:"id"`
	Calories float64           `json:"calories"`
	Features FeatureVector     `json:"features"`
	Text     string            `json:"text"`
}

// FormatCalories renders a prediction with exactly two decimals.
func FormatCalories(kcal float64) string {
	return fmt.Sprintf("Estimated Calories Burnt: %.2f kcal", kcal)
}

// NewEstimate builds an Estimate for a model output.
func NewEstimate(id core.PredictionID, features FeatureVector, kcal float64) Estimate {
	return Estimate{
		ID:       id,
		Calories: kcal,
		Features: features,
		Text:     FormatCalories(kcal),
	}
}
