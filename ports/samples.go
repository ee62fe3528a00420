package ports

import (
	"context"

	"kcalcount/domain/workout"
)

// SampleSource yields labelled workout rows for offline evaluation.
type SampleSource interface {
	// ReadSamples returns parsed samples plus the row-level parse errors
	// that caused rows to be skipped.
	ReadSamples(ctx context.Context) ([]workout.LabelledSample, []error, error)
}
