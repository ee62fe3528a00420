package ports

import (
	"context"
)

// RegressionModel is a loaded, immutable regression artifact.
//
// Predict receives a batch of feature rows and returns one output per row.
// Implementations must not mutate shared state so that concurrent callers
// need no locking.
type RegressionModel interface {
	Predict(ctx context.Context, batch [][]float64) ([]float64, error)

	// Name identifies the model implementation and artifact for logs and health checks.
	Name() string
}

// ModelLoader opens a model artifact from a path.
type ModelLoader interface {
	Load(path string) (RegressionModel, error)
}
