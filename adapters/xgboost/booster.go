package xgboost

import (
	"context"
	"errors"
	"fmt"
	"math"

	"kcalcount/domain/core"
)

// node is one entry of a flattened regression tree. Leaves carry feature -1.
// Thresholds and leaf values are float32, as XGBoost stores them.
type node struct {
	feature   int
	threshold float32
	left      int
	right     int
	missing   int
	value     float32
}

func (n node) isLeaf() bool {
	return n.feature < 0
}

type tree struct {
	nodes []node
}

// eval walks from the root. Features are narrowed to float32 before the
// comparison; values below the threshold go left, NaN takes the default
// branch recorded at training time.
func (t tree) eval(features []float64) (float32, error) {
	idx := 0
	for steps := 0; steps <= len(t.nodes); steps++ {
		if idx < 0 || idx >= len(t.nodes) {
			return 0, errors.New("invalid tree state")
		}
		n := t.nodes[idx]
		if n.isLeaf() {
			return n.value, nil
		}
		if n.feature >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		v := features[n.feature]
		switch {
		case math.IsNaN(v):
			idx = n.missing
		case float32(v) < n.threshold:
			idx = n.left
		default:
			idx = n.right
		}
	}
	return 0, errors.New("tree traversal did not terminate")
}

// Booster is a gradient-boosted tree ensemble with an identity link.
// It is immutable after loading and safe for concurrent use.
type Booster struct {
	name         string
	baseScore    float32
	numFeature   int
	featureNames []string
	trees        []tree
}

// Predict scores each row as base_score plus the sum of its leaf values,
// accumulated in float32 and widened on return.
func (b *Booster) Predict(ctx context.Context, batch [][]float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(batch))
	for i, row := range batch {
		if len(row) != b.numFeature {
			return nil, core.NewFeatureCountError(b.numFeature, len(row))
		}
		sum := b.baseScore
		for j, t := range b.trees {
			leaf, err := t.eval(row)
			if err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", core.ErrInferenceFailed, j, err)
			}
			sum += leaf
		}
		out[i] = float64(sum)
	}
	return out, nil
}

func (b *Booster) Name() string {
	return fmt.Sprintf("xgboost:%s (%d trees)", b.name, len(b.trees))
}

// NumFeature is the input width declared by the artifact.
func (b *Booster) NumFeature() int {
	return b.numFeature
}

// FeatureNames returns the names stored in the artifact, if any.
func (b *Booster) FeatureNames() []string {
	return append([]string(nil), b.featureNames...)
}

// BaseScore is the global bias added to every prediction.
func (b *Booster) BaseScore() float64 {
	return float64(b.baseScore)
}

// NumTrees is the ensemble size.
func (b *Booster) NumTrees() int {
	return len(b.trees)
}
