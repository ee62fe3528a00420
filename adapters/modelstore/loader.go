// Package modelstore opens regression artifacts by kind and checks that they
// accept the workout feature layout before anything is served.
package modelstore

import (
	"fmt"
	"os"
	"strings"

	"kcalcount/adapters/linear"
	"kcalcount/adapters/xgboost"
	"kcalcount/domain/core"
	"kcalcount/domain/workout"
	apperrors "kcalcount/internal/errors"
	"kcalcount/ports"
)

type Kind string

const (
	KindXGBoost Kind = "xgboost"
	KindLinear  Kind = "linear"
)

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindXGBoost, KindLinear:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported model type %q", s)
	}
}

type Options struct {
	// BaseScore is used for XGBoost tree dumps that omit it.
	BaseScore float64
}

// layout is implemented by models that know their input width and names.
type layout interface {
	NumFeature() int
	FeatureNames() []string
}

// Loader implements ports.ModelLoader for one artifact kind.
type Loader struct {
	kind Kind
	opts Options
}

var _ ports.ModelLoader = (*Loader)(nil)

func NewLoader(kind Kind, opts Options) *Loader {
	return &Loader{kind: kind, opts: opts}
}

// Load reads the artifact and verifies its feature layout. Every failure
// carries CodeModelUnavailable and wraps core.ErrModelUnavailable.
func (l *Loader) Load(path string) (ports.RegressionModel, error) {
	var (
		model ports.RegressionModel
		err   error
	)
	switch l.kind {
	case KindXGBoost:
		model, err = xgboost.Load(path, xgboost.Options{
			BaseScore:    l.opts.BaseScore,
			FeatureNames: workout.FeatureNames[:],
		})
	case KindLinear:
		model, err = linear.Load(path)
	default:
		err = fmt.Errorf("unsupported model type %q", l.kind)
	}
	if err != nil {
		return nil, apperrors.ModelUnavailable(path, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err))
	}

	if d, ok := model.(layout); ok {
		if err := workout.CheckLayout(d.NumFeature(), d.FeatureNames()); err != nil {
			return nil, apperrors.ModelUnavailable(path, err)
		}
	}
	return model, nil
}

// Fingerprint hashes the artifact bytes so logs and health checks identify
// exactly which model is being served.
func Fingerprint(path string) (core.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return core.NewHash(data), nil
}

// Load is a shorthand for NewLoader(kind, opts).Load(path).
func Load(kind Kind, path string, opts Options) (ports.RegressionModel, error) {
	return NewLoader(kind, opts).Load(path)
}
