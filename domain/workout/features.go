package workout

import (
	"fmt"
	"strings"

	"kcalcount/domain/core"
)

// FeatureCount is the width of the vector the model was trained on.
const FeatureCount = 7

// Feature positions. The order must match the training data column order.
const (
	IdxGender = iota
	IdxAge
	IdxHeight
	IdxWeight
	IdxDuration
	IdxHeartRate
	IdxBodyTemp
)

// FeatureNames are the training column names in vector order.
var FeatureNames = [FeatureCount]string{
	IdxGender:    "Gender",
	IdxAge:       "Age",
	IdxHeight:    "Height",
	IdxWeight:    "Weight",
	IdxDuration:  "Duration",
	IdxHeartRate: "Heart_Rate",
	IdxBodyTemp:  "Body_Temp",
}

// FeatureVector is one model input row.
type FeatureVector [FeatureCount]float64

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// Batch wraps the vector as a single-sample batch.
func (v FeatureVector) Batch() [][]float64 {
	return [][]float64{v.Slice()}
}

var featureAliases = map[string]int{
	"gender":          IdxGender,
	"sex":             IdxGender,
	"age":             IdxAge,
	"height":          IdxHeight,
	"heightcm":        IdxHeight,
	"weight":          IdxWeight,
	"weightkg":        IdxWeight,
	"duration":        IdxDuration,
	"durationmin":     IdxDuration,
	"heartrate":       IdxHeartRate,
	"heartratebpm":    IdxHeartRate,
	"bodytemp":        IdxBodyTemp,
	"bodytempc":       IdxBodyTemp,
	"bodytemperature": IdxBodyTemp,
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '_' || r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FeatureIndex maps a column or feature name to its vector position.
// Matching ignores case, spaces, dashes and underscores.
func FeatureIndex(name string) (int, bool) {
	idx, ok := featureAliases[normalizeName(name)]
	return idx, ok
}

// CheckLayout verifies that a model declaring the given input names expects
// exactly this vector layout. An empty name list only checks the width.
func CheckLayout(width int, names []string) error {
	if width != FeatureCount {
		return fmt.Errorf("%w: model expects %d features, have %d", core.ErrModelIncompatible, width, FeatureCount)
	}
	if len(names) == 0 {
		return nil
	}
	if len(names) != FeatureCount {
		return fmt.Errorf("%w: model names %d features, have %d", core.ErrModelIncompatible, len(names), FeatureCount)
	}
	for i, name := range names {
		idx, ok := FeatureIndex(name)
		if !ok || idx != i {
			return fmt.Errorf("%w: model feature %d is %q, want %q", core.ErrModelIncompatible, i, name, FeatureNames[i])
		}
	}
	return nil
}
