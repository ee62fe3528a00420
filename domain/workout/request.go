package workout

import (
	"errors"
	"math"
)

// PredictionRequest carries the raw values of one Predict action.
type PredictionRequest struct {
	Gender       Gender  `json:"gender" form:"gender"`
	Age          float64 `json:"age" form:"age"`
	HeightCm     float64 `json:"height_cm" form:"height_cm"`
	WeightKg     float64 `json:"weight_kg" form:"weight_kg"`
	DurationMin  float64 `json:"duration_min" form:"duration_min"`
	HeartRateBPM float64 `json:"heart_rate_bpm" form:"heart_rate_bpm"`
	BodyTempC    float64 `json:"body_temp_c" form:"body_temp_c"`
}

// Bound describes the inclusive domain of a numeric input together with its
// form presentation.
type Bound struct {
	Field   string
	Label   string
	Min     float64
	Max     float64
	Default float64
	Step    float64
}

var (
	AgeBound       = Bound{Field: "age", Label: "Age", Min: 1, Max: 100, Default: 25, Step: 1}
	HeightBound    = Bound{Field: "height_cm", Label: "Height (cm)", Min: 100, Max: 250, Default: 170, Step: 1}
	WeightBound    = Bound{Field: "weight_kg", Label: "Weight (kg)", Min: 30, Max: 200, Default: 65, Step: 1}
	DurationBound  = Bound{Field: "duration_min", Label: "Duration (minutes)", Min: 1, Max: 300, Default: 60, Step: 1}
	HeartRateBound = Bound{Field: "heart_rate_bpm", Label: "Heart Rate", Min: 40, Max: 200, Default: 100, Step: 1}
	BodyTempBound  = Bound{Field: "body_temp_c", Label: "Body Temperature (°C)", Min: 35.0, Max: 45.0, Default: 37.0, Step: 0.1}
)

// Bounds returns the numeric inputs in form order.
func Bounds() []Bound {
	return []Bound{AgeBound, HeightBound, WeightBound, DurationBound, HeartRateBound, BodyTempBound}
}

// DefaultRequest returns the form's initial values.
func DefaultRequest() PredictionRequest {
	return PredictionRequest{
		Gender:       Male,
		Age:          AgeBound.Default,
		HeightCm:     HeightBound.Default,
		WeightKg:     WeightBound.Default,
		DurationMin:  DurationBound.Default,
		HeartRateBPM: HeartRateBound.Default,
		BodyTempC:    BodyTempBound.Default,
	}
}

func (r *PredictionRequest) field(b Bound) *float64 {
	switch b.Field {
	case AgeBound.Field:
		return &r.Age
	case HeightBound.Field:
		return &r.HeightCm
	case WeightBound.Field:
		return &r.WeightKg
	case DurationBound.Field:
		return &r.DurationMin
	case HeartRateBound.Field:
		return &r.HeartRateBPM
	case BodyTempBound.Field:
		return &r.BodyTempC
	default:
		return nil
	}
}

// Value returns the request's value for a bound's field.
func (r PredictionRequest) Value(b Bound) float64 {
	if p := r.field(b); p != nil {
		return *p
	}
	return math.NaN()
}

// SetValue stores v in the field a bound describes. Unknown bounds are ignored.
func (r *PredictionRequest) SetValue(b Bound, v float64) {
	if p := r.field(b); p != nil {
		*p = v
	}
}

// Validate checks every field and reports all violations at once.
// Out-of-range values are rejected, never clamped.
func (r PredictionRequest) Validate() error {
	var errs []error
	if _, err := ParseGender(string(r.Gender)); err != nil {
		errs = append(errs, err)
	}
	for _, b := range Bounds() {
		if err := b.Check(r.Value(b)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Features validates the request and assembles the model input in
// training column order.
func (r PredictionRequest) Features() (FeatureVector, error) {
	if err := r.Validate(); err != nil {
		return FeatureVector{}, err
	}
	gender, err := r.Gender.Encode()
	if err != nil {
		return FeatureVector{}, err
	}

	var v FeatureVector
	v[IdxGender] = gender
	v[IdxAge] = r.Age
	v[IdxHeight] = r.HeightCm
	v[IdxWeight] = r.WeightKg
	v[IdxDuration] = r.DurationMin
	v[IdxHeartRate] = r.HeartRateBPM
	v[IdxBodyTemp] = r.BodyTempC
	return v, nil
}
