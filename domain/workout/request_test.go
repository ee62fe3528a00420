package workout

import (
	"math"
	"testing"

	"kcalcount/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesOrder(t *testing.T) {
	req := PredictionRequest{
		Gender:       Female,
		Age:          30,
		HeightCm:     165,
		WeightKg:     60,
		DurationMin:  45,
		HeartRateBPM: 120,
		BodyTempC:    38.5,
	}

	v, err := req.Features()
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{0, 30, 165, 60, 45, 120, 38.5}, v)
	assert.Equal(t, [][]float64{{0, 30, 165, 60, 45, 120, 38.5}}, v.Batch())
}

// Fields set in a different order must still land in the training order.
func TestFeaturesOrderIndependentOfAssignment(t *testing.T) {
	var req PredictionRequest
	req.BodyTempC = 36.6
	req.HeartRateBPM = 90
	req.Gender = Male
	req.DurationMin = 10
	req.Age = 60
	req.WeightKg = 80
	req.HeightCm = 180

	v, err := req.Features()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v[IdxGender])
	assert.Equal(t, 60.0, v[IdxAge])
	assert.Equal(t, 180.0, v[IdxHeight])
	assert.Equal(t, 80.0, v[IdxWeight])
	assert.Equal(t, 10.0, v[IdxDuration])
	assert.Equal(t, 90.0, v[IdxHeartRate])
	assert.Equal(t, 36.6, v[IdxBodyTemp])
}

func TestFeatureNamesMatchIndices(t *testing.T) {
	assert.Equal(t, "Gender", FeatureNames[IdxGender])
	assert.Equal(t, "Body_Temp", FeatureNames[IdxBodyTemp])
	assert.Len(t, FeatureNames, FeatureCount)
}

func TestValidateBoundaries(t *testing.T) {
	edges := []func(r *PredictionRequest){
		func(r *PredictionRequest) { r.Age = 1 },
		func(r *PredictionRequest) { r.Age = 100 },
		func(r *PredictionRequest) { r.BodyTempC = 35.0 },
		func(r *PredictionRequest) { r.BodyTempC = 45.0 },
		func(r *PredictionRequest) { r.HeightCm = 100; r.WeightKg = 200 },
		func(r *PredictionRequest) { r.DurationMin = 300; r.HeartRateBPM = 40 },
	}

	for i, edge := range edges {
		req := DefaultRequest()
		edge(&req)
		_, err := req.Features()
		assert.NoError(t, err, "boundary case %d", i)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *PredictionRequest)
		target error
	}{
		{"age below", func(r *PredictionRequest) { r.Age = 0 }, core.ErrOutOfRange},
		{"age above", func(r *PredictionRequest) { r.Age = 100.5 }, core.ErrOutOfRange},
		{"temp above", func(r *PredictionRequest) { r.BodyTempC = 45.01 }, core.ErrOutOfRange},
		{"heart rate below", func(r *PredictionRequest) { r.HeartRateBPM = 39 }, core.ErrOutOfRange},
		{"nan weight", func(r *PredictionRequest) { r.WeightKg = math.NaN() }, core.ErrNotFinite},
		{"inf duration", func(r *PredictionRequest) { r.DurationMin = math.Inf(1) }, core.ErrNotFinite},
		{"gender", func(r *PredictionRequest) { r.Gender = "unknown" }, core.ErrUnknownGender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest()
			tt.mutate(&req)
			_, err := req.Features()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	req := PredictionRequest{Gender: "x"}
	err := req.Validate()
	require.Error(t, err)
	for _, b := range Bounds() {
		assert.Contains(t, err.Error(), b.Field)
	}
	assert.ErrorIs(t, err, core.ErrUnknownGender)
}

func TestDefaultRequestIsValid(t *testing.T) {
	req := DefaultRequest()
	require.NoError(t, req.Validate())
	for _, b := range Bounds() {
		assert.Equal(t, b.Default, req.Value(b), b.Field)
	}
}

func TestSetValueRoundTrip(t *testing.T) {
	var req PredictionRequest
	for i, b := range Bounds() {
		req.SetValue(b, float64(i+1))
	}
	for i, b := range Bounds() {
		assert.Equal(t, float64(i+1), req.Value(b), b.Field)
	}

	req.SetValue(Bound{Field: "cadence"}, 9)
	assert.True(t, math.IsNaN(req.Value(Bound{Field: "cadence"})))
}
