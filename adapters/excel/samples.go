package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"kcalcount/domain/workout"
	"kcalcount/internal"
	apperrors "kcalcount/internal/errors"
	"kcalcount/ports"
)

// SampleSource turns a labelled sheet into workout samples.
type SampleSource struct {
	config SheetConfig
	reader *DataReader
	log    *internal.Logger
}

var _ ports.SampleSource = (*SampleSource)(nil)

func NewSampleSource(config SheetConfig, log *internal.Logger) *SampleSource {
	if log == nil {
		log = internal.DefaultLogger
	}
	if config.TargetColumn == "" {
		config.TargetColumn = "Calories"
	}
	return &SampleSource{
		config: config,
		reader: NewDataReader(config.FilePath).WithSheet(config.SheetName).WithLogger(log),
		log:    log,
	}
}

// ReadSamples returns every valid row plus a RowError for each skipped one.
// The final error is set only when the sheet as a whole is unusable.
func (s *SampleSource) ReadSamples(ctx context.Context) ([]workout.LabelledSample, []error, error) {
	data, err := s.reader.ReadData()
	if err != nil {
		return nil, nil, apperrors.DataSource(s.config.FilePath, err)
	}

	columns, target, err := s.mapColumns(data.Headers)
	if err != nil {
		return nil, nil, apperrors.DataSource(s.config.FilePath, err)
	}

	var (
		samples []workout.LabelledSample
		skipped []error
	)
	for i, row := range data.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if s.config.MaxRows > 0 && len(samples)+len(skipped) >= s.config.MaxRows {
			break
		}

		rowNum, _ := strconv.Atoi(row[rowNumberKey])
		sample, err := parseSample(row, columns, target)
		if err != nil {
			skipped = append(skipped, &RowError{Row: rowNum, Err: err})
			continue
		}
		sample.Row = rowNum
		samples = append(samples, sample)
	}

	s.log.Info("[SampleSource] %s: %d samples, %d skipped rows", s.config.FilePath, len(samples), len(skipped))
	return samples, skipped, nil
}

// mapColumns finds the header for every feature and the target.
func (s *SampleSource) mapColumns(headers []string) ([workout.FeatureCount]string, string, error) {
	var columns [workout.FeatureCount]string
	target := ""
	for _, h := range headers {
		if strings.EqualFold(h, s.config.TargetColumn) {
			target = h
			continue
		}
		if idx, ok := workout.FeatureIndex(h); ok && columns[idx] == "" {
			columns[idx] = h
		}
	}

	var missing []string
	for i, c := range columns {
		if c == "" {
			missing = append(missing, workout.FeatureNames[i])
		}
	}
	if target == "" {
		missing = append(missing, s.config.TargetColumn)
	}
	if len(missing) > 0 {
		return columns, "", fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, target, nil
}

func parseSample(row RawRowData, columns [workout.FeatureCount]string, target string) (workout.LabelledSample, error) {
	gender, err := workout.ParseGender(row[columns[workout.IdxGender]])
	if err != nil {
		return workout.LabelledSample{}, err
	}

	var nums [workout.FeatureCount]float64
	for idx := workout.IdxAge; idx < workout.FeatureCount; idx++ {
		v, err := parseNumber(columns[idx], row[columns[idx]])
		if err != nil {
			return workout.LabelledSample{}, err
		}
		nums[idx] = v
	}
	calories, err := parseNumber(target, row[target])
	if err != nil {
		return workout.LabelledSample{}, err
	}

	req := workout.PredictionRequest{
		Gender:       gender,
		Age:          nums[workout.IdxAge],
		HeightCm:     nums[workout.IdxHeight],
		WeightKg:     nums[workout.IdxWeight],
		DurationMin:  nums[workout.IdxDuration],
		HeartRateBPM: nums[workout.IdxHeartRate],
		BodyTempC:    nums[workout.IdxBodyTemp],
	}
	if err := req.Validate(); err != nil {
		return workout.LabelledSample{}, err
	}
	return workout.LabelledSample{Request: req, Calories: calories}, nil
}

func parseNumber(column, raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is empty", column)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", column, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %q is not finite", column, raw)
	}
	return v, nil
}
