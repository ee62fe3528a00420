package workout

// LabelledSample is a request paired with the calories actually measured,
// used for offline evaluation of a model artifact.
type LabelledSample struct {
	Row      int
	Request  PredictionRequest
	Calories float64
}
