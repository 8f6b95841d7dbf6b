package ml

import (
	"fmt"
)

// Metrics are the scores recorded when the model was trained. Any of them
// may be absent.
type Metrics struct {
	Accuracy      *float64               `json:"-"`
	TrainAccuracy *float64               `json:"train_accuracy"`
	TestAccuracy  *float64               `json:"test_accuracy"`
	Precision     *float64               `json:"precision"`
	Recall        *float64               `json:"recall"`
	F1Score       *float64               `json:"f1_score"`
	BestParams    map[string]interface{} `json:"best_params"`
}

// Bundle pairs a classifier with its training metrics. It is built once at
// startup and never mutated, so it is safe to share between requests.
type Bundle struct {
	Classifier Classifier
	Metrics    Metrics
}

// EmptyBundle has no classifier and no metrics.
func EmptyBundle() *Bundle {
	return &Bundle{}
}

func (b *Bundle) Loaded() bool {
	return b != nil && b.Classifier != nil
}

func (b *Bundle) StatusMessage() string {
	accuracy := "N/A"
	if b != nil && b.Metrics.Accuracy != nil {
		accuracy = fmt.Sprintf("%.2f%%", *b.Metrics.Accuracy*100)
	}
	return "Cardio API running. Model accuracy: " + accuracy
}

// Predict scores one record. Classifier errors and panics come back as a
// *PredictionError.
func (b *Bundle) Predict(input PredictionInput) (pred Prediction, err error) {
	if !b.Loaded() {
		return Prediction{}, ErrModelNotLoaded
	}

	defer func() {
		if r := recover(); r != nil {
			pred = Prediction{}
			err = &PredictionError{Cause: fmt.Errorf("%v", r)}
		}
	}()

	p, err := b.Classifier.PredictProba(FeatureVector(input))
	if err != nil {
		return Prediction{}, &PredictionError{Cause: err}
	}
	if err := checkProbability(p); err != nil {
		return Prediction{}, &PredictionError{Cause: err}
	}

	return Prediction{
		RiskProbability: ProbabilityPercent(p),
		RiskLevel:       ClassifyRisk(p),
	}, nil
}
