package ml

import (
	"errors"
	"fmt"
	"math"
)

// Classifier is a pre-trained binary classifier. PredictProba returns the
// probability mass assigned to the positive class for one feature row.
type Classifier interface {
	PredictProba(features []float64) (float64, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(features []float64) (float64, error)

func (f ClassifierFunc) PredictProba(features []float64) (float64, error) {
	return f(features)
}

var ErrModelNotLoaded = errors.New("Model not loaded. Please check server logs.")

// PredictionError wraps any failure raised while building features or
// running the classifier.
type PredictionError struct {
	Cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("Prediction failed: %v", e.Cause)
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func checkProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("probability %v outside [0, 1]", p)
	}
	return nil
}
