package ml

import (
	"errors"
	"fmt"
)

// LogisticRegression scores p = sigmoid(b + Σ wᵢ·(xᵢ-mᵢ)/sᵢ). Means and
// Scales are optional standardization parameters.
type LogisticRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Means        []float64 `json:"means,omitempty"`
	Scales       []float64 `json:"scales,omitempty"`
}

func (lr *LogisticRegression) Validate() error {
	if len(lr.Coefficients) != FeatureCount {
		return fmt.Errorf("expected %d coefficients, got %d", FeatureCount, len(lr.Coefficients))
	}
	if lr.Means != nil && len(lr.Means) != len(lr.Coefficients) {
		return fmt.Errorf("expected %d means, got %d", len(lr.Coefficients), len(lr.Means))
	}
	if lr.Scales != nil {
		if len(lr.Scales) != len(lr.Coefficients) {
			return fmt.Errorf("expected %d scales, got %d", len(lr.Coefficients), len(lr.Scales))
		}
		for i, s := range lr.Scales {
			if s == 0 {
				return fmt.Errorf("scale %d is zero", i)
			}
		}
	}
	return nil
}

func (lr *LogisticRegression) PredictProba(features []float64) (float64, error) {
	if len(lr.Coefficients) == 0 {
		return 0, errors.New("logistic regression has no coefficients")
	}
	if len(features) != len(lr.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(lr.Coefficients), len(features))
	}
	z := lr.Intercept
	for i, x := range features {
		if lr.Means != nil {
			x -= lr.Means[i]
		}
		if lr.Scales != nil {
			x /= lr.Scales[i]
		}
		z += lr.Coefficients[i] * x
	}
	return sigmoid(z), nil
}
