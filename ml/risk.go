package ml

import "math"

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

const (
	moderateThreshold = 0.40
	highThreshold     = 0.70
)

// ClassifyRisk maps a positive-class probability to a tier. Intervals are
// closed-open, so a boundary value belongs to the higher tier.
func ClassifyRisk(p float64) RiskLevel {
	switch {
	case p < moderateThreshold:
		return RiskLow
	case p < highThreshold:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// ProbabilityPercent converts p to a percentage rounded to two decimals.
func ProbabilityPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}

type Prediction struct {
	RiskProbability float64   `json:"risk_probability"`
	RiskLevel       RiskLevel `json:"risk_level"`
}
