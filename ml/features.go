package ml

const FeatureCount = 10

// PredictionInput is one patient record in the encoding the model was
// trained on.
type PredictionInput struct {
	Age         float64 `json:"age"`
	Gender      int     `json:"gender"`
	ApHi        float64 `json:"ap_hi"`
	ApLo        float64 `json:"ap_lo"`
	Cholesterol int     `json:"cholesterol"`
	Gluc        int     `json:"gluc"`
	Smoke       int     `json:"smoke"`
	Alco        int     `json:"alco"`
	Active      int     `json:"active"`
	BMI         float64 `json:"BMI"`
}

// FeatureVector lays the record out in training column order.
func FeatureVector(input PredictionInput) []float64 {
	return []float64{
		input.Age,
		float64(input.Gender),
		input.ApHi,
		input.ApLo,
		float64(input.Cholesterol),
		float64(input.Gluc),
		float64(input.Smoke),
		float64(input.Alco),
		float64(input.Active),
		input.BMI,
	}
}

func FeatureNames() []string {
	return []string{
		"age",
		"gender",
		"ap_hi",
		"ap_lo",
		"cholesterol",
		"gluc",
		"smoke",
		"alco",
		"active",
		"BMI",
	}
}
