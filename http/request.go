package http

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"cardiorisk/ml"
)

// laxFloat accepts a JSON number or a numeric string.
type laxFloat float64

func (f *laxFloat) UnmarshalJSON(b []byte) error {
	v, err := decodeNumber(b)
	if err != nil {
		return err
	}
	*f = laxFloat(v)
	return nil
}

// laxInt accepts an integer, an integral float such as 1.0, or a string
// holding one. Fractional values are rejected.
type laxInt int

func (i *laxInt) UnmarshalJSON(b []byte) error {
	v, err := decodeNumber(b)
	if err != nil {
		return err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return fmt.Errorf("value %v is not a valid integer", v)
	}
	*i = laxInt(v)
	return nil
}

func decodeNumber(b []byte) (float64, error) {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, err
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("value %q is not a valid number", v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("value %q is not a finite number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value %s is not a valid number", b)
	}
}

// predictRequest uses pointers so a missing or null field is distinguishable
// from zero.
type predictRequest struct {
	Age         *laxFloat `json:"age" validate:"required"`
	Gender      *laxInt   `json:"gender" validate:"required"`
	ApHi        *laxFloat `json:"ap_hi" validate:"required"`
	ApLo        *laxFloat `json:"ap_lo" validate:"required"`
	Cholesterol *laxInt   `json:"cholesterol" validate:"required"`
	Gluc        *laxInt   `json:"gluc" validate:"required"`
	Smoke       *laxInt   `json:"smoke" validate:"required"`
	Alco        *laxInt   `json:"alco" validate:"required"`
	Active      *laxInt   `json:"active" validate:"required"`
	BMI         *laxFloat `json:"BMI" validate:"required"`
}

func (req predictRequest) input() ml.PredictionInput {
	return ml.PredictionInput{
		Age:         float64(*req.Age),
		Gender:      int(*req.Gender),
		ApHi:        float64(*req.ApHi),
		ApLo:        float64(*req.ApLo),
		Cholesterol: int(*req.Cholesterol),
		Gluc:        int(*req.Gluc),
		Smoke:       int(*req.Smoke),
		Alco:        int(*req.Alco),
		Active:      int(*req.Active),
		BMI:         float64(*req.BMI),
	}
}
