package client

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"cardiorisk/ml"
)

const (
	minBMI = 10
	maxBMI = 60
)

var ErrInvertedPressure = errors.New("Diastolic BP must be lower than Systolic BP")

var (
	GenderOptions = []string{"Male", "Female"}
	LevelOptions  = []string{"Normal", "Above Normal", "Well Above Normal"}
	YesNoOptions  = []string{"No", "Yes"}
)

var (
	genderCodes = map[string]int{"Male": 1, "Female": 2}
	levelCodes  = map[string]int{"Normal": 1, "Above Normal": 2, "Well Above Normal": 3}
	yesNoCodes  = map[string]int{"No": 0, "Yes": 1}
)

// Form holds the raw values an operator enters. Height and weight are only
// used to derive BMI.
type Form struct {
	Age         float64
	Gender      string
	ApHi        float64
	ApLo        float64
	Cholesterol string
	Glucose     string
	Smoke       string
	Alcohol     string
	Active      string
	HeightCM    float64
	WeightKG    float64
}

func DefaultForm() Form {
	return Form{
		Age:         50,
		Gender:      "Male",
		ApHi:        120,
		ApLo:        80,
		Cholesterol: "Normal",
		Glucose:     "Normal",
		Smoke:       "No",
		Alcohol:     "No",
		Active:      "No",
		HeightCM:    170,
		WeightKG:    70,
	}
}

type bound struct {
	name     string
	value    float64
	min, max float64
}

// Validate reports every out-of-range field. ErrInvertedPressure is part of
// the result when ap_lo >= ap_hi and can be matched with errors.Is.
func (f Form) Validate() error {
	var errs *multierror.Error

	for _, b := range []bound{
		{"age", f.Age, 1, 120},
		{"ap_hi", f.ApHi, 80, 250},
		{"ap_lo", f.ApLo, 50, 200},
		{"height_cm", f.HeightCM, 50, 250},
		{"weight_kg", f.WeightKG, 20, 200},
	} {
		if math.IsNaN(b.value) || b.value < b.min || b.value > b.max {
			errs = multierror.Append(errs, fmt.Errorf("%s must be between %g and %g", b.name, b.min, b.max))
		}
	}

	labels := []struct {
		name  string
		value string
		codes map[string]int
	}{
		{"gender", f.Gender, genderCodes},
		{"cholesterol", f.Cholesterol, levelCodes},
		{"glucose", f.Glucose, levelCodes},
		{"smoke", f.Smoke, yesNoCodes},
		{"alcohol", f.Alcohol, yesNoCodes},
		{"active", f.Active, yesNoCodes},
	}
	for _, l := range labels {
		if _, ok := l.codes[l.value]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("%s: unknown option %q", l.name, l.value))
		}
	}

	if f.ApLo >= f.ApHi {
		errs = multierror.Append(errs, ErrInvertedPressure)
	}
	return errs.ErrorOrNil()
}

// Payload encodes the form for the predict endpoint. Call Validate first;
// unknown labels encode as zero.
func (f Form) Payload() ml.PredictionInput {
	return ml.PredictionInput{
		Age:         f.Age,
		Gender:      genderCodes[f.Gender],
		ApHi:        f.ApHi,
		ApLo:        f.ApLo,
		Cholesterol: levelCodes[f.Cholesterol],
		Gluc:        levelCodes[f.Glucose],
		Smoke:       yesNoCodes[f.Smoke],
		Alco:        yesNoCodes[f.Alcohol],
		Active:      yesNoCodes[f.Active],
		BMI:         ComputeBMI(f.HeightCM, f.WeightKG),
	}
}

// ComputeBMI is weight / height², rounded to two decimals and clamped to
// [10, 60].
func ComputeBMI(heightCM, weightKG float64) float64 {
	heightM := heightCM / 100
	bmi := math.Round(weightKG/(heightM*heightM)*100) / 100
	return math.Max(minBMI, math.Min(maxBMI, bmi))
}

// ParseForm reads a submitted HTML form. Missing numeric fields fall back to
// the defaults.
func ParseForm(values url.Values) (Form, error) {
	form := DefaultForm()
	var errs *multierror.Error

	numbers := []struct {
		key string
		dst *float64
	}{
		{"age", &form.Age},
		{"ap_hi", &form.ApHi},
		{"ap_lo", &form.ApLo},
		{"height_cm", &form.HeightCM},
		{"weight_kg", &form.WeightKG},
	}
	for _, n := range numbers {
		raw := values.Get(n.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %q is not a number", n.key, raw))
			continue
		}
		*n.dst = v
	}

	labels := []struct {
		key string
		dst *string
	}{
		{"gender", &form.Gender},
		{"cholesterol", &form.Cholesterol},
		{"gluc", &form.Glucose},
		{"smoke", &form.Smoke},
		{"alco", &form.Alcohol},
		{"active", &form.Active},
	}
	for _, l := range labels {
		if raw := values.Get(l.key); raw != "" {
			*l.dst = raw
		}
	}

	return form, errs.ErrorOrNil()
}
