package client

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiorisk/ml"
)

func TestComputeBMI(t *testing.T) {
	cases := []struct {
		name           string
		height, weight float64
		want           float64
	}{
		{"typical", 170, 70, 24.22},
		{"clamped low", 250, 20, 10},
		{"clamped high", 50, 200, 60},
		{"rounded", 180, 81, 25},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeBMI(c.height, c.weight)
			assert.Equal(t, c.want, got)
			assert.Equal(t, got, ComputeBMI(c.height, c.weight), "recomputing must give the same value")
		})
	}
}

func TestDefaultFormPayload(t *testing.T) {
	form := DefaultForm()
	require.NoError(t, form.Validate())

	assert.Equal(t, ml.PredictionInput{
		Age:         50,
		Gender:      1,
		ApHi:        120,
		ApLo:        80,
		Cholesterol: 1,
		Gluc:        1,
		Smoke:       0,
		Alco:        0,
		Active:      0,
		BMI:         24.22,
	}, form.Payload())
}

func TestPayloadEncodesLabels(t *testing.T) {
	form := DefaultForm()
	form.Gender = "Female"
	form.Cholesterol = "Well Above Normal"
	form.Glucose = "Above Normal"
	form.Smoke = "Yes"
	form.Alcohol = "Yes"
	form.Active = "Yes"

	payload := form.Payload()
	assert.Equal(t, 2, payload.Gender)
	assert.Equal(t, 3, payload.Cholesterol)
	assert.Equal(t, 2, payload.Gluc)
	assert.Equal(t, 1, payload.Smoke)
	assert.Equal(t, 1, payload.Alco)
	assert.Equal(t, 1, payload.Active)
}

func TestValidateInvertedPressure(t *testing.T) {
	for _, apLo := range []float64{120, 130} {
		form := DefaultForm()
		form.ApHi = 120
		form.ApLo = apLo

		err := form.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvertedPressure))
	}
}

func TestValidateRanges(t *testing.T) {
	form := DefaultForm()
	form.Age = 0
	form.HeightCM = 300
	form.Gender = "Other"

	err := form.Validate()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvertedPressure))
	assert.Len(t, flatten(err), 3)
}

func TestParseForm(t *testing.T) {
	values := url.Values{
		"age":         {"63"},
		"gender":      {"Female"},
		"ap_hi":       {"150"},
		"ap_lo":       {"95"},
		"cholesterol": {"Above Normal"},
		"gluc":        {"Normal"},
		"smoke":       {"Yes"},
		"alco":        {"No"},
		"active":      {"Yes"},
		"height_cm":   {"160"},
		"weight_kg":   {"80"},
	}

	form, err := ParseForm(values)
	require.NoError(t, err)
	assert.Equal(t, 63.0, form.Age)
	assert.Equal(t, "Female", form.Gender)
	assert.Equal(t, "Above Normal", form.Cholesterol)
	assert.Equal(t, 31.25, form.Payload().BMI)

	_, err = ParseForm(url.Values{"age": {"old"}})
	assert.Error(t, err)
}
