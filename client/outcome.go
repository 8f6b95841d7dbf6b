package client

import (
	"context"
	"errors"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cardiorisk/ml"
)

type Style string

const (
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
)

const (
	BackendErrorMessage    = "Backend error. Please try again later."
	ConnectionErrorMessage = "Unable to connect to backend API."
)

var printer = message.NewPrinter(language.English)

// Outcome is a prediction ready to show to the operator.
type Outcome struct {
	Probability string
	Level       ml.RiskLevel
	Style       Style
	Message     string
}

func NewOutcome(pred ml.Prediction) Outcome {
	outcome := Outcome{
		Probability: printer.Sprintf("%.2f%%", pred.RiskProbability),
		Level:       pred.RiskLevel,
	}
	switch pred.RiskLevel {
	case ml.RiskLow:
		outcome.Style = StyleSuccess
		outcome.Message = "Low risk of cardiovascular disease"
	case ml.RiskModerate:
		outcome.Style = StyleWarning
		outcome.Message = "Moderate risk of cardiovascular disease"
	default:
		outcome.Style = StyleError
		outcome.Message = "High risk of cardiovascular disease"
	}
	return outcome
}

type Predictor interface {
	Predict(ctx context.Context, input ml.PredictionInput) (*ml.Prediction, error)
}

// Result is what one submission produces: either an outcome or an alert.
type Result struct {
	Outcome *Outcome
	Alert   string
	Errors  []string
}

// Submit validates the form and, only if it is valid, asks the service for
// a prediction.
func Submit(ctx context.Context, api Predictor, form Form) Result {
	if err := form.Validate(); err != nil {
		result := Result{Alert: "Please correct the highlighted values."}
		if errors.Is(err, ErrInvertedPressure) {
			result.Alert = ErrInvertedPressure.Error()
		}
		result.Errors = flatten(err)
		return result
	}

	pred, err := api.Predict(ctx, form.Payload())
	switch {
	case errors.Is(err, ErrConnection):
		return Result{Alert: ConnectionErrorMessage}
	case err != nil:
		return Result{Alert: BackendErrorMessage}
	}
	outcome := NewOutcome(*pred)
	return Result{Outcome: &outcome}
}

func flatten(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
