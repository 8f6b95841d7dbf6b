package ml

import (
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLoadBundle(t *testing.T) {
	bundle, err := LoadBundle(filepath.Join("testdata", "model.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bundle.Loaded() {
		t.Fatal("expected a classifier")
	}

	m := bundle.Metrics
	for name, v := range map[string]*float64{
		"accuracy":       m.Accuracy,
		"train_accuracy": m.TrainAccuracy,
		"test_accuracy":  m.TestAccuracy,
		"precision":      m.Precision,
		"recall":         m.Recall,
		"f1_score":       m.F1Score,
	} {
		if v == nil {
			t.Fatalf("metric %s missing", name)
		}
	}
	if math.Abs(*m.Accuracy-0.7312) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", *m.Accuracy)
	}
	if m.BestParams["max_depth"] != float64(6) {
		t.Fatalf("unexpected best_params %v", m.BestParams)
	}

	pred, err := bundle.Predict(PredictionInput{Age: 50, ApHi: 140, ApLo: 90})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if pred.RiskLevel != RiskModerate || pred.RiskProbability != 55.0 {
		t.Fatalf("unexpected prediction %+v", pred)
	}

	pred, err = bundle.Predict(PredictionInput{Age: 60, ApHi: 140, ApLo: 90})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if pred.RiskLevel != RiskHigh {
		t.Fatalf("expected High, got %+v", pred)
	}
}

func TestLoadBundleMetricsOnly(t *testing.T) {
	bundle, err := LoadBundle(filepath.Join("testdata", "metrics_only.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if bundle.Loaded() {
		t.Fatal("metrics-only bundle must not have a classifier")
	}
	if bundle.Metrics.Accuracy == nil || math.Abs(*bundle.Metrics.Accuracy-0.70) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", bundle.Metrics.Accuracy)
	}
	if bundle.Metrics.TestAccuracy != nil || bundle.Metrics.Precision != nil {
		t.Fatalf("absent metrics must stay nil: %+v", bundle.Metrics)
	}
	if bundle.Metrics.BestParams != nil {
		t.Fatalf("unexpected best_params %v", bundle.Metrics.BestParams)
	}
}

func TestLoadBundleFailures(t *testing.T) {
	for _, name := range []string{"missing.json", "corrupt.json", "unknown_model.json"} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadBundle(filepath.Join("testdata", name)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadBundleOrEmpty(t *testing.T) {
	bundle := LoadBundleOrEmpty(filepath.Join("testdata", "missing.json"), zap.NewNop())
	if bundle == nil {
		t.Fatal("expected an empty bundle, got nil")
	}
	if bundle.Loaded() {
		t.Fatal("empty bundle must not have a classifier")
	}
	if !reflect.DeepEqual(bundle.Metrics, Metrics{}) {
		t.Fatalf("expected zero metrics, got %+v", bundle.Metrics)
	}
	if !strings.Contains(bundle.StatusMessage(), "N/A") {
		t.Fatalf("unexpected status %q", bundle.StatusMessage())
	}
}

func TestDecodeBundleRejectsBadMetric(t *testing.T) {
	if _, err := DecodeBundle([]byte(`{"precision": "high"}`)); err == nil {
		t.Fatal("expected an error for a non-numeric metric")
	}
}

func TestLoadModelInvalidStructure(t *testing.T) {
	if _, err := LoadModel([]byte(`{"type": "logistic_regression", "coefficients": [1, 2]}`)); err == nil {
		t.Fatal("expected an error for short coefficients")
	}

	model, err := LoadModel([]byte(`{"type": "logistic_regression", "coefficients": [0,0,0,0,0,0,0,0,0,0], "intercept": 0}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := model.PredictProba(make([]float64, FeatureCount))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if p != 0.5 {
		t.Fatalf("expected 0.5, got %v", p)
	}
}
