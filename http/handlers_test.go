package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cardiorisk/ml"
)

func newTestMux(bundle *ml.Bundle, opts HandlerOptions) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(bundle, zap.NewNop(), opts).Register(mux)
	return mux
}

func float(v float64) *float64 {
	return &v
}

func fullBundle() *ml.Bundle {
	return &ml.Bundle{
		Classifier: &fakeModel{p: 0.3},
		Metrics: ml.Metrics{
			Accuracy:      float(0.7312),
			TrainAccuracy: float(0.7421),
			TestAccuracy:  float(0.7312),
			Precision:     float(0.7544),
			Recall:        float(0.6893),
			F1Score:       float(0.7204),
			BestParams:    map[string]interface{}{"max_depth": 6},
		},
	}
}

func TestRootHandler(t *testing.T) {
	cases := []struct {
		name   string
		bundle *ml.Bundle
		want   string
	}{
		{"no accuracy", ml.EmptyBundle(), "Cardio API running. Model accuracy: N/A"},
		{"nil bundle", nil, "Cardio API running. Model accuracy: N/A"},
		{"with accuracy", fullBundle(), "Cardio API running. Model accuracy: 73.12%"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()
			newTestMux(c.bundle, HandlerOptions{}).ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
			}
			var payload map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if payload["message"] != c.want {
				t.Errorf("unexpected message: got %q want %q", payload["message"], c.want)
			}
		})
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rr := httptest.NewRecorder()
	newTestMux(ml.EmptyBundle(), HandlerOptions{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMetricsHandler(t *testing.T) {
	keys := []string{"train_accuracy", "test_accuracy", "precision", "recall", "f1_score", "best_params"}

	t.Run("populated", func(t *testing.T) {
		payload := getMetrics(t, fullBundle())
		if len(payload) != len(keys) {
			t.Fatalf("expected %d keys, got %v", len(keys), payload)
		}
		for _, key := range keys {
			if payload[key] == nil {
				t.Errorf("expected %s to be non-null", key)
			}
		}
		if _, ok := payload["accuracy"]; ok {
			t.Errorf("accuracy is reported by the root endpoint only")
		}
	})

	t.Run("empty", func(t *testing.T) {
		payload := getMetrics(t, ml.EmptyBundle())
		for _, key := range keys {
			value, ok := payload[key]
			if !ok {
				t.Errorf("expected key %s to be present", key)
			}
			if value != nil {
				t.Errorf("expected %s to be null, got %v", key, value)
			}
		}
	})
}

func getMetrics(t *testing.T, bundle *ml.Bundle) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	newTestMux(bundle, HandlerOptions{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return payload
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	newTestMux(ml.EmptyBundle(), HandlerOptions{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	expected := `{"model_loaded":false,"status":"ok"}`
	if strings.TrimSpace(rr.Body.String()) != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}
