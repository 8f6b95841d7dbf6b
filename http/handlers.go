package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cardiorisk/ml"
)

var errInvertedPressure = errors.New("diastolic pressure must be lower than systolic pressure")

// Handler answers the model endpoints from one immutable bundle.
type Handler struct {
	bundle   *ml.Bundle
	logger   *zap.Logger
	validate *validator.Validate

	strictBloodPressure bool
}

type HandlerOptions struct {
	// StrictBloodPressure rejects records with ap_lo >= ap_hi instead of
	// scoring them.
	StrictBloodPressure bool
}

func NewHandler(bundle *ml.Bundle, logger *zap.Logger, opts HandlerOptions) *Handler {
	if bundle == nil {
		bundle = ml.EmptyBundle()
	}
	return &Handler{
		bundle:              bundle,
		logger:              logger,
		validate:            validator.New(),
		strictBloodPressure: opts.StrictBloodPressure,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /predict", h.handlePredict)
	mux.HandleFunc("GET /metrics", h.handleMetrics)
}

type errorResponse struct {
	Error string `json:"error"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": h.bundle.StatusMessage()})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"model_loaded": h.bundle.Loaded(),
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bundle.Metrics)
}

// handlePredict reports prediction failures in the body with a 200 status.
// Only a body that is not a well-formed record gets an error status.
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, detailResponse{Detail: "request body too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: err.Error()})
		return
	}

	input := req.input()
	requestID := GetRequestID(r.Context())
	if input.ApLo >= input.ApHi && h.bundle.Loaded() {
		if h.strictBloodPressure {
			err := &ml.PredictionError{Cause: errInvertedPressure}
			writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Warn("scoring record with inverted blood pressure",
			zap.String("request_id", requestID),
			zap.Float64("ap_hi", input.ApHi),
			zap.Float64("ap_lo", input.ApLo))
	}

	prediction, err := h.bundle.Predict(input)
	if err != nil {
		h.logger.Error("prediction failed", zap.String("request_id", requestID), zap.Error(err))
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, prediction)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
