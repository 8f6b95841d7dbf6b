package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardiorisk/ml"
)

const (
	BaseURLEnv     = "CARDIO_API_URL"
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrBackend    = errors.New("backend error")
	ErrConnection = errors.New("connection error")
)

// BaseURLFromEnv returns the service URL configured for this process.
func BaseURLFromEnv() string {
	if value := os.Getenv(BaseURLEnv); value != "" {
		return value
	}
	return DefaultBaseURL
}

// APIClient talks to the model service. It never retries.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *APIClient {
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/predict")
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

type predictResponse struct {
	RiskProbability *float64     `json:"risk_probability"`
	RiskLevel       ml.RiskLevel `json:"risk_level"`
	Error           string       `json:"error"`
}

// Predict sends one record. Transport faults wrap ErrConnection; a non-200
// status, an in-body error or an unreadable answer wrap ErrBackend.
func (c *APIClient) Predict(ctx context.Context, input ml.PredictionInput) (*ml.Prediction, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var resp predictResponse
	if err := c.do(ctx, http.MethodPost, "/predict", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrBackend, resp.Error)
	}
	if resp.RiskProbability == nil {
		return nil, fmt.Errorf("%w: response has no risk_probability", ErrBackend)
	}
	switch resp.RiskLevel {
	case ml.RiskLow, ml.RiskModerate, ml.RiskHigh:
	default:
		return nil, fmt.Errorf("%w: unknown risk level %q", ErrBackend, resp.RiskLevel)
	}
	return &ml.Prediction{RiskProbability: *resp.RiskProbability, RiskLevel: resp.RiskLevel}, nil
}

func (c *APIClient) Status(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *APIClient) Metrics(ctx context.Context) (*ml.Metrics, error) {
	var metrics ml.Metrics
	if err := c.do(ctx, http.MethodGet, "/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("model service unreachable", zap.String("url", req.URL.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("model service returned non-success status",
			zap.String("url", req.URL.String()), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrBackend, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrBackend, err)
	}
	return nil
}
