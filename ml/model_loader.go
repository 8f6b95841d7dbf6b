package ml

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	ModelTypeLogisticRegression = "logistic_regression"
	ModelTypeDecisionTree       = "decision_tree"
	ModelTypeRandomForest       = "random_forest"
)

type bundleFile struct {
	Model         json.RawMessage        `json:"model"`
	Accuracy      interface{}            `json:"accuracy"`
	TrainAccuracy interface{}            `json:"train_accuracy"`
	TestAccuracy  interface{}            `json:"test_accuracy"`
	Precision     interface{}            `json:"precision"`
	Recall        interface{}            `json:"recall"`
	F1Score       interface{}            `json:"f1_score"`
	BestParams    map[string]interface{} `json:"best_params"`
}

type validatingClassifier interface {
	Classifier
	Validate() error
}

// LoadBundle reads a bundle artifact from path.
func LoadBundle(path string) (*Bundle, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model bundle %s", path)
	}
	bundle, err := DecodeBundle(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "decode model bundle %s", path)
	}
	return bundle, nil
}

// LoadBundleOrEmpty never fails: a bundle that cannot be loaded is logged
// and replaced by an empty one so the service stays reachable.
func LoadBundleOrEmpty(path string, logger *zap.Logger) *Bundle {
	bundle, err := LoadBundle(path)
	if err != nil {
		logger.Error("failed to load model bundle, prediction is unavailable",
			zap.String("path", path), zap.Error(err))
		return EmptyBundle()
	}
	logger.Info("model bundle loaded",
		zap.String("path", path),
		zap.Bool("classifier", bundle.Loaded()),
		zap.Any("accuracy", bundle.Metrics.Accuracy))
	return bundle
}

// DecodeBundle parses the JSON bundle document. A missing or null "model"
// yields a bundle with metrics but no classifier.
func DecodeBundle(payload []byte) (*Bundle, error) {
	var file bundleFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, err
	}

	metrics := Metrics{BestParams: file.BestParams}
	fields := []struct {
		name  string
		value interface{}
		dst   **float64
	}{
		{"accuracy", file.Accuracy, &metrics.Accuracy},
		{"train_accuracy", file.TrainAccuracy, &metrics.TrainAccuracy},
		{"test_accuracy", file.TestAccuracy, &metrics.TestAccuracy},
		{"precision", file.Precision, &metrics.Precision},
		{"recall", file.Recall, &metrics.Recall},
		{"f1_score", file.F1Score, &metrics.F1Score},
	}
	for _, f := range fields {
		v, err := toMetric(f.value)
		if err != nil {
			return nil, errors.Wrapf(err, "metric %s", f.name)
		}
		*f.dst = v
	}

	bundle := &Bundle{Metrics: metrics}
	if len(file.Model) == 0 || string(file.Model) == "null" {
		return bundle, nil
	}
	classifier, err := LoadModel(file.Model)
	if err != nil {
		return nil, err
	}
	bundle.Classifier = classifier
	return bundle, nil
}

// LoadModel builds a classifier from its JSON description, selected by the
// "type" key.
func LoadModel(raw json.RawMessage) (Classifier, error) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, errors.Wrap(err, "model header")
	}

	var model validatingClassifier
	switch header.Type {
	case ModelTypeLogisticRegression:
		model = &LogisticRegression{}
	case ModelTypeDecisionTree:
		model = &DecisionTree{}
	case ModelTypeRandomForest:
		model = &RandomForest{}
	default:
		return nil, errors.Errorf("unsupported model type %q", header.Type)
	}
	if err := json.Unmarshal(raw, model); err != nil {
		return nil, errors.Wrapf(err, "decode %s", header.Type)
	}
	if err := model.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", header.Type)
	}
	return model, nil
}

func toMetric(value interface{}) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
