package client

import (
	"errors"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Chart struct {
	Name    string
	Caption string
}

// PerformanceCharts are the pre-rendered training charts shown below the form.
var PerformanceCharts = []Chart{
	{Name: "confusion_matrix.png", Caption: "Confusion Matrix"},
	{Name: "metrics_bar.png", Caption: "Performance Metrics"},
	{Name: "roc_curve.png", Caption: "ROC Curve"},
}

var ErrUnknownAsset = errors.New("unknown asset")

// AssetStore serves the chart images from a directory, keeping recently used
// files in memory.
type AssetStore struct {
	dir   string
	cache *lru.Cache[string, []byte]
}

func NewAssetStore(dir string, size int) (*AssetStore, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &AssetStore{dir: dir, cache: cache}, nil
}

// Get only serves names listed in PerformanceCharts.
func (s *AssetStore) Get(name string) ([]byte, error) {
	if !knownChart(name) {
		return nil, ErrUnknownAsset
	}
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	s.cache.Add(name, data)
	return data, nil
}

func knownChart(name string) bool {
	for _, chart := range PerformanceCharts {
		if chart.Name == name {
			return true
		}
	}
	return false
}
