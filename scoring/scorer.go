// Package scoring loads pre-trained default-probability models and scores
// feature vectors with them. A loaded model is read-only and safe for
// concurrent use.
package scoring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"

	"credit-risk/domain"
)

// Format names a model artifact encoding.
type Format string

const (
	FormatXGBoostJSON  Format = "xgboost-json"
	FormatLogisticJSON Format = "logistic-json"
)

var (
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrModelSchema      = errors.New("model does not match feature schema")
)

// Scorer turns a feature vector into a probability of default in [0,1].
type Scorer interface {
	Score(ctx context.Context, features domain.FeatureVector) (float32, error)
	Info() ModelInfo
}

// ModelInfo describes a loaded model.
type ModelInfo struct {
	Format    Format   `json:"format"`
	Version   string   `json:"version"`
	Objective string   `json:"objective,omitempty"`
	Trees     int      `json:"trees,omitempty"`
	Features  []string `json:"features"`
}

// Load reads the artifact at path once and returns the matching scorer.
func Load(format Format, path string) (Scorer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open model '%s': %w", path, err)
	}
	defer f.Close()

	return Read(format, f)
}

// Read decodes a model artifact from r.
func Read(format Format, r io.Reader) (Scorer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read model: %w", err)
	}
	version := fmt.Sprintf("%016x", xxhash.Sum64(raw))

	switch format {
	case FormatXGBoostJSON:
		return readXGBoost(bytes.NewReader(raw), version)
	case FormatLogisticJSON:
		return readLogistic(bytes.NewReader(raw), version)
	default:
		return nil, fmt.Errorf("%w: format %q", ErrUnsupportedModel, format)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// columnsFor maps model columns onto schema positions. An empty names list
// means the model expects the schema order.
func columnsFor(names []string) ([]int, error) {
	if len(names) == 0 {
		columns := make([]int, len(domain.FeatureNames))
		for i := range columns {
			columns[i] = i
		}
		return columns, nil
	}
	if len(names) != len(domain.FeatureNames) {
		return nil, fmt.Errorf("%w: expected %d features, got %d",
			ErrModelSchema, len(domain.FeatureNames), len(names))
	}
	columns := make([]int, len(names))
	for i, name := range names {
		idx := domain.FeatureIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrModelSchema, name)
		}
		columns[i] = idx
	}
	return columns, nil
}
