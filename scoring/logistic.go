package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"

	"credit-risk/domain"
)

// Logistic is a linear model over the named feature schema.
type Logistic struct {
	info      ModelInfo
	intercept float64
	weights   []float64
}

type logisticDocument struct {
	Version   string             `json:"version"`
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

func readLogistic(r io.Reader, digest string) (*Logistic, error) {
	var doc logisticDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode logistic model: %w", err)
	}
	if len(doc.Weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrModelSchema)
	}

	weights := make([]float64, len(domain.FeatureNames))
	for name, w := range doc.Weights {
		idx := domain.FeatureIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrModelSchema, name)
		}
		weights[idx] = w
	}

	version := doc.Version
	if version == "" {
		version = digest
	}
	return &Logistic{
		info: ModelInfo{
			Format:    FormatLogisticJSON,
			Version:   version,
			Objective: "binary:logistic",
			Features:  domain.FeatureNames,
		},
		intercept: doc.Intercept,
		weights:   weights,
	}, nil
}

// Score implements Scorer.
func (m *Logistic) Score(_ context.Context, features domain.FeatureVector) (float32, error) {
	z := m.intercept + floats.Dot(m.weights, features.Values())
	return float32(sigmoid(z)), nil
}

// Info implements Scorer.
func (m *Logistic) Info() ModelInfo {
	return m.info
}
