package scoring

import (
	"context"
	"sync/atomic"

	"credit-risk/domain"
)

// Stub returns a fixed probability, or Err when set.
type Stub struct {
	Probability float32
	Err         error

	calls atomic.Int64
}

func NewStub(probability float32) *Stub {
	return &Stub{Probability: probability}
}

// Score implements Scorer.
func (s *Stub) Score(_ context.Context, _ domain.FeatureVector) (float32, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Probability, nil
}

// Info implements Scorer.
func (s *Stub) Info() ModelInfo {
	return ModelInfo{Format: "stub", Version: "stub", Features: domain.FeatureNames}
}

// Calls reports how many times Score ran.
func (s *Stub) Calls() int {
	return int(s.calls.Load())
}
