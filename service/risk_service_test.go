package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk/domain"
	"credit-risk/metrics"
	"credit-risk/repository"
	"credit-risk/scoring"
)

type MockCache struct {
	Data     map[string]float32
	SetCalls int
	ForceErr bool
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string]float32)}
}

func (m *MockCache) Get(_ context.Context, key string) (float32, bool) {
	p, ok := m.Data[key]
	return p, ok
}

func (m *MockCache) Set(_ context.Context, key string, probability float32) error {
	m.SetCalls++
	if m.ForceErr {
		return errors.New("cache down")
	}
	m.Data[key] = probability
	return nil
}

func newTestService(scorer scoring.Scorer, cache repository.ProbabilityCache) *RiskService {
	return NewRiskService(
		scorer,
		cache,
		NewAdvisorService(AdvisorConfig{}),
		metrics.New(prometheus.NewRegistry()),
	)
}

func TestEvaluate_DefaultBorrower(t *testing.T) {
	stub := scoring.NewStub(0.25)
	service := newTestService(stub, nil)

	ctx := WithRequestID(context.Background(), "req-1")
	eval, err := service.Evaluate(ctx, domain.DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, "req-1", eval.RequestID)
	assert.Equal(t, domain.PurposeHome, eval.Purpose)
	assert.Equal(t, domain.RatingExcellent, eval.Assessment.Rating)
	assert.Equal(t, domain.RiskLow, eval.Assessment.RiskLabel)
	assert.Equal(t, 750, eval.Assessment.CreditScoreEstimate)
	assert.Equal(t, 0.25, eval.Assessment.Probability)
	assert.Equal(t, 1, eval.Features.HasRealEstate)
	assert.Equal(t, 32, eval.Features.AgeDelinquencyInteraction)
	assert.Contains(t, eval.Explanation, "Strong borrower profile")
	assert.Equal(t, 1, stub.Calls())
}

func TestEvaluate_GeneratesRequestID(t *testing.T) {
	service := newTestService(scoring.NewStub(0.5), nil)

	eval, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	require.NoError(t, err)
	assert.Len(t, eval.RequestID, 36)
}

func TestEvaluate_InvalidProfile(t *testing.T) {
	stub := scoring.NewStub(0.25)
	service := newTestService(stub, nil)

	profile := domain.DefaultProfile()
	profile.Age = -1

	_, err := service.Evaluate(context.Background(), profile)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.Equal(t, 0, stub.Calls(), "scorer should NOT be called")
}

func TestEvaluate_ScoringUnavailable(t *testing.T) {
	modelErr := errors.New("model offline")
	stub := &scoring.Stub{Err: modelErr}
	service := newTestService(stub, nil)

	_, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	assert.ErrorIs(t, err, ErrScoringUnavailable)
	assert.ErrorIs(t, err, modelErr)
}

func TestEvaluate_ProbabilityOutOfRange(t *testing.T) {
	cache := NewMockCache()
	service := newTestService(scoring.NewStub(1.5), cache)

	_, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	assert.ErrorIs(t, err, ErrProbabilityOutOfRange)
	assert.Equal(t, 0, cache.SetCalls, "invalid probabilities must not be cached")
}

func TestEvaluate_UsesCache(t *testing.T) {
	stub := scoring.NewStub(0.7)
	cache := NewMockCache()
	service := newTestService(stub, cache)

	first, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	require.NoError(t, err)
	second, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.Calls())
	assert.Equal(t, 1, cache.SetCalls)
	assert.Equal(t, first.Assessment, second.Assessment)
	assert.Equal(t, domain.RatingPoor, second.Assessment.Rating)
}

func TestEvaluate_CacheFailureIsNotFatal(t *testing.T) {
	cache := NewMockCache()
	cache.ForceErr = true
	service := newTestService(scoring.NewStub(0.4), cache)

	eval, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	require.NoError(t, err)
	assert.Equal(t, domain.RatingModerate, eval.Assessment.Rating)
}

func TestEvaluate_WithoutOptionalCollaborators(t *testing.T) {
	service := NewRiskService(scoring.NewStub(0.1), nil, nil, nil)

	eval, err := service.Evaluate(context.Background(), domain.DefaultProfile())
	require.NoError(t, err)
	assert.Empty(t, eval.Explanation)
	assert.Equal(t, scoring.Format("stub"), service.Model().Format)
}
