package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"credit-risk/domain"
	"credit-risk/metrics"
	"credit-risk/repository"
	"credit-risk/scoring"
)

type RiskService struct {
	scorer  scoring.Scorer
	cache   repository.ProbabilityCache
	advisor *AdvisorService
	metrics *metrics.Metrics
}

// NewRiskService wires the scoring pipeline. cache, advisor and m may be nil.
func NewRiskService(
	scorer scoring.Scorer,
	cache repository.ProbabilityCache,
	advisor *AdvisorService,
	m *metrics.Metrics,
) *RiskService {
	return &RiskService{
		scorer:  scorer,
		cache:   cache,
		advisor: advisor,
		metrics: m,
	}
}

// Model describes the scorer in use.
func (s *RiskService) Model() scoring.ModelInfo {
	return s.scorer.Info()
}

// Evaluate validates the profile, scores it and classifies the result. Any
// failure aborts the whole evaluation.
func (s *RiskService) Evaluate(
	ctx context.Context,
	profile domain.BorrowerProfile,
) (domain.Evaluation, error) {

	requestID := RequestID(ctx)

	if err := ValidateProfile(profile); err != nil {
		s.metrics.Failed("invalid_profile")
		return domain.Evaluation{}, err
	}

	features := DeriveFeatures(profile)
	key := repository.FeatureKey(s.scorer.Info().Version, features)

	probability, cached, err := s.score(ctx, key, features)
	if err != nil {
		s.metrics.Failed("scoring")
		return domain.Evaluation{}, err
	}

	assessment, err := Classify(float64(probability))
	if err != nil {
		s.metrics.Failed("classification")
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("model_version", s.scorer.Info().Version).
			Msg("model returned an invalid probability")
		return domain.Evaluation{}, err
	}

	// Caching is not critical.
	if s.cache != nil && !cached {
		if err := s.cache.Set(ctx, key, probability); err != nil {
			log.Warn().Err(err).Str("request_id", requestID).Msg("failed to cache probability")
		}
	}

	s.metrics.Evaluated(string(assessment.Rating), assessment.Probability)

	eval := domain.Evaluation{
		RequestID:  requestID,
		Purpose:    profile.LoanPurpose,
		Features:   features,
		Assessment: assessment,
	}
	if s.advisor != nil {
		eval.Explanation = s.advisor.Explain(ctx, eval)
	}

	log.Debug().
		Str("request_id", requestID).
		Float64("probability", assessment.Probability).
		Int("credit_score", assessment.CreditScoreEstimate).
		Str("rating", string(assessment.Rating)).
		Bool("cached", cached).
		Msg("evaluated borrower")

	return eval, nil
}

func (s *RiskService) score(
	ctx context.Context,
	key string,
	features domain.FeatureVector,
) (float32, bool, error) {
	if s.cache != nil {
		p, ok := s.cache.Get(ctx, key)
		s.metrics.CacheLookup(ok)
		if ok {
			return p, true, nil
		}
	}

	p, err := s.scorer.Score(ctx, features)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrScoringUnavailable, err)
	}
	return p, false, nil
}
