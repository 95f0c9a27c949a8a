package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"credit-risk/domain"
)

type riskBand struct {
	below   float64
	rating  domain.Rating
	label   domain.RiskLabel
	message string
}

// riskBands are checked in order; the first band with p < below wins.
var riskBands = []riskBand{
	{
		below:   ModerateRiskThreshold,
		rating:  domain.RatingExcellent,
		label:   domain.RiskLow,
		message: "Strong borrower profile — safe to approve.",
	},
	{
		below:   HighRiskThreshold,
		rating:  domain.RatingModerate,
		label:   domain.RiskMedium,
		message: "Caution advised — verify credit reports or collateral.",
	},
	{
		below:   math.Inf(1),
		rating:  domain.RatingPoor,
		label:   domain.RiskHigh,
		message: "High probability of default — loan not recommended.",
	},
}

// Classify maps a default probability to a rating and a score estimate.
// Probabilities outside [0,1] are rejected, never clamped.
func Classify(p float64) (domain.RiskAssessment, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return domain.RiskAssessment{}, fmt.Errorf("%w: %v", ErrProbabilityOutOfRange, p)
	}

	band := riskBands[len(riskBands)-1]
	for _, b := range riskBands {
		if p < b.below {
			band = b
			break
		}
	}

	return domain.RiskAssessment{
		Probability:         p,
		CreditScoreEstimate: CreditScore(p),
		Rating:              band.rating,
		RiskLabel:           band.label,
		AdvisoryMessage:     band.message,
	}, nil
}

// CreditScore returns round(900 - p*600), rounding half away from zero.
func CreditScore(p float64) int {
	penalty := decimal.NewFromFloat(p).Mul(decimal.NewFromInt(CreditScoreSpan))
	score := decimal.NewFromInt(MaxCreditScore).Sub(penalty).Round(0)
	return int(score.IntPart())
}

// FormatProbability renders p as a percentage with two decimals, e.g. "25.00%".
func FormatProbability(p float64) string {
	return decimal.NewFromFloat(p).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
