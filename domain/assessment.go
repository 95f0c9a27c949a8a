package domain

type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingModerate  Rating = "Moderate"
	RatingPoor      Rating = "Poor"
)

type RiskLabel string

const (
	RiskLow    RiskLabel = "Low"
	RiskMedium RiskLabel = "Medium"
	RiskHigh   RiskLabel = "High"
)

// DisplayName renders the label the way the form shows it, e.g. "Low Risk".
func (l RiskLabel) DisplayName() string {
	return string(l) + " Risk"
}

// RiskAssessment is the classifier output for one default probability.
type RiskAssessment struct {
	Probability         float64   `json:"probability"`
	CreditScoreEstimate int       `json:"credit_score_estimate"`
	Rating              Rating    `json:"rating"`
	RiskLabel           RiskLabel `json:"risk_label"`
	AdvisoryMessage     string    `json:"advisory_message"`
}

// Evaluation bundles everything produced for a single scoring request.
type Evaluation struct {
	RequestID   string         `json:"request_id"`
	Purpose     LoanPurpose    `json:"loan_purpose,omitempty"`
	Features    FeatureVector  `json:"features"`
	Assessment  RiskAssessment `json:"assessment"`
	Explanation string         `json:"explanation,omitempty"`
}
