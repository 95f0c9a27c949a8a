package service

const (
	MinAge                  = 18
	MaxAge                  = 100
	MaxMonthlyIncome        = 100_000.0
	MaxDependents           = 10
	MaxRevolvingUtilization = 10.0 // ratio, may exceed 1.0
	MaxDebtRatio            = 10.0
	MaxOpenCreditLines      = 50
	MaxLatePaymentCount     = 100 // per delinquency bucket
	MaxRealEstateLoans      = 20

	// incomeEpsilon keeps DebtToIncome finite at zero income.
	incomeEpsilon = 1e-6

	// Probability cut-offs; each boundary belongs to the riskier bucket.
	ModerateRiskThreshold = 0.30
	HighRiskThreshold     = 0.60

	MaxCreditScore  = 900
	CreditScoreSpan = 600 // MaxCreditScore - lowest score
)
