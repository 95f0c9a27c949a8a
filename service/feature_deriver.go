package service

import "credit-risk/domain"

// DeriveFeatures extends a profile with the model's derived attributes. It is
// total for every non-negative input.
func DeriveFeatures(p domain.BorrowerProfile) domain.FeatureVector {
	hasRealEstate := 0
	if p.RealEstateLoansOrLines > 0 {
		hasRealEstate = 1
	}

	return domain.FeatureVector{
		Profile:                   p,
		TotalPastDue:              p.Times30To59DaysPastDue + p.Times90DaysLate + p.Times60To89DaysPastDue,
		DebtToIncome:              p.DebtRatio / (p.MonthlyIncome + incomeEpsilon),
		UtilizationPerCreditLine:  p.RevolvingUtilization / float64(p.OpenCreditLinesAndLoans+1),
		CreditLinesPerDependent:   float64(p.OpenCreditLinesAndLoans+1) / float64(p.NumberOfDependents+1),
		HasRealEstate:             hasRealEstate,
		AgeDelinquencyInteraction: p.Age * (p.Times90DaysLate + 1),
	}
}
