package service

import (
	"fmt"
	"math"

	"credit-risk/domain"
)

type bound struct {
	field    string
	value    float64
	min, max float64
}

// ValidateProfile enforces the collection bounds of every raw attribute.
// The feature deriver itself assumes validated input.
func ValidateProfile(p domain.BorrowerProfile) error {
	bounds := []bound{
		{"age", float64(p.Age), MinAge, MaxAge},
		{"monthly_income", p.MonthlyIncome, 0, MaxMonthlyIncome},
		{"number_of_dependents", float64(p.NumberOfDependents), 0, MaxDependents},
		{"revolving_utilization", p.RevolvingUtilization, 0, MaxRevolvingUtilization},
		{"debt_ratio", p.DebtRatio, 0, MaxDebtRatio},
		{"open_credit_lines_and_loans", float64(p.OpenCreditLinesAndLoans), 0, MaxOpenCreditLines},
		{"times_90_days_late", float64(p.Times90DaysLate), 0, MaxLatePaymentCount},
		{"times_30_to_59_days_past_due", float64(p.Times30To59DaysPastDue), 0, MaxLatePaymentCount},
		{"times_60_to_89_days_past_due", float64(p.Times60To89DaysPastDue), 0, MaxLatePaymentCount},
		{"real_estate_loans_or_lines", float64(p.RealEstateLoansOrLines), 0, MaxRealEstateLoans},
	}

	for _, b := range bounds {
		if math.IsNaN(b.value) || math.IsInf(b.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidProfile, b.field)
		}
		if b.value < b.min || b.value > b.max {
			return fmt.Errorf("%w: %s must be between %g and %g, got %g",
				ErrInvalidProfile, b.field, b.min, b.max, b.value)
		}
	}

	if p.LoanPurpose != "" && !validPurpose(p.LoanPurpose) {
		return fmt.Errorf("%w: unknown loan_purpose %q", ErrInvalidProfile, p.LoanPurpose)
	}
	return nil
}

func validPurpose(purpose domain.LoanPurpose) bool {
	for _, p := range domain.LoanPurposes {
		if p == purpose {
			return true
		}
	}
	return false
}
