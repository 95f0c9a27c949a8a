package domain

// LoanPurpose is informational only; it is never fed to the model.
type LoanPurpose string

const (
	PurposeHome      LoanPurpose = "Home"
	PurposeEducation LoanPurpose = "Education"
	PurposePersonal  LoanPurpose = "Personal"
	PurposeAuto      LoanPurpose = "Auto"
	PurposeOther     LoanPurpose = "Other"
)

// LoanPurposes lists the accepted purposes in display order.
var LoanPurposes = []LoanPurpose{
	PurposeHome,
	PurposeEducation,
	PurposePersonal,
	PurposeAuto,
	PurposeOther,
}

// BorrowerProfile holds the raw attributes collected for a single borrower.
//
// RevolvingUtilization is a raw ratio that may exceed 1.0 (the collection
// bounds allow up to 10.0), not a percentage.
type BorrowerProfile struct {
	Age                     int         `json:"age"`
	MonthlyIncome           float64     `json:"monthly_income"`
	NumberOfDependents      int         `json:"number_of_dependents"`
	RevolvingUtilization    float64     `json:"revolving_utilization"`
	DebtRatio               float64     `json:"debt_ratio"`
	OpenCreditLinesAndLoans int         `json:"open_credit_lines_and_loans"`
	Times90DaysLate         int         `json:"times_90_days_late"`
	Times30To59DaysPastDue  int         `json:"times_30_to_59_days_past_due"`
	Times60To89DaysPastDue  int         `json:"times_60_to_89_days_past_due"`
	RealEstateLoansOrLines  int         `json:"real_estate_loans_or_lines"`
	LoanPurpose             LoanPurpose `json:"loan_purpose,omitempty"`
}

// DefaultProfile is the profile the form is pre-filled with.
func DefaultProfile() BorrowerProfile {
	return BorrowerProfile{
		Age:                     32,
		MonthlyIncome:           4500,
		NumberOfDependents:      1,
		RevolvingUtilization:    0.45,
		DebtRatio:               0.8,
		OpenCreditLinesAndLoans: 5,
		RealEstateLoansOrLines:  1,
		LoanPurpose:             PurposeHome,
	}
}
