package domain

import "encoding/json"

// Feature names as the scoring model knows them.
const (
	FeatureRevolvingUtilization      = "RevolvingUtilizationOfUnsecuredLines"
	FeatureAge                       = "age"
	FeatureTimes30To59DaysPastDue    = "NumberOfTime30-59DaysPastDueNotWorse"
	FeatureDebtRatio                 = "DebtRatio"
	FeatureMonthlyIncome             = "MonthlyIncome"
	FeatureOpenCreditLinesAndLoans   = "NumberOfOpenCreditLinesAndLoans"
	FeatureTimes90DaysLate           = "NumberOfTimes90DaysLate"
	FeatureRealEstateLoansOrLines    = "NumberRealEstateLoansOrLines"
	FeatureTimes60To89DaysPastDue    = "NumberOfTime60-89DaysPastDueNotWorse"
	FeatureNumberOfDependents        = "NumberOfDependents"
	FeatureTotalPastDue              = "TotalPastDue"
	FeatureDebtToIncome              = "DebtToIncome"
	FeatureUtilizationPerCreditLine  = "UtilizationPerCreditLine"
	FeatureCreditLinesPerDependent   = "CreditLinesPerDependent"
	FeatureHasRealEstate             = "HasRealEstate"
	FeatureAgeDelinquencyInteraction = "Age_Delinquency_Interaction"
)

// FeatureNames is the model schema in training column order.
var FeatureNames = []string{
	FeatureRevolvingUtilization,
	FeatureAge,
	FeatureTimes30To59DaysPastDue,
	FeatureDebtRatio,
	FeatureMonthlyIncome,
	FeatureOpenCreditLinesAndLoans,
	FeatureTimes90DaysLate,
	FeatureRealEstateLoansOrLines,
	FeatureTimes60To89DaysPastDue,
	FeatureNumberOfDependents,
	FeatureTotalPastDue,
	FeatureDebtToIncome,
	FeatureUtilizationPerCreditLine,
	FeatureCreditLinesPerDependent,
	FeatureHasRealEstate,
	FeatureAgeDelinquencyInteraction,
}

// FeatureIndex returns the schema position of name, or -1.
func FeatureIndex(name string) int {
	for i, n := range FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Feature is a single named model input.
type Feature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// FeatureVector is a borrower profile extended with the derived attributes.
// It is a value type; copies never alias.
type FeatureVector struct {
	Profile                   BorrowerProfile
	TotalPastDue              int
	DebtToIncome              float64
	UtilizationPerCreditLine  float64
	CreditLinesPerDependent   float64
	HasRealEstate             int
	AgeDelinquencyInteraction int
}

// Values returns the features positionally, in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	p := v.Profile
	return []float64{
		p.RevolvingUtilization,
		float64(p.Age),
		float64(p.Times30To59DaysPastDue),
		p.DebtRatio,
		p.MonthlyIncome,
		float64(p.OpenCreditLinesAndLoans),
		float64(p.Times90DaysLate),
		float64(p.RealEstateLoansOrLines),
		float64(p.Times60To89DaysPastDue),
		float64(p.NumberOfDependents),
		float64(v.TotalPastDue),
		v.DebtToIncome,
		v.UtilizationPerCreditLine,
		v.CreditLinesPerDependent,
		float64(v.HasRealEstate),
		float64(v.AgeDelinquencyInteraction),
	}
}

// Named pairs every value with its schema name.
func (v FeatureVector) Named() []Feature {
	values := v.Values()
	features := make([]Feature, len(values))
	for i, value := range values {
		features[i] = Feature{Name: FeatureNames[i], Value: value}
	}
	return features
}

// Value looks a feature up by schema name.
func (v FeatureVector) Value(name string) (float64, bool) {
	i := FeatureIndex(name)
	if i < 0 {
		return 0, false
	}
	return v.Values()[i], true
}

// MarshalJSON encodes the vector as the ordered list of named features.
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Named())
}
