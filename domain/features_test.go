package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureVector_NamedFollowsSchemaOrder(t *testing.T) {
	fv := FeatureVector{
		Profile:                   DefaultProfile(),
		TotalPastDue:              2,
		DebtToIncome:              0.5,
		UtilizationPerCreditLine:  0.1,
		CreditLinesPerDependent:   3,
		HasRealEstate:             1,
		AgeDelinquencyInteraction: 64,
	}

	named := fv.Named()
	require.Len(t, named, len(FeatureNames))
	for i, f := range named {
		assert.Equal(t, FeatureNames[i], f.Name)
		assert.Equal(t, fv.Values()[i], f.Value)
	}

	v, ok := fv.Value(FeatureAgeDelinquencyInteraction)
	assert.True(t, ok)
	assert.Equal(t, 64.0, v)

	v, ok = fv.Value(FeatureMonthlyIncome)
	assert.True(t, ok)
	assert.Equal(t, 4500.0, v)

	_, ok = fv.Value("Salary")
	assert.False(t, ok)
}

func TestFeatureIndex(t *testing.T) {
	assert.Equal(t, 0, FeatureIndex(FeatureRevolvingUtilization))
	assert.Equal(t, 15, FeatureIndex(FeatureAgeDelinquencyInteraction))
	assert.Equal(t, -1, FeatureIndex("unknown"))
}

func TestFeatureVector_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(FeatureVector{Profile: DefaultProfile()})
	require.NoError(t, err)

	var features []Feature
	require.NoError(t, json.Unmarshal(raw, &features))
	require.Len(t, features, 16)
	assert.Equal(t, Feature{Name: FeatureRevolvingUtilization, Value: 0.45}, features[0])
	assert.Equal(t, Feature{Name: FeatureAge, Value: 32}, features[1])
}

func TestRiskLabel_DisplayName(t *testing.T) {
	assert.Equal(t, "Low Risk", RiskLow.DisplayName())
	assert.Equal(t, "High Risk", RiskHigh.DisplayName())
}
