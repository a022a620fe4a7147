package valueobject_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
)

func TestRiskLevelFromProbability(t *testing.T) {
	tests := []struct {
		p        float64
		expected valueobject.RiskLevel
	}{
		{0, valueobject.RiskLevelLow},
		{0.3499, valueobject.RiskLevelLow},
		{0.35, valueobject.RiskLevelMedium},
		{0.5999, valueobject.RiskLevelMedium},
		{0.60, valueobject.RiskLevelHigh},
		{0.80, valueobject.RiskLevelCritical},
		{1, valueobject.RiskLevelCritical},
	}
	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.True(t, tt.expected.Equal(valueobject.RiskLevelFromProbability(tt.p)), "p=%v", tt.p)
		})
	}
	assert.True(t, valueobject.RiskLevelFromProbability(math.NaN()).IsZero())
}

func TestRiskLevel_RequiresAction(t *testing.T) {
	assert.False(t, valueobject.RiskLevelLow.RequiresAction())
	assert.False(t, valueobject.RiskLevelMedium.RequiresAction())
	assert.True(t, valueobject.RiskLevelHigh.RequiresAction())
	assert.True(t, valueobject.RiskLevelCritical.RequiresAction())
}

func TestRiskLevel_FromString(t *testing.T) {
	for _, s := range []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"} {
		lvl, err := valueobject.RiskLevelFromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, lvl.String())
	}
	_, err := valueobject.RiskLevelFromString("SEVERE")
	assert.Error(t, err)
}

func TestChurnClass(t *testing.T) {
	stay, err := valueobject.ChurnClassFromLabel(0)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ChurnClassStay, stay)
	assert.Equal(t, 0, stay.Label())

	churn, err := valueobject.ChurnClassFromLabel(1)
	require.NoError(t, err)
	assert.Equal(t, "CHURN", churn.String())
	assert.Equal(t, 1, churn.Label())

	_, err = valueobject.ChurnClassFromLabel(2)
	assert.Error(t, err)

	parsed, err := valueobject.ChurnClassFromString("STAY")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(stay))
	_, err = valueobject.ChurnClassFromString("stay")
	assert.Error(t, err)
	assert.True(t, valueobject.ChurnClass{}.IsZero())
}
