package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ProbabilityTolerance is the slack allowed when checking that a
// distribution sums to one.
const ProbabilityTolerance = 1e-9

// AssertErrorContains checks that err is non-nil and mentions expected.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertProbability checks that p is a finite value in [0,1].
func AssertProbability(t *testing.T, p float64) bool {
	t.Helper()
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return assert.Fail(t, "probability is not finite", "got %v", p)
	}
	return assert.GreaterOrEqual(t, p, 0.0) && assert.LessOrEqual(t, p, 1.0)
}

// AssertDistribution checks a two-class distribution: valid entries summing to one.
func AssertDistribution(t *testing.T, probs []float64) bool {
	t.Helper()
	if !assert.Len(t, probs, 2) {
		return false
	}
	ok := AssertProbability(t, probs[0]) && AssertProbability(t, probs[1])
	return ok && assert.InDelta(t, 1.0, probs[0]+probs[1], ProbabilityTolerance)
}
