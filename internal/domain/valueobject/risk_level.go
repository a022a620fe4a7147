package valueobject

import (
	"fmt"
	"math"
)

// RiskLevel buckets a churn probability for retention workflows.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "LOW"}
	RiskLevelMedium   = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh     = RiskLevel{value: "HIGH"}
	RiskLevelCritical = RiskLevel{value: "CRITICAL"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	case "CRITICAL":
		return RiskLevelCritical, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromProbability derives the level from P(churn) in [0,1].
func RiskLevelFromProbability(p float64) RiskLevel {
	switch {
	case math.IsNaN(p):
		return RiskLevel{}
	case p >= 0.80:
		return RiskLevelCritical
	case p >= 0.60:
		return RiskLevelHigh
	case p >= 0.35:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// RequiresAction reports whether retention staff should be alerted.
func (r RiskLevel) RequiresAction() bool {
	return r == RiskLevelHigh || r == RiskLevelCritical
}

func (r RiskLevel) String() string             { return r.value }
func (r RiskLevel) IsZero() bool               { return r.value == "" }
func (r RiskLevel) Equal(other RiskLevel) bool { return r.value == other.value }
