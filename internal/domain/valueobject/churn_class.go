package valueobject

import (
	"fmt"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
)

// ChurnClass is the predicted outcome for a customer.
type ChurnClass struct {
	value string
}

var (
	ChurnClassStay  = ChurnClass{value: "STAY"}
	ChurnClassChurn = ChurnClass{value: "CHURN"}
)

// ChurnClassFromLabel maps a classifier label to a ChurnClass.
func ChurnClassFromLabel(label int) (ChurnClass, error) {
	switch label {
	case estimator.LabelStay:
		return ChurnClassStay, nil
	case estimator.LabelChurn:
		return ChurnClassChurn, nil
	default:
		return ChurnClass{}, fmt.Errorf("invalid class label: %d", label)
	}
}

// ChurnClassFromString reconstructs a ChurnClass from its string form.
func ChurnClassFromString(s string) (ChurnClass, error) {
	switch s {
	case "STAY":
		return ChurnClassStay, nil
	case "CHURN":
		return ChurnClassChurn, nil
	default:
		return ChurnClass{}, fmt.Errorf("invalid churn class: %s", s)
	}
}

// Label returns the classifier label for this class.
func (c ChurnClass) Label() int {
	if c == ChurnClassChurn {
		return estimator.LabelChurn
	}
	return estimator.LabelStay
}

func (c ChurnClass) String() string              { return c.value }
func (c ChurnClass) IsZero() bool                { return c.value == "" }
func (c ChurnClass) Equal(other ChurnClass) bool { return c.value == other.value }
