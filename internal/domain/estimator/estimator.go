// Package estimator holds the frozen, fitted estimators used at inference
// time: binary classifiers and per-column scalers.
package estimator

import (
	"errors"
	"fmt"
	"math"
)

// Class labels shared by every classifier.
const (
	LabelStay  = 0
	LabelChurn = 1
)

// Sentinel errors.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidEstimator  = errors.New("invalid estimator")
)

// Classifier is a trained binary classifier over {stay, churn}.
type Classifier interface {
	// Kind names the model family, e.g. "logistic_regression".
	Kind() string
	// NumFeatures is the input width the model was fit on.
	NumFeatures() int
	// PredictLabel returns LabelStay or LabelChurn.
	PredictLabel(x []float64) (int, error)
	// PredictProba returns [P(stay), P(churn)].
	PredictProba(x []float64) ([]float64, error)
}

// Scaler is a fitted per-column transform.
type Scaler interface {
	Kind() string
	Width() int
	// Transform returns a new slice; x is not modified.
	Transform(x []float64) ([]float64, error)
}

func checkWidth(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, got, want)
	}
	return nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// argmax2 picks the more probable class; ties go to LabelStay.
func argmax2(p []float64) int {
	if p[LabelChurn] > p[LabelStay] {
		return LabelChurn
	}
	return LabelStay
}
