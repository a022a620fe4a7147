package estimator

import (
	"fmt"
	"math"
)

// LogisticRegression is a linear model with a sigmoid link.
type LogisticRegression struct {
	coef      []float64
	intercept float64
}

func NewLogisticRegression(coef []float64, intercept float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("%w: logistic regression has no coefficients", ErrInvalidEstimator)
	}
	if !allFinite(coef) || !allFinite([]float64{intercept}) {
		return nil, fmt.Errorf("%w: logistic regression weights must be finite", ErrInvalidEstimator)
	}
	return &LogisticRegression{coef: append([]float64(nil), coef...), intercept: intercept}, nil
}

func (m *LogisticRegression) Kind() string     { return "logistic_regression" }
func (m *LogisticRegression) NumFeatures() int { return len(m.coef) }

// Coef returns a copy of the weights.
func (m *LogisticRegression) Coef() []float64    { return append([]float64(nil), m.coef...) }
func (m *LogisticRegression) Intercept() float64 { return m.intercept }

func (m *LogisticRegression) decision(x []float64) (float64, error) {
	if err := checkWidth(len(x), len(m.coef)); err != nil {
		return 0, err
	}
	z := m.intercept
	for i, w := range m.coef {
		z += w * x[i]
	}
	if math.IsNaN(z) {
		return 0, fmt.Errorf("decision function is NaN")
	}
	return z, nil
}

func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	z, err := m.decision(x)
	if err != nil {
		return nil, err
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func (m *LogisticRegression) PredictLabel(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax2(p), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
