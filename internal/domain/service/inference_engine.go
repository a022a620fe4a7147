package service

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
)

// probabilityTolerance bounds how far a model's distribution may drift from summing to one.
const probabilityTolerance = 1e-6

// PredictionResult is the outcome of scoring one vector with one model.
type PredictionResult struct {
	Model              string
	Class              valueobject.ChurnClass
	ProbabilityOfChurn float64
	ProbabilityOfStay  float64
}

// Confidence is the probability of the predicted class.
func (r PredictionResult) Confidence() float64 {
	if r.Class == valueobject.ChurnClassChurn {
		return r.ProbabilityOfChurn
	}
	return r.ProbabilityOfStay
}

// InferenceEngine runs named models from a bundle.
type InferenceEngine struct {
	bundle *artifact.Bundle
	logger *slog.Logger
}

func NewInferenceEngine(bundle *artifact.Bundle, logger *slog.Logger) *InferenceEngine {
	return &InferenceEngine{bundle: bundle, logger: logger}
}

// Models lists the names accepted by Predict.
func (e *InferenceEngine) Models() []string { return e.bundle.ModelNames() }

// Predict scores x with the named model. The label and the probability
// distribution must agree; a model that disagrees with itself is reported as
// ErrInferenceFailed.
func (e *InferenceEngine) Predict(modelName string, x feature.ScaledVector) (PredictionResult, error) {
	m, ok := e.bundle.Model(modelName)
	if !ok {
		return PredictionResult{}, fmt.Errorf("%w: %q", ErrUnknownModel, modelName)
	}
	if len(x) != m.NumFeatures() {
		return PredictionResult{}, fmt.Errorf("%w: vector has %d columns, model %q expects %d",
			estimator.ErrDimensionMismatch, len(x), modelName, m.NumFeatures())
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return PredictionResult{}, fmt.Errorf("%w: column %d is not finite", ErrInferenceFailed, i)
		}
	}

	label, err := m.PredictLabel(x)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: %s label: %v", ErrInferenceFailed, modelName, err)
	}
	probs, err := m.PredictProba(x)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: %s probabilities: %v", ErrInferenceFailed, modelName, err)
	}
	if err := checkDistribution(probs); err != nil {
		e.logger.Warn("model returned an invalid distribution", "model", modelName, "probabilities", probs)
		return PredictionResult{}, fmt.Errorf("%w: %s: %v", ErrInferenceFailed, modelName, err)
	}

	pChurn := probs[estimator.LabelChurn]
	res := PredictionResult{
		Model:              modelName,
		ProbabilityOfChurn: pChurn,
		ProbabilityOfStay:  1 - pChurn,
		Class:              valueobject.ChurnClassStay,
	}
	if res.ProbabilityOfChurn > res.ProbabilityOfStay {
		res.Class = valueobject.ChurnClassChurn
	}

	if label != res.Class.Label() {
		e.logger.Warn("model label disagrees with its probabilities",
			"model", modelName, "label", label, "probability_of_churn", pChurn)
		return PredictionResult{}, fmt.Errorf("%w: %s predicted label %d with P(churn)=%.6f",
			ErrInferenceFailed, modelName, label, pChurn)
	}
	return res, nil
}

func checkDistribution(p []float64) error {
	if len(p) != 2 {
		return fmt.Errorf("expected 2 class probabilities, got %d", len(p))
	}
	for _, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("probability %v outside [0,1]", v)
		}
	}
	if math.Abs(p[0]+p[1]-1) > probabilityTolerance {
		return fmt.Errorf("probabilities sum to %v", p[0]+p[1])
	}
	return nil
}
