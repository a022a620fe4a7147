package service

import (
	"fmt"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

// ScaleVector applies the frozen scaler to an aligned vector. The width is
// checked here as well as at load time since the scaler and schema are
// stored separately.
func ScaleVector(v feature.AlignedVector, s estimator.Scaler) (feature.ScaledVector, error) {
	if len(v) != s.Width() {
		return nil, fmt.Errorf("%w: aligned vector has %d columns, scaler expects %d",
			estimator.ErrDimensionMismatch, len(v), s.Width())
	}
	out, err := s.Transform(v)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return feature.ScaledVector(out), nil
}
