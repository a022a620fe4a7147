// Package artifact models the frozen inference artifacts: trained
// classifiers, the fitted scaler and the column schema, loaded together
// once per process.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

// Sentinel errors.
var (
	ErrArtifactMissing = errors.New("artifact missing")
	ErrArtifactCorrupt = errors.New("artifact corrupt")
)

// Loader produces a Bundle from persistent storage.
type Loader interface {
	Load(ctx context.Context) (*Bundle, error)
}

// Bundle is the immutable set of artifacts every inference reads.
type Bundle struct {
	models map[string]estimator.Classifier
	names  []string
	scaler estimator.Scaler
	schema feature.ColumnSchema
}

// NewBundle checks that scaler and every model agree with the schema width.
// A disagreement means the artifacts came from different training runs.
func NewBundle(models map[string]estimator.Classifier, scaler estimator.Scaler, schema feature.ColumnSchema) (*Bundle, error) {
	if schema.Len() == 0 {
		return nil, feature.ErrEmptySchema
	}
	if scaler == nil {
		return nil, fmt.Errorf("%w: no scaler", ErrArtifactMissing)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no models", ErrArtifactMissing)
	}
	if scaler.Width() != schema.Len() {
		return nil, fmt.Errorf("%w: scaler width %d, schema width %d",
			estimator.ErrDimensionMismatch, scaler.Width(), schema.Len())
	}

	b := &Bundle{
		models: make(map[string]estimator.Classifier, len(models)),
		scaler: scaler,
		schema: schema,
	}
	for name, m := range models {
		if m == nil {
			return nil, fmt.Errorf("%w: model %q", ErrArtifactMissing, name)
		}
		if m.NumFeatures() != schema.Len() {
			return nil, fmt.Errorf("%w: model %q width %d, schema width %d",
				estimator.ErrDimensionMismatch, name, m.NumFeatures(), schema.Len())
		}
		b.models[name] = m
		b.names = append(b.names, name)
	}
	sort.Strings(b.names)
	return b, nil
}

// Model looks up a classifier by its display name.
func (b *Bundle) Model(name string) (estimator.Classifier, bool) {
	m, ok := b.models[name]
	return m, ok
}

// ModelNames returns the model names in sorted order.
func (b *Bundle) ModelNames() []string { return append([]string(nil), b.names...) }

func (b *Bundle) Scaler() estimator.Scaler     { return b.scaler }
func (b *Bundle) Schema() feature.ColumnSchema { return b.schema }

// Display names of the models shipped with the service.
const (
	ModelLogisticRegression = "Logistic Regression"
	ModelDecisionTree       = "Decision Tree"
	ModelRandomForest       = "Random Forest"
)
