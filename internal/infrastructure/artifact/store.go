// Package artifact reads the frozen model artifacts from a directory of JSON
// files and assembles them into a domain bundle.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

// Well-known file names inside the artifact directory.
const (
	ColumnsFile = "model_columns.json"
	ScalerFile  = "scaler.json"
)

// Catalog maps a model's display name to its file.
type Catalog map[string]string

// DefaultCatalog lists the three shipped models.
func DefaultCatalog() Catalog {
	return Catalog{
		artifact.ModelLogisticRegression: "logistic_regression_model.json",
		artifact.ModelDecisionTree:       "decision_tree_model.json",
		artifact.ModelRandomForest:       "random_forest_model.json",
	}
}

// Store implements artifact.Loader over a local directory.
type Store struct {
	dir     string
	catalog Catalog
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

func WithCatalog(c Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, catalog: DefaultCatalog(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the column list, the scaler and every catalogued model, then
// checks that their widths agree.
func (s *Store) Load(ctx context.Context) (*artifact.Bundle, error) {
	var columns []string
	if err := s.readJSON(ColumnsFile, &columns); err != nil {
		return nil, err
	}
	schema, err := feature.NewColumnSchema(columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", artifact.ErrArtifactCorrupt, ColumnsFile, err)
	}

	var sf scalerFile
	if err := s.readJSON(ScalerFile, &sf); err != nil {
		return nil, err
	}
	scaler, err := sf.build()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", artifact.ErrArtifactCorrupt, ScalerFile, err)
	}

	models := make(map[string]estimator.Classifier, len(s.catalog))
	for name, file := range s.catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var mf modelFile
		if err := s.readJSON(file, &mf); err != nil {
			return nil, err
		}
		m, err := mf.build()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", artifact.ErrArtifactCorrupt, file, err)
		}
		models[name] = m
	}

	bundle, err := artifact.NewBundle(models, scaler, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble artifact bundle: %w", err)
	}

	s.logger.InfoContext(ctx, "artifact bundle loaded",
		slog.String("dir", s.dir),
		slog.Any("models", bundle.ModelNames()),
		slog.Int("columns", schema.Len()),
		slog.String("scaler", scaler.Kind()),
	)
	return bundle, nil
}

func (s *Store) readJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", artifact.ErrArtifactMissing, path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", artifact.ErrArtifactCorrupt, path, err)
	}
	return nil
}
