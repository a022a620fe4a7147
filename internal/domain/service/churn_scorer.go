package service

import (
	"fmt"
	"log/slog"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

// Scoring is a prediction together with what alignment had to correct.
type Scoring struct {
	Result    PredictionResult
	Alignment feature.AlignmentReport
}

// ChurnScorer runs the full pipeline: encode, align, scale, predict.
type ChurnScorer struct {
	bundle  *artifact.Bundle
	encoder *feature.Encoder
	aligner *feature.Aligner
	engine  *InferenceEngine
	logger  *slog.Logger
}

func NewChurnScorer(bundle *artifact.Bundle, encoder *feature.Encoder, aligner *feature.Aligner, logger *slog.Logger) *ChurnScorer {
	return &ChurnScorer{
		bundle:  bundle,
		encoder: encoder,
		aligner: aligner,
		engine:  NewInferenceEngine(bundle, logger),
		logger:  logger,
	}
}

// Bundle returns the artifacts the scorer reads.
func (s *ChurnScorer) Bundle() *artifact.Bundle { return s.bundle }

// Encoder returns the encoder used for raw records.
func (s *ChurnScorer) Encoder() *feature.Encoder { return s.encoder }

// Score predicts churn for one raw record.
func (s *ChurnScorer) Score(modelName string, rec feature.RawRecord) (Scoring, error) {
	if _, ok := s.bundle.Model(modelName); !ok {
		return Scoring{}, fmt.Errorf("%w: %q", ErrUnknownModel, modelName)
	}
	return s.ScoreEncoded(modelName, s.encoder.Encode(rec))
}

// ScoreEncoded runs align, scale and predict on an already encoded record.
func (s *ChurnScorer) ScoreEncoded(modelName string, rec feature.EncodedRecord) (Scoring, error) {
	vec, report, err := s.aligner.Align(rec, s.bundle.Schema())
	if err != nil {
		return Scoring{Alignment: report}, fmt.Errorf("align: %w", err)
	}
	if !report.Clean() {
		s.logger.Debug("dropped columns unknown to the schema", "model", modelName, "columns", report.Dropped)
	}

	scaled, err := ScaleVector(vec, s.bundle.Scaler())
	if err != nil {
		return Scoring{Alignment: report}, err
	}

	res, err := s.engine.Predict(modelName, scaled)
	if err != nil {
		return Scoring{Alignment: report}, err
	}
	return Scoring{Result: res, Alignment: report}, nil
}
