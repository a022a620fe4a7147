package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/port"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
)

const tracerName = "github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"

// monthlyChargesField is the raw field carried onto the prediction for revenue-at-risk.
const monthlyChargesField = "MonthlyCharges"

// PredictChurn is the use case for scoring one customer record.
type PredictChurn struct {
	repo      port.PredictionRepository
	publisher port.EventPublisher
	scorer    *service.ChurnScorer
	metrics   port.ChurnMetrics
}

// NewPredictChurn creates a new PredictChurn use case.
func NewPredictChurn(
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	scorer *service.ChurnScorer,
	metrics port.ChurnMetrics,
) *PredictChurn {
	return &PredictChurn{
		repo:      repo,
		publisher: publisher,
		scorer:    scorer,
		metrics:   metrics,
	}
}

// Execute scores the record, persists the prediction and publishes its events.
func (uc *PredictChurn) Execute(ctx context.Context, req dto.PredictChurnRequest) (dto.PredictionResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PredictChurn")
	defer span.End()
	span.SetAttributes(attribute.String("churn.model", req.Model))

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.RecordPredictionError(ctx, req.Model, failureReason(err))
	}
	return resp, err
}

func (uc *PredictChurn) execute(ctx context.Context, req dto.PredictChurnRequest) (dto.PredictionResponse, error) {
	start := time.Now()

	// 1. Validate the raw record.
	rec, err := feature.RecordFromMap(req.Record)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("invalid record: %w", err)
	}

	// 2. Run the scoring pipeline.
	scoring, err := uc.scorer.Score(req.Model, rec)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to score record: %w", err)
	}
	res := scoring.Result

	// 3. Create the prediction aggregate.
	prediction, err := model.NewChurnPrediction(
		req.TenantID,
		req.CustomerID,
		res.Model,
		res.Class,
		res.ProbabilityOfChurn,
		MonthlyCharges(rec),
		scoring.Alignment.Dropped,
	)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to create prediction: %w", err)
	}

	// 4. Persist the prediction.
	if err := uc.repo.Save(ctx, prediction); err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to save prediction: %w", err)
	}

	// 5. Publish domain events.
	events := prediction.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			return dto.PredictionResponse{}, fmt.Errorf("failed to publish events: %w: %w", ErrEventsNotPublished, err)
		}
	}

	uc.metrics.RecordPrediction(ctx, res.Model, res.Class.String(), res.ProbabilityOfChurn, time.Since(start))
	return dto.PredictionFromModel(prediction), nil
}

// MonthlyCharges reads the monthly charge from a raw record. Missing,
// unparseable or negative values count as zero.
func MonthlyCharges(rec feature.RawRecord) decimal.Decimal {
	v, ok := rec.Get(monthlyChargesField)
	if !ok {
		return decimal.Zero
	}
	var d decimal.Decimal
	if v.IsCategorical() {
		parsed, err := decimal.NewFromString(v.Text())
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	} else {
		d = decimal.NewFromFloat(v.Float64())
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
