package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/port"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
)

// EvaluateModel scores a labeled dataset and stores the resulting report.
type EvaluateModel struct {
	repo      port.EvaluationRepository
	publisher port.EventPublisher
	datasets  port.DatasetSource
	evaluator *service.Evaluator
	metrics   port.ChurnMetrics
}

func NewEvaluateModel(
	repo port.EvaluationRepository,
	publisher port.EventPublisher,
	datasets port.DatasetSource,
	evaluator *service.Evaluator,
	metrics port.ChurnMetrics,
) *EvaluateModel {
	return &EvaluateModel{
		repo:      repo,
		publisher: publisher,
		datasets:  datasets,
		evaluator: evaluator,
		metrics:   metrics,
	}
}

func (uc *EvaluateModel) Execute(ctx context.Context, req dto.EvaluateModelRequest) (dto.EvaluationResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "EvaluateModel")
	defer span.End()
	span.SetAttributes(
		attribute.String("churn.model", req.Model),
		attribute.String("churn.dataset", req.Dataset),
	)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	if resp.ROCDefined {
		span.SetAttributes(attribute.Float64("churn.auc", resp.AUC))
	}
	return resp, nil
}

func (uc *EvaluateModel) execute(ctx context.Context, req dto.EvaluateModelRequest) (dto.EvaluationResponse, error) {
	ds, err := uc.datasets.Load(ctx, req.Dataset)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	ev, err := uc.evaluator.Evaluate(ctx, req.Model, ds)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to evaluate model: %w", err)
	}

	report, err := model.NewEvaluationReport(
		req.TenantID,
		ev.Model,
		req.Dataset,
		ev.Positives,
		ev.ROC.AUC,
		curvePoints(ev.ROC.Points),
		model.ConfusionCounts{TN: ev.Confusion.TN, FP: ev.Confusion.FP, FN: ev.Confusion.FN, TP: ev.Confusion.TP},
	)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to create evaluation report: %w", err)
	}

	if err := uc.repo.Save(ctx, report); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to save evaluation report: %w", err)
	}

	events := report.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			return dto.EvaluationResponse{}, fmt.Errorf("failed to publish events: %w: %w", ErrEventsNotPublished, err)
		}
	}

	if ev.ROC.Defined() {
		uc.metrics.RecordEvaluation(ctx, ev.Model, ev.ROC.AUC)
	}
	return dto.EvaluationFromModel(report), nil
}

func curvePoints(points []service.ROCPoint) []model.CurvePoint {
	out := make([]model.CurvePoint, len(points))
	for i, p := range points {
		out[i] = model.CurvePoint{FPR: p.FPR, TPR: p.TPR, Threshold: p.Threshold}
	}
	return out
}

// GetEvaluation retrieves a stored evaluation report.
type GetEvaluation struct {
	repo port.EvaluationRepository
}

func NewGetEvaluation(repo port.EvaluationRepository) *GetEvaluation {
	return &GetEvaluation{repo: repo}
}

func (uc *GetEvaluation) Execute(ctx context.Context, req dto.GetEvaluationRequest) (dto.EvaluationResponse, error) {
	report, err := uc.repo.FindByID(ctx, req.TenantID, req.EvaluationID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to find evaluation report: %w", err)
	}
	if report == nil {
		return dto.EvaluationResponse{}, fmt.Errorf("evaluation %s: %w", req.EvaluationID, ErrNotFound)
	}
	return dto.EvaluationFromModel(report), nil
}
