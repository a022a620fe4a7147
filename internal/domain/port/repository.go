package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/events"
)

// PredictionRepository persists churn predictions.
type PredictionRepository interface {
	// Save persists a prediction.
	Save(ctx context.Context, prediction *model.ChurnPrediction) error
	// FindByID returns the prediction or nil when it does not exist.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ChurnPrediction, error)
	// ListByCustomer returns a customer's predictions, newest first.
	ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]*model.ChurnPrediction, error)
}

// EvaluationRepository persists evaluation reports.
type EvaluationRepository interface {
	Save(ctx context.Context, report *model.EvaluationReport) error
	// FindByID returns the report or nil when it does not exist.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.EvaluationReport, error)
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// DatasetSource resolves a named labeled dataset.
type DatasetSource interface {
	Load(ctx context.Context, name string) (service.LabeledDataset, error)
}

// ChurnMetrics records operational metrics for scoring and evaluation.
type ChurnMetrics interface {
	RecordPrediction(ctx context.Context, model, class string, probabilityOfChurn float64, elapsed time.Duration)
	RecordPredictionError(ctx context.Context, model, reason string)
	RecordEvaluation(ctx context.Context, model string, auc float64)
}
