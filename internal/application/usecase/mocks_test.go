package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/events"
)

// --- Mock implementations ---

type mockPredictionRepository struct {
	saved              []*model.ChurnPrediction
	saveFunc           func(ctx context.Context, p *model.ChurnPrediction) error
	findByIDFunc       func(ctx context.Context, tenantID, id uuid.UUID) (*model.ChurnPrediction, error)
	listByCustomerFunc func(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]*model.ChurnPrediction, error)
}

func (m *mockPredictionRepository) Save(ctx context.Context, p *model.ChurnPrediction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPredictionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ChurnPrediction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return nil, nil
}

func (m *mockPredictionRepository) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]*model.ChurnPrediction, error) {
	if m.listByCustomerFunc != nil {
		return m.listByCustomerFunc(ctx, tenantID, customerID, limit)
	}
	return nil, nil
}

type mockEvaluationRepository struct {
	saved        []*model.EvaluationReport
	saveFunc     func(ctx context.Context, r *model.EvaluationReport) error
	findByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*model.EvaluationReport, error)
}

func (m *mockEvaluationRepository) Save(ctx context.Context, r *model.EvaluationReport) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, r)
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *mockEvaluationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.EvaluationReport, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockDatasetSource struct {
	datasets map[string]service.LabeledDataset
	err      error
}

func (m *mockDatasetSource) Load(_ context.Context, name string) (service.LabeledDataset, error) {
	if m.err != nil {
		return service.LabeledDataset{}, m.err
	}
	return m.datasets[name], nil
}

type mockMetrics struct {
	mu          sync.Mutex
	predictions []string
	failures    []string
	evaluations map[string]float64
}

func (m *mockMetrics) RecordPrediction(_ context.Context, name, class string, _ float64, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, name+"/"+class)
}

func (m *mockMetrics) RecordPredictionError(_ context.Context, _ string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, reason)
}

func (m *mockMetrics) RecordEvaluation(_ context.Context, name string, auc float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evaluations == nil {
		m.evaluations = map[string]float64{}
	}
	m.evaluations[name] = auc
}
