package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact/artifacttest"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/event"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/testutil"
)

func labeledDataset(t *testing.T, n int) service.LabeledDataset {
	t.Helper()
	enc := feature.NewEncoder()
	var ds service.LabeledDataset
	for i := range n {
		raw, label := testutil.TelcoRecord(), 1
		if i%2 == 0 {
			raw, label = artifacttest.LoyalRecord(), 0
		}
		rec, err := feature.RecordFromMap(raw)
		require.NoError(t, err)
		ds.Records = append(ds.Records, enc.Encode(rec))
		ds.Labels = append(ds.Labels, label)
	}
	return ds
}

func newEvaluateModel(t *testing.T, repo *mockEvaluationRepository, publisher *mockEventPublisher, metrics *mockMetrics) *usecase.EvaluateModel {
	t.Helper()
	datasets := &mockDatasetSource{datasets: map[string]service.LabeledDataset{"holdout.csv": labeledDataset(t, 20)}}
	return usecase.NewEvaluateModel(repo, publisher, datasets, service.NewEvaluator(newScorer(t)), metrics)
}

func TestEvaluateModel_Execute(t *testing.T) {
	t.Run("evaluates, saves and publishes", func(t *testing.T) {
		repo := &mockEvaluationRepository{}
		publisher := &mockEventPublisher{}
		metrics := &mockMetrics{}
		uc := newEvaluateModel(t, repo, publisher, metrics)

		resp, err := uc.Execute(context.Background(), dto.EvaluateModelRequest{
			TenantID: testutil.TestTenantID,
			Model:    artifact.ModelLogisticRegression,
			Dataset:  "holdout.csv",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, 20, resp.Rows)
		assert.Equal(t, 10, resp.Positives)
		assert.Equal(t, "holdout.csv", resp.Dataset)
		assert.InDelta(t, 1.0, resp.AUC, 1e-12, "the two customer profiles are perfectly separable")
		assert.True(t, resp.ROCDefined)
		assert.Equal(t, dto.ConfusionMatrix{TN: 10, TP: 10}, resp.Confusion)
		assert.InDelta(t, 1.0, resp.Accuracy, 1e-12)
		require.NotEmpty(t, resp.ROC)
		last := resp.ROC[len(resp.ROC)-1]
		assert.Equal(t, 1.0, last.FPR)
		assert.Equal(t, 1.0, last.TPR)

		require.Len(t, repo.saved, 1)
		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, event.EventTypeModelEvaluated, publisher.publishedEvents[0].EventType())
		assert.InDelta(t, 1.0, metrics.evaluations[artifact.ModelLogisticRegression], 1e-12)
	})

	t.Run("keeps the confusion matrix for a single-class dataset", func(t *testing.T) {
		stayers := labeledDataset(t, 12)
		for i := range stayers.Labels {
			stayers.Labels[i] = 0
		}
		repo := &mockEvaluationRepository{}
		metrics := &mockMetrics{}
		datasets := &mockDatasetSource{datasets: map[string]service.LabeledDataset{"stayers.csv": stayers}}
		uc := usecase.NewEvaluateModel(repo, &mockEventPublisher{}, datasets, service.NewEvaluator(newScorer(t)), metrics)

		resp, err := uc.Execute(context.Background(), dto.EvaluateModelRequest{TenantID: testutil.TestTenantID, Model: artifact.ModelLogisticRegression, Dataset: "stayers.csv"})

		require.NoError(t, err)
		assert.Equal(t, 12, resp.Rows)
		assert.Zero(t, resp.Positives)
		assert.Equal(t, dto.ConfusionMatrix{TN: 6, FP: 6}, resp.Confusion)
		assert.False(t, resp.ROCDefined)
		assert.Empty(t, resp.ROC)
		assert.Zero(t, resp.AUC)
		require.Len(t, repo.saved, 1)
		assert.Empty(t, metrics.evaluations, "no AUC to record")
	})

	t.Run("fails when the dataset cannot be loaded", func(t *testing.T) {
		repo := &mockEvaluationRepository{}
		datasets := &mockDatasetSource{err: errors.New("no such file")}
		uc := usecase.NewEvaluateModel(repo, &mockEventPublisher{}, datasets, service.NewEvaluator(newScorer(t)), &mockMetrics{})

		_, err := uc.Execute(context.Background(), dto.EvaluateModelRequest{TenantID: testutil.TestTenantID, Model: artifact.ModelDecisionTree, Dataset: "missing.csv"})

		testutil.AssertErrorContains(t, err, "failed to load dataset")
		assert.Empty(t, repo.saved)
	})

	t.Run("fails for an unknown model", func(t *testing.T) {
		uc := newEvaluateModel(t, &mockEvaluationRepository{}, &mockEventPublisher{}, &mockMetrics{})

		_, err := uc.Execute(context.Background(), dto.EvaluateModelRequest{TenantID: testutil.TestTenantID, Model: "SVM", Dataset: "holdout.csv"})

		require.ErrorIs(t, err, service.ErrUnknownModel)
	})

	t.Run("fails for an empty dataset", func(t *testing.T) {
		uc := newEvaluateModel(t, &mockEvaluationRepository{}, &mockEventPublisher{}, &mockMetrics{})

		_, err := uc.Execute(context.Background(), dto.EvaluateModelRequest{TenantID: testutil.TestTenantID, Model: artifact.ModelDecisionTree, Dataset: "other.csv"})

		require.ErrorIs(t, err, service.ErrEmptyDataset)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := &mockEvaluationRepository{
			saveFunc: func(_ context.Context, _ *model.EvaluationReport) error { return fmt.Errorf("disk full") },
		}
		publisher := &mockEventPublisher{}
		uc := newEvaluateModel(t, repo, publisher, &mockMetrics{})

		_, err := uc.Execute(context.Background(), dto.EvaluateModelRequest{TenantID: testutil.TestTenantID, Model: artifact.ModelRandomForest, Dataset: "holdout.csv"})

		testutil.AssertErrorContains(t, err, "failed to save evaluation report")
		assert.Empty(t, publisher.publishedEvents)
	})
}

func TestGetEvaluation_Execute(t *testing.T) {
	report, err := model.NewEvaluationReport(testutil.TestTenantID, artifact.ModelDecisionTree, "holdout.csv", 1, 0.75,
		[]model.CurvePoint{{FPR: 0, TPR: 0, Threshold: 1}, {FPR: 1, TPR: 1, Threshold: 0}},
		model.ConfusionCounts{TN: 1, TP: 1})
	require.NoError(t, err)

	repo := &mockEvaluationRepository{
		findByIDFunc: func(_ context.Context, _, id uuid.UUID) (*model.EvaluationReport, error) {
			if id == report.ID() {
				return report, nil
			}
			return nil, nil
		},
	}
	uc := usecase.NewGetEvaluation(repo)

	resp, err := uc.Execute(context.Background(), dto.GetEvaluationRequest{TenantID: testutil.TestTenantID, EvaluationID: report.ID()})
	require.NoError(t, err)
	assert.Equal(t, 0.75, resp.AUC)
	assert.Len(t, resp.ROC, 2)

	_, err = uc.Execute(context.Background(), dto.GetEvaluationRequest{TenantID: testutil.TestTenantID, EvaluationID: uuid.New()})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
