package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact/artifacttest"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/testutil"
)

func storedPrediction(t *testing.T) *model.ChurnPrediction {
	t.Helper()
	p, err := model.NewChurnPrediction(testutil.TestTenantID, testutil.TestCustomerID, artifact.ModelRandomForest,
		valueobject.ChurnClassChurn, 0.82, decimal.NewFromFloat(99.65), nil)
	require.NoError(t, err)
	return p
}

func TestGetPrediction_Execute(t *testing.T) {
	t.Run("returns the stored prediction", func(t *testing.T) {
		p := storedPrediction(t)
		repo := &mockPredictionRepository{
			findByIDFunc: func(_ context.Context, tenantID, id uuid.UUID) (*model.ChurnPrediction, error) {
				assert.Equal(t, testutil.TestTenantID, tenantID)
				assert.Equal(t, p.ID(), id)
				return p, nil
			},
		}

		resp, err := usecase.NewGetPrediction(repo).Execute(context.Background(), dto.GetPredictionRequest{
			TenantID:     testutil.TestTenantID,
			PredictionID: p.ID(),
		})

		require.NoError(t, err)
		assert.Equal(t, p.ID(), resp.ID)
		assert.Equal(t, "CRITICAL", resp.RiskLevel)
		assert.Equal(t, "81.71", resp.RevenueAtRisk)
	})

	t.Run("returns not found for a missing prediction", func(t *testing.T) {
		_, err := usecase.NewGetPrediction(&mockPredictionRepository{}).Execute(context.Background(), dto.GetPredictionRequest{
			TenantID:     testutil.TestTenantID,
			PredictionID: uuid.New(),
		})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := &mockPredictionRepository{
			findByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*model.ChurnPrediction, error) {
				return nil, fmt.Errorf("connection reset")
			},
		}
		_, err := usecase.NewGetPrediction(repo).Execute(context.Background(), dto.GetPredictionRequest{TenantID: testutil.TestTenantID, PredictionID: uuid.New()})
		testutil.AssertErrorContains(t, err, "failed to find prediction")
	})
}

func TestListCustomerPredictions_Execute(t *testing.T) {
	var gotLimit int
	repo := &mockPredictionRepository{
		listByCustomerFunc: func(_ context.Context, _ uuid.UUID, customerID string, limit int) ([]*model.ChurnPrediction, error) {
			gotLimit = limit
			return []*model.ChurnPrediction{storedPrediction(t), storedPrediction(t)}, nil
		},
	}
	uc := usecase.NewListCustomerPredictions(repo)

	resp, err := uc.Execute(context.Background(), dto.ListPredictionsRequest{TenantID: testutil.TestTenantID, CustomerID: testutil.TestCustomerID})
	require.NoError(t, err)
	assert.Len(t, resp.Predictions, 2)
	assert.Equal(t, 20, gotLimit)

	_, err = uc.Execute(context.Background(), dto.ListPredictionsRequest{TenantID: testutil.TestTenantID, CustomerID: testutil.TestCustomerID, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, gotLimit)

	_, err = uc.Execute(context.Background(), dto.ListPredictionsRequest{TenantID: testutil.TestTenantID})
	testutil.AssertErrorContains(t, err, "customer ID is required")
}

func TestListModels_Execute(t *testing.T) {
	scorer := newScorer(t)
	resp := usecase.NewListModels(scorer.Bundle(), feature.NewAligner()).Execute(context.Background())

	require.Len(t, resp.Models, 3)
	assert.Equal(t, artifact.ModelDecisionTree, resp.Models[0].Name)
	assert.Equal(t, "decision_tree", resp.Models[0].Kind)
	assert.Equal(t, len(artifacttest.TelcoColumns), resp.Models[0].NumFeatures)
	assert.Equal(t, artifacttest.TelcoColumns, resp.Columns)
	assert.Equal(t, "standard", resp.ScalerKind)
	assert.False(t, resp.StrictAlign)
}
