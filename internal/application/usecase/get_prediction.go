package usecase

import (
	"context"
	"fmt"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/port"
)

const defaultHistoryLimit = 20

// GetPrediction retrieves a stored prediction by ID.
type GetPrediction struct {
	repo port.PredictionRepository
}

func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

func (uc *GetPrediction) Execute(ctx context.Context, req dto.GetPredictionRequest) (dto.PredictionResponse, error) {
	prediction, err := uc.repo.FindByID(ctx, req.TenantID, req.PredictionID)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}
	if prediction == nil {
		return dto.PredictionResponse{}, fmt.Errorf("prediction %s: %w", req.PredictionID, ErrNotFound)
	}
	return dto.PredictionFromModel(prediction), nil
}

// ListCustomerPredictions returns a customer's prediction history.
type ListCustomerPredictions struct {
	repo port.PredictionRepository
}

func NewListCustomerPredictions(repo port.PredictionRepository) *ListCustomerPredictions {
	return &ListCustomerPredictions{repo: repo}
}

func (uc *ListCustomerPredictions) Execute(ctx context.Context, req dto.ListPredictionsRequest) (dto.ListPredictionsResponse, error) {
	if req.CustomerID == "" {
		return dto.ListPredictionsResponse{}, fmt.Errorf("customer ID is required")
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	predictions, err := uc.repo.ListByCustomer(ctx, req.TenantID, req.CustomerID, limit)
	if err != nil {
		return dto.ListPredictionsResponse{}, fmt.Errorf("failed to list predictions: %w", err)
	}
	out := dto.ListPredictionsResponse{Predictions: make([]dto.PredictionResponse, 0, len(predictions))}
	for _, p := range predictions {
		out.Predictions = append(out.Predictions, dto.PredictionFromModel(p))
	}
	return out, nil
}
