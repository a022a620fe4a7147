package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
)

// PredictChurnRequest asks for one customer to be scored.
type PredictChurnRequest struct {
	TenantID   uuid.UUID
	CustomerID string
	Model      string
	Record     map[string]any
}

// PredictionResponse is the outward view of a stored prediction.
type PredictionResponse struct {
	ID                 uuid.UUID `json:"id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	CustomerID         string    `json:"customer_id,omitempty"`
	Model              string    `json:"model"`
	Class              string    `json:"class"`
	Headline           string    `json:"headline"`
	ProbabilityOfChurn float64   `json:"probability_of_churn"`
	ProbabilityOfStay  float64   `json:"probability_of_stay"`
	Confidence         float64   `json:"confidence"`
	RiskLevel          string    `json:"risk_level"`
	MonthlyCharges     string    `json:"monthly_charges"`
	RevenueAtRisk      string    `json:"revenue_at_risk"`
	DroppedColumns     []string  `json:"dropped_columns,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// PredictionFromModel maps the aggregate to its response.
func PredictionFromModel(p *model.ChurnPrediction) PredictionResponse {
	return PredictionResponse{
		ID:                 p.ID(),
		TenantID:           p.TenantID(),
		CustomerID:         p.CustomerID(),
		Model:              p.ModelName(),
		Class:              p.Class().String(),
		Headline:           p.Headline(),
		ProbabilityOfChurn: p.ProbabilityOfChurn(),
		ProbabilityOfStay:  p.ProbabilityOfStay(),
		Confidence:         p.Confidence(),
		RiskLevel:          p.RiskLevel().String(),
		MonthlyCharges:     p.MonthlyCharges().StringFixed(2),
		RevenueAtRisk:      p.RevenueAtRisk().StringFixed(2),
		DroppedColumns:     p.DroppedColumns(),
		CreatedAt:          p.CreatedAt(),
	}
}

// GetPredictionRequest looks up one prediction.
type GetPredictionRequest struct {
	TenantID     uuid.UUID
	PredictionID uuid.UUID
}

// ListPredictionsRequest lists a customer's prediction history.
type ListPredictionsRequest struct {
	TenantID   uuid.UUID
	CustomerID string
	Limit      int
}

type ListPredictionsResponse struct {
	Predictions []PredictionResponse `json:"predictions"`
}
