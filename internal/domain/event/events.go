package event

import (
	"github.com/Shreyashgol/genAI-capstone-project/pkg/events"
)

const (
	// EventTypeChurnPredicted is emitted for every stored prediction.
	EventTypeChurnPredicted = "churn.prediction.completed"

	// EventTypeHighChurnRiskDetected is emitted when a prediction lands in the HIGH or CRITICAL band.
	EventTypeHighChurnRiskDetected = "churn.high_risk.detected"

	// EventTypeModelEvaluated is emitted when a batch evaluation report is stored.
	EventTypeModelEvaluated = "churn.model.evaluated"

	AggregateTypePrediction = "ChurnPrediction"
	AggregateTypeEvaluation = "EvaluationReport"
)

// ChurnPredicted carries the outcome of one scoring request.
type ChurnPredicted struct {
	events.BaseEvent
	PredictionID       string  `json:"prediction_id"`
	CustomerID         string  `json:"customer_id,omitempty"`
	Model              string  `json:"model"`
	Class              string  `json:"class"`
	ProbabilityOfChurn float64 `json:"probability_of_churn"`
	RiskLevel          string  `json:"risk_level"`
}

// HighChurnRiskDetected asks retention workflows to reach out to the customer.
type HighChurnRiskDetected struct {
	events.BaseEvent
	PredictionID       string  `json:"prediction_id"`
	CustomerID         string  `json:"customer_id,omitempty"`
	ProbabilityOfChurn float64 `json:"probability_of_churn"`
	RiskLevel          string  `json:"risk_level"`
	RevenueAtRisk      string  `json:"revenue_at_risk"`
}

// ModelEvaluated summarizes a stored evaluation report.
type ModelEvaluated struct {
	events.BaseEvent
	ReportID   string  `json:"report_id"`
	Model      string  `json:"model"`
	Dataset    string  `json:"dataset"`
	Rows       int     `json:"rows"`
	AUC        float64 `json:"auc"`
	ROCDefined bool    `json:"roc_defined"`
	Accuracy   float64 `json:"accuracy"`
}
