package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
)

// EvaluateModelRequest runs a model against a named labeled dataset.
type EvaluateModelRequest struct {
	TenantID uuid.UUID
	Model    string
	Dataset  string
}

type ConfusionMatrix struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

type ROCPoint struct {
	FPR       float64 `json:"fpr"`
	TPR       float64 `json:"tpr"`
	Threshold float64 `json:"threshold"`
}

// EvaluationResponse carries everything a charting client needs. ROCDefined
// is false, with AUC 0 and no points, for single-class datasets.
type EvaluationResponse struct {
	ID         uuid.UUID       `json:"id"`
	Model      string          `json:"model"`
	Dataset    string          `json:"dataset"`
	Rows       int             `json:"rows"`
	Positives  int             `json:"positives"`
	AUC        float64         `json:"auc"`
	ROCDefined bool            `json:"roc_defined"`
	ROC        []ROCPoint      `json:"roc"`
	Confusion  ConfusionMatrix `json:"confusion_matrix"`
	Accuracy   float64         `json:"accuracy"`
	Precision  float64         `json:"precision"`
	Recall     float64         `json:"recall"`
	F1         float64         `json:"f1"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EvaluationFromModel maps the aggregate to its response.
func EvaluationFromModel(r *model.EvaluationReport) EvaluationResponse {
	cm := r.Confusion()
	points := r.ROC()
	roc := make([]ROCPoint, len(points))
	for i, p := range points {
		roc[i] = ROCPoint{FPR: p.FPR, TPR: p.TPR, Threshold: p.Threshold}
	}
	return EvaluationResponse{
		ID:         r.ID(),
		Model:      r.ModelName(),
		Dataset:    r.Dataset(),
		Rows:       r.Rows(),
		Positives:  r.Positives(),
		AUC:        r.AUC(),
		ROCDefined: r.ROCDefined(),
		ROC:        roc,
		Confusion:  ConfusionMatrix{TN: cm.TN, FP: cm.FP, FN: cm.FN, TP: cm.TP},
		Accuracy:   r.Accuracy(),
		Precision:  r.Precision(),
		Recall:     r.Recall(),
		F1:         r.F1(),
		CreatedAt:  r.CreatedAt(),
	}
}

// GetEvaluationRequest looks up one stored report.
type GetEvaluationRequest struct {
	TenantID     uuid.UUID
	EvaluationID uuid.UUID
}
