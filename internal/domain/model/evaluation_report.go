package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/event"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/events"
)

// ConfusionCounts are the four cells of a binary confusion matrix.
type ConfusionCounts struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

func (c ConfusionCounts) Total() int { return c.TN + c.FP + c.FN + c.TP }

// CurvePoint is one ROC operating point.
type CurvePoint struct {
	FPR       float64 `json:"fpr"`
	TPR       float64 `json:"tpr"`
	Threshold float64 `json:"threshold"`
}

// EvaluationReport records how a model performed on a labeled dataset.
type EvaluationReport struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	modelName string
	dataset   string
	rows      int
	positives int
	auc       float64
	roc       []CurvePoint
	confusion ConfusionCounts
	createdAt time.Time
	events    events.EventCollector
}

// NewEvaluationReport validates the summary and records ModelEvaluated.
func NewEvaluationReport(
	tenantID uuid.UUID,
	modelName, dataset string,
	positives int,
	auc float64,
	roc []CurvePoint,
	confusion ConfusionCounts,
) (*EvaluationReport, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	rows := confusion.Total()
	if rows == 0 {
		return nil, fmt.Errorf("evaluation covers no rows")
	}
	if positives < 0 || positives > rows {
		return nil, fmt.Errorf("positives %d out of range for %d rows", positives, rows)
	}
	if confusion.TP+confusion.FN != positives {
		return nil, fmt.Errorf("confusion matrix has %d positives, expected %d", confusion.TP+confusion.FN, positives)
	}
	if math.IsNaN(auc) || auc < 0 || auc > 1 {
		return nil, fmt.Errorf("AUC must be within [0,1], got %v", auc)
	}
	if len(roc) == 0 && auc != 0 {
		return nil, fmt.Errorf("AUC %v given without a ROC curve", auc)
	}

	r := &EvaluationReport{
		id:        uuid.New(),
		tenantID:  tenantID,
		modelName: modelName,
		dataset:   dataset,
		rows:      rows,
		positives: positives,
		auc:       auc,
		roc:       append([]CurvePoint(nil), roc...),
		confusion: confusion,
		createdAt: time.Now().UTC(),
	}
	r.events.Record(event.ModelEvaluated{
		BaseEvent:  events.NewBaseEvent(event.EventTypeModelEvaluated, r.id.String(), event.AggregateTypeEvaluation, tenantID.String()),
		ReportID:   r.id.String(),
		Model:      modelName,
		Dataset:    dataset,
		Rows:       rows,
		AUC:        auc,
		ROCDefined: r.ROCDefined(),
		Accuracy:   r.Accuracy(),
	})
	return r, nil
}

// ReconstructEvaluationReport rebuilds a report from storage.
func ReconstructEvaluationReport(
	id, tenantID uuid.UUID,
	modelName, dataset string,
	positives int,
	auc float64,
	roc []CurvePoint,
	confusion ConfusionCounts,
	createdAt time.Time,
) *EvaluationReport {
	return &EvaluationReport{
		id:        id,
		tenantID:  tenantID,
		modelName: modelName,
		dataset:   dataset,
		rows:      confusion.Total(),
		positives: positives,
		auc:       auc,
		roc:       roc,
		confusion: confusion,
		createdAt: createdAt,
	}
}

func (r *EvaluationReport) ID() uuid.UUID              { return r.id }
func (r *EvaluationReport) TenantID() uuid.UUID        { return r.tenantID }
func (r *EvaluationReport) ModelName() string          { return r.modelName }
func (r *EvaluationReport) Dataset() string            { return r.dataset }
func (r *EvaluationReport) Rows() int                  { return r.rows }
func (r *EvaluationReport) Positives() int             { return r.positives }
func (r *EvaluationReport) AUC() float64               { return r.auc }
func (r *EvaluationReport) Confusion() ConfusionCounts { return r.confusion }
func (r *EvaluationReport) CreatedAt() time.Time       { return r.createdAt }

// ROCDefined is false when the dataset held a single class.
func (r *EvaluationReport) ROCDefined() bool { return len(r.roc) > 0 }

// ROC returns a copy of the curve.
func (r *EvaluationReport) ROC() []CurvePoint { return append([]CurvePoint(nil), r.roc...) }

func (r *EvaluationReport) Accuracy() float64 {
	return float64(r.confusion.TP+r.confusion.TN) / float64(r.rows)
}

func (r *EvaluationReport) Precision() float64 {
	if d := r.confusion.TP + r.confusion.FP; d > 0 {
		return float64(r.confusion.TP) / float64(d)
	}
	return 0
}

func (r *EvaluationReport) Recall() float64 {
	if r.positives == 0 {
		return 0
	}
	return float64(r.confusion.TP) / float64(r.positives)
}

func (r *EvaluationReport) F1() float64 {
	p, rc := r.Precision(), r.Recall()
	if p+rc == 0 {
		return 0
	}
	return 2 * p * rc / (p + rc)
}

// DomainEvents returns and clears the pending events.
func (r *EvaluationReport) DomainEvents() []events.DomainEvent {
	return r.events.Drain()
}
