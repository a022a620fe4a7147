package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/event"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/events"
)

// ChurnPrediction is the aggregate root for one scoring of one customer.
type ChurnPrediction struct {
	id                 uuid.UUID
	tenantID           uuid.UUID
	customerID         string
	modelName          string
	class              valueobject.ChurnClass
	probabilityOfChurn float64
	riskLevel          valueobject.RiskLevel
	monthlyCharges     decimal.Decimal
	droppedColumns     []string
	createdAt          time.Time
	events             events.EventCollector
}

// NewChurnPrediction validates the inputs, derives the risk level and records
// the resulting domain events.
func NewChurnPrediction(
	tenantID uuid.UUID,
	customerID string,
	modelName string,
	class valueobject.ChurnClass,
	probabilityOfChurn float64,
	monthlyCharges decimal.Decimal,
	droppedColumns []string,
) (*ChurnPrediction, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if class.IsZero() {
		return nil, fmt.Errorf("churn class is required")
	}
	if math.IsNaN(probabilityOfChurn) || probabilityOfChurn < 0 || probabilityOfChurn > 1 {
		return nil, fmt.Errorf("probability of churn must be within [0,1], got %v", probabilityOfChurn)
	}
	if monthlyCharges.IsNegative() {
		return nil, fmt.Errorf("monthly charges must not be negative")
	}

	p := &ChurnPrediction{
		id:                 uuid.New(),
		tenantID:           tenantID,
		customerID:         customerID,
		modelName:          modelName,
		class:              class,
		probabilityOfChurn: probabilityOfChurn,
		riskLevel:          valueobject.RiskLevelFromProbability(probabilityOfChurn),
		monthlyCharges:     monthlyCharges,
		droppedColumns:     append([]string(nil), droppedColumns...),
		createdAt:          time.Now().UTC(),
	}

	p.events.Record(event.ChurnPredicted{
		BaseEvent:          p.baseEvent(event.EventTypeChurnPredicted),
		PredictionID:       p.id.String(),
		CustomerID:         customerID,
		Model:              modelName,
		Class:              class.String(),
		ProbabilityOfChurn: probabilityOfChurn,
		RiskLevel:          p.riskLevel.String(),
	})
	if p.riskLevel.RequiresAction() {
		p.events.Record(event.HighChurnRiskDetected{
			BaseEvent:          p.baseEvent(event.EventTypeHighChurnRiskDetected),
			PredictionID:       p.id.String(),
			CustomerID:         customerID,
			ProbabilityOfChurn: probabilityOfChurn,
			RiskLevel:          p.riskLevel.String(),
			RevenueAtRisk:      p.RevenueAtRisk().StringFixed(2),
		})
	}
	return p, nil
}

func (p *ChurnPrediction) baseEvent(eventType string) events.BaseEvent {
	return events.NewBaseEvent(eventType, p.id.String(), event.AggregateTypePrediction, p.tenantID.String())
}

// ReconstructChurnPrediction rebuilds a prediction from storage without raising events.
func ReconstructChurnPrediction(
	id, tenantID uuid.UUID,
	customerID, modelName string,
	class valueobject.ChurnClass,
	probabilityOfChurn float64,
	riskLevel valueobject.RiskLevel,
	monthlyCharges decimal.Decimal,
	droppedColumns []string,
	createdAt time.Time,
) *ChurnPrediction {
	return &ChurnPrediction{
		id:                 id,
		tenantID:           tenantID,
		customerID:         customerID,
		modelName:          modelName,
		class:              class,
		probabilityOfChurn: probabilityOfChurn,
		riskLevel:          riskLevel,
		monthlyCharges:     monthlyCharges,
		droppedColumns:     droppedColumns,
		createdAt:          createdAt,
	}
}

func (p *ChurnPrediction) ID() uuid.UUID                    { return p.id }
func (p *ChurnPrediction) TenantID() uuid.UUID              { return p.tenantID }
func (p *ChurnPrediction) CustomerID() string               { return p.customerID }
func (p *ChurnPrediction) ModelName() string                { return p.modelName }
func (p *ChurnPrediction) Class() valueobject.ChurnClass    { return p.class }
func (p *ChurnPrediction) ProbabilityOfChurn() float64      { return p.probabilityOfChurn }
func (p *ChurnPrediction) ProbabilityOfStay() float64       { return 1 - p.probabilityOfChurn }
func (p *ChurnPrediction) RiskLevel() valueobject.RiskLevel { return p.riskLevel }
func (p *ChurnPrediction) MonthlyCharges() decimal.Decimal  { return p.monthlyCharges }
func (p *ChurnPrediction) CreatedAt() time.Time             { return p.createdAt }

// DroppedColumns lists encoded columns the schema did not recognize.
func (p *ChurnPrediction) DroppedColumns() []string {
	return append([]string(nil), p.droppedColumns...)
}

// Confidence is the probability of the predicted class.
func (p *ChurnPrediction) Confidence() float64 {
	if p.class == valueobject.ChurnClassChurn {
		return p.probabilityOfChurn
	}
	return 1 - p.probabilityOfChurn
}

// RevenueAtRisk is the expected monthly revenue lost to churn, rounded to cents.
func (p *ChurnPrediction) RevenueAtRisk() decimal.Decimal {
	return p.monthlyCharges.Mul(decimal.NewFromFloat(p.probabilityOfChurn)).Round(2)
}

// Headline is the one-line verdict shown to retention staff.
func (p *ChurnPrediction) Headline() string {
	if p.class == valueobject.ChurnClassChurn {
		return "HIGH CHURN RISK"
	}
	return "LOW CHURN RISK"
}

// DomainEvents returns and clears the pending events.
func (p *ChurnPrediction) DomainEvents() []events.DomainEvent {
	return p.events.Drain()
}
