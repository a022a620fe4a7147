package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	pkgkafka "github.com/Shreyashgol/genAI-capstone-project/pkg/kafka"
)

// Predictor is satisfied by *usecase.PredictChurn.
type Predictor interface {
	Execute(ctx context.Context, req dto.PredictChurnRequest) (dto.PredictionResponse, error)
}

// ScoringRequest is the message body on the scoring topic.
type ScoringRequest struct {
	TenantID   string         `json:"tenant_id"`
	CustomerID string         `json:"customer_id"`
	Model      string         `json:"model,omitempty"`
	Record     map[string]any `json:"record"`
}

// ScoringHandler turns scoring requests into predictions.
type ScoringHandler struct {
	predictor Predictor
	logger    *slog.Logger
}

func NewScoringHandler(predictor Predictor, logger *slog.Logger) *ScoringHandler {
	return &ScoringHandler{predictor: predictor, logger: logger}
}

// Handle decodes and scores one message. Requests that can never succeed are
// wrapped in pkgkafka.ErrPermanent so the consumer skips them. So are
// predictions that were stored before event publishing failed, since a
// redelivery would store a second prediction. Other storage and broker
// failures are returned as is and redelivered. An empty record is scored
// as an all-zero feature vector.
func (h *ScoringHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	req, err := decodeScoringRequest(msg.Value)
	if err != nil {
		return fmt.Errorf("%w: offset %d: %v", pkgkafka.ErrPermanent, msg.Offset, err)
	}

	resp, err := h.predictor.Execute(ctx, req)
	if err != nil {
		if isPermanent(err) {
			return fmt.Errorf("%w: %v", pkgkafka.ErrPermanent, err)
		}
		return err
	}

	h.logger.InfoContext(ctx, "scored customer from topic",
		slog.String("prediction_id", resp.ID.String()),
		slog.String("customer_id", resp.CustomerID),
		slog.String("model", resp.Model),
		slog.String("class", resp.Class),
		slog.String("risk_level", resp.RiskLevel),
	)
	return nil
}

func decodeScoringRequest(body []byte) (dto.PredictChurnRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var sr ScoringRequest
	if err := dec.Decode(&sr); err != nil {
		return dto.PredictChurnRequest{}, fmt.Errorf("invalid scoring request: %w", err)
	}
	tenantID, err := uuid.Parse(sr.TenantID)
	if err != nil {
		return dto.PredictChurnRequest{}, fmt.Errorf("invalid tenant_id: %w", err)
	}
	if sr.Model == "" {
		sr.Model = artifact.ModelLogisticRegression
	}
	return dto.PredictChurnRequest{
		TenantID:   tenantID,
		CustomerID: sr.CustomerID,
		Model:      sr.Model,
		Record:     sr.Record,
	}, nil
}

func isPermanent(err error) bool {
	for _, target := range []error{
		service.ErrUnknownModel,
		feature.ErrMalformedRecord,
		feature.ErrUnknownColumns,
		estimator.ErrDimensionMismatch,
		service.ErrInferenceFailed,
		usecase.ErrEventsNotPublished,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
