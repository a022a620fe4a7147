package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/event"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/kafka"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/events"
	pkgkafka "github.com/Shreyashgol/genAI-capstone-project/pkg/kafka"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/observability"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/testutil"
)

type recordingWriter struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (w *recordingWriter) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.topic = topic
	w.messages = append(w.messages, messages...)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	p, err := model.NewChurnPrediction(testutil.TestTenantID, testutil.TestCustomerID, artifact.ModelRandomForest,
		valueobject.ChurnClassChurn, 0.9, decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	evts := p.DomainEvents()
	require.Len(t, evts, 2, "a critical prediction raises both events")

	w := &recordingWriter{}
	pub := kafka.NewPublisher(w, "churn.events", observability.NopLogger())
	require.NoError(t, pub.Publish(context.Background(), evts...))

	assert.Equal(t, "churn.events", w.topic)
	require.Len(t, w.messages, 2)
	for i, msg := range w.messages {
		assert.Equal(t, p.ID().String(), string(msg.Key))
		assert.Equal(t, evts[i].EventType(), msg.Headers["event_type"])
		assert.Equal(t, testutil.TestTenantID.String(), msg.Headers["tenant_id"])

		var env events.Envelope
		require.NoError(t, json.Unmarshal(msg.Value, &env))
		assert.Equal(t, evts[i].EventID(), env.EventID)
		assert.Equal(t, event.AggregateTypePrediction, env.AggregateType)
	}

	var payload map[string]any
	var env events.Envelope
	require.NoError(t, json.Unmarshal(w.messages[1].Value, &env))
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, event.EventTypeHighChurnRiskDetected, env.EventType)
	assert.Equal(t, "90.00", payload["revenue_at_risk"])
}

func TestPublisher_NoEvents(t *testing.T) {
	w := &recordingWriter{err: errors.New("must not be called")}
	assert.NoError(t, kafka.NewPublisher(w, "churn.events", observability.NopLogger()).Publish(context.Background()))
}

func TestPublisher_WriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	evt := event.ChurnPredicted{BaseEvent: events.NewBaseEvent(event.EventTypeChurnPredicted, uuid.NewString(), event.AggregateTypePrediction, "")}

	err := kafka.NewPublisher(w, "churn.events", observability.NopLogger()).Publish(context.Background(), evt)
	assert.ErrorContains(t, err, "failed to publish events to topic churn.events")
}

type stubPredictor struct {
	got dto.PredictChurnRequest
	err error
}

func (s *stubPredictor) Execute(_ context.Context, req dto.PredictChurnRequest) (dto.PredictionResponse, error) {
	s.got = req
	if s.err != nil {
		return dto.PredictionResponse{}, s.err
	}
	return dto.PredictionResponse{ID: uuid.New(), CustomerID: req.CustomerID, Model: req.Model, Class: "STAY", RiskLevel: "LOW"}, nil
}

func scoringMessage(t *testing.T, body any) pkgkafka.Message {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return pkgkafka.Message{Topic: "churn.scoring.requests", Value: b}
}

func TestScoringHandler_Handle(t *testing.T) {
	t.Run("decodes and scores", func(t *testing.T) {
		pred := &stubPredictor{}
		h := kafka.NewScoringHandler(pred, observability.NopLogger())

		err := h.Handle(context.Background(), scoringMessage(t, kafka.ScoringRequest{
			TenantID:   testutil.TestTenantID.String(),
			CustomerID: testutil.TestCustomerID,
			Record:     testutil.TelcoRecord(),
		}))

		require.NoError(t, err)
		assert.Equal(t, testutil.TestTenantID, pred.got.TenantID)
		assert.Equal(t, artifact.ModelLogisticRegression, pred.got.Model, "model defaults to logistic regression")
		assert.Equal(t, json.Number("1"), pred.got.Record["tenure"], "numbers keep their JSON form")

		rec, err := feature.RecordFromMap(pred.got.Record)
		require.NoError(t, err)
		tenure, _ := rec.Get("tenure")
		assert.Equal(t, feature.KindInt, tenure.Kind())
	})

	t.Run("passes an empty record through", func(t *testing.T) {
		pred := &stubPredictor{}
		h := kafka.NewScoringHandler(pred, observability.NopLogger())

		err := h.Handle(context.Background(), scoringMessage(t, map[string]any{"tenant_id": testutil.TestTenantID.String()}))

		require.NoError(t, err)
		assert.Empty(t, pred.got.Record)
	})

	t.Run("bad payloads are permanent", func(t *testing.T) {
		h := kafka.NewScoringHandler(&stubPredictor{}, observability.NopLogger())
		for name, msg := range map[string]pkgkafka.Message{
			"not json":       {Value: []byte("{")},
			"bad tenant":     scoringMessage(t, map[string]any{"tenant_id": "acme", "record": map[string]any{"tenure": 1}}),
			"record as text": scoringMessage(t, map[string]any{"tenant_id": testutil.TestTenantID.String(), "record": "oops"}),
		} {
			assert.ErrorIs(t, h.Handle(context.Background(), msg), pkgkafka.ErrPermanent, name)
		}
	})

	t.Run("domain failures are permanent", func(t *testing.T) {
		h := kafka.NewScoringHandler(&stubPredictor{err: service.ErrUnknownModel}, observability.NopLogger())
		err := h.Handle(context.Background(), scoringMessage(t, kafka.ScoringRequest{
			TenantID: testutil.TestTenantID.String(), Model: "SVM", Record: testutil.TelcoRecord(),
		}))
		assert.ErrorIs(t, err, pkgkafka.ErrPermanent)
	})

	t.Run("storage failures are retried", func(t *testing.T) {
		h := kafka.NewScoringHandler(&stubPredictor{err: errors.New("failed to save prediction: timeout")}, observability.NopLogger())
		err := h.Handle(context.Background(), scoringMessage(t, kafka.ScoringRequest{
			TenantID: testutil.TestTenantID.String(), Record: testutil.TelcoRecord(),
		}))
		require.Error(t, err)
		assert.NotErrorIs(t, err, pkgkafka.ErrPermanent)
	})

	t.Run("stored predictions are not rescored when publishing fails", func(t *testing.T) {
		published := fmt.Errorf("failed to publish events: %w: %w", usecase.ErrEventsNotPublished, errors.New("broker down"))
		h := kafka.NewScoringHandler(&stubPredictor{err: published}, observability.NopLogger())
		err := h.Handle(context.Background(), scoringMessage(t, kafka.ScoringRequest{
			TenantID: testutil.TestTenantID.String(), Record: testutil.TelcoRecord(),
		}))
		assert.ErrorIs(t, err, pkgkafka.ErrPermanent)
	})
}
