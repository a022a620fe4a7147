// Package telemetry records churn scoring metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/telemetry"

// Recorder implements port.ChurnMetrics.
type Recorder struct {
	predictions   metric.Int64Counter
	failures      metric.Int64Counter
	probability   metric.Float64Histogram
	latency       metric.Float64Histogram
	evaluationAUC metric.Float64Gauge
}

// NewRecorder registers the churn instruments on provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	m := provider.Meter(meterName)
	var (
		r   Recorder
		err error
	)
	if r.predictions, err = m.Int64Counter("churn.predictions",
		metric.WithDescription("Predictions served, by model and class")); err != nil {
		return nil, fmt.Errorf("creating predictions counter: %w", err)
	}
	if r.failures, err = m.Int64Counter("churn.prediction.failures",
		metric.WithDescription("Predictions that failed, by model and reason")); err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}
	if r.probability, err = m.Float64Histogram("churn.probability",
		metric.WithDescription("Predicted probability of churn"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.35, 0.5, 0.6, 0.8, 0.9)); err != nil {
		return nil, fmt.Errorf("creating probability histogram: %w", err)
	}
	if r.latency, err = m.Float64Histogram("churn.prediction.duration",
		metric.WithDescription("End-to-end scoring latency"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}
	if r.evaluationAUC, err = m.Float64Gauge("churn.evaluation.auc",
		metric.WithDescription("ROC AUC of the latest evaluation, by model")); err != nil {
		return nil, fmt.Errorf("creating auc gauge: %w", err)
	}
	return &r, nil
}

func (r *Recorder) RecordPrediction(ctx context.Context, model, class string, probabilityOfChurn float64, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("model", model), attribute.String("class", class))
	r.predictions.Add(ctx, 1, attrs)
	r.probability.Record(ctx, probabilityOfChurn, metric.WithAttributes(attribute.String("model", model)))
	r.latency.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("model", model)))
}

func (r *Recorder) RecordPredictionError(ctx context.Context, model, reason string) {
	r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("model", model), attribute.String("reason", reason)))
}

func (r *Recorder) RecordEvaluation(ctx context.Context, model string, auc float64) {
	r.evaluationAUC.Record(ctx, auc, metric.WithAttributes(attribute.String("model", model)))
}
