package usecase

import (
	"errors"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a requested prediction or report does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEventsNotPublished means the aggregate was stored but its events
	// were not. Retrying the whole operation would store it again.
	ErrEventsNotPublished = errors.New("stored but events not published")
)

// failureReason maps a scoring error to a low-cardinality metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrUnknownModel):
		return "unknown_model"
	case errors.Is(err, feature.ErrUnknownColumns):
		return "unknown_columns"
	case errors.Is(err, feature.ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, estimator.ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, service.ErrInferenceFailed):
		return "inference_failed"
	case errors.Is(err, ErrEventsNotPublished):
		return "publish_failed"
	default:
		return "internal"
	}
}
