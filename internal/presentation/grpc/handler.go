package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/dataset"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/auth"
)

// Roles allowed per operation.
var (
	scoringRoles    = []string{auth.RoleAdmin, auth.RoleAgent, auth.RoleAPIClient}
	readRoles       = []string{auth.RoleAdmin, auth.RoleAgent, auth.RoleAnalyst, auth.RoleAuditor, auth.RoleAPIClient}
	evaluationRoles = []string{auth.RoleAdmin, auth.RoleAnalyst}
)

// tenantIDFromContext extracts the tenant ID from JWT claims in the context.
func tenantIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.TenantID, nil
}

// authorize checks the caller's roles and returns their tenant.
func authorize(ctx context.Context, roles []string) (uuid.UUID, error) {
	if err := auth.RequireRole(ctx, roles...); err != nil {
		return uuid.Nil, err
	}
	return tenantIDFromContext(ctx)
}

// toStatus maps use-case errors onto gRPC codes. Internal details are logged,
// not returned.
func (h *ChurnServiceHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound),
		errors.Is(err, dataset.ErrNotFound),
		errors.Is(err, service.ErrUnknownModel):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, feature.ErrMalformedRecord),
		errors.Is(err, feature.ErrUnknownColumns),
		errors.Is(err, service.ErrEmptyDataset),
		errors.Is(err, service.ErrLabelCountMismatch),
		errors.Is(err, service.ErrInvalidLabel):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, estimator.ErrDimensionMismatch):
		h.logger.ErrorContext(ctx, "artifact dimension mismatch", slog.String("op", op), slog.String("error", err.Error()))
		return status.Error(codes.FailedPrecondition, "model artifacts are inconsistent")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", slog.String("op", op), slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}

// Compile-time assertion that ChurnServiceHandler implements ChurnServiceServer.
var _ ChurnServiceServer = (*ChurnServiceHandler)(nil)

// ChurnServiceHandler implements the gRPC ChurnServiceServer interface.
type ChurnServiceHandler struct {
	UnimplementedChurnServiceServer
	predictChurn            *usecase.PredictChurn
	getPrediction           *usecase.GetPrediction
	listCustomerPredictions *usecase.ListCustomerPredictions
	listModels              *usecase.ListModels
	evaluateModel           *usecase.EvaluateModel
	getEvaluation           *usecase.GetEvaluation
	logger                  *slog.Logger
}

// UseCases groups the operations the handler exposes.
type UseCases struct {
	PredictChurn            *usecase.PredictChurn
	GetPrediction           *usecase.GetPrediction
	ListCustomerPredictions *usecase.ListCustomerPredictions
	ListModels              *usecase.ListModels
	EvaluateModel           *usecase.EvaluateModel
	GetEvaluation           *usecase.GetEvaluation
}

// NewChurnServiceHandler creates a new gRPC handler.
func NewChurnServiceHandler(uc UseCases, logger *slog.Logger) *ChurnServiceHandler {
	return &ChurnServiceHandler{
		predictChurn:            uc.PredictChurn,
		getPrediction:           uc.GetPrediction,
		listCustomerPredictions: uc.ListCustomerPredictions,
		listModels:              uc.ListModels,
		evaluateModel:           uc.EvaluateModel,
		getEvaluation:           uc.GetEvaluation,
		logger:                  logger,
	}
}

// PredictChurn scores one customer record.
func (h *ChurnServiceHandler) PredictChurn(ctx context.Context, req *PredictChurnRequest) (*PredictChurnResponse, error) {
	tenantID, err := authorize(ctx, scoringRoles)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &PredictChurnRequest{}
	}
	model := req.Model
	if model == "" {
		model = artifact.ModelLogisticRegression
	}

	h.logger.InfoContext(ctx, "predicting churn",
		slog.String("tenant_id", tenantID.String()),
		slog.String("customer_id", req.CustomerID),
		slog.String("model", model),
	)

	result, err := h.predictChurn.Execute(ctx, dto.PredictChurnRequest{
		TenantID:   tenantID,
		CustomerID: req.CustomerID,
		Model:      model,
		Record:     req.Record,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "PredictChurn", err)
	}
	return &PredictChurnResponse{Prediction: toPredictionMsg(result)}, nil
}

// GetPrediction returns a stored prediction.
func (h *ChurnServiceHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	tenantID, err := authorize(ctx, readRoles)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getPrediction.Execute(ctx, dto.GetPredictionRequest{TenantID: tenantID, PredictionID: id})
	if err != nil {
		return nil, h.toStatus(ctx, "GetPrediction", err)
	}
	return &GetPredictionResponse{Prediction: toPredictionMsg(result)}, nil
}

// ListCustomerPredictions returns a customer's prediction history.
func (h *ChurnServiceHandler) ListCustomerPredictions(ctx context.Context, req *ListCustomerPredictionsRequest) (*ListCustomerPredictionsResponse, error) {
	tenantID, err := authorize(ctx, readRoles)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CustomerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}

	result, err := h.listCustomerPredictions.Execute(ctx, dto.ListPredictionsRequest{
		TenantID:   tenantID,
		CustomerID: req.CustomerID,
		Limit:      int(req.Limit),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "ListCustomerPredictions", err)
	}
	out := &ListCustomerPredictionsResponse{Predictions: make([]*PredictionMsg, 0, len(result.Predictions))}
	for _, p := range result.Predictions {
		out.Predictions = append(out.Predictions, toPredictionMsg(p))
	}
	return out, nil
}

// ListModels describes the loaded models and their shared column schema.
func (h *ChurnServiceHandler) ListModels(ctx context.Context, _ *ListModelsRequest) (*ListModelsResponse, error) {
	if _, err := authorize(ctx, readRoles); err != nil {
		return nil, err
	}
	result := h.listModels.Execute(ctx)
	out := &ListModelsResponse{
		Models:          make([]*ModelMsg, 0, len(result.Models)),
		Columns:         result.Columns,
		ScalerKind:      result.ScalerKind,
		StrictAlignment: result.StrictAlign,
	}
	for _, m := range result.Models {
		out.Models = append(out.Models, &ModelMsg{Name: m.Name, Kind: m.Kind, NumFeatures: int32(m.NumFeatures)})
	}
	return out, nil
}

// EvaluateModel runs a model over a labeled dataset and stores the report.
func (h *ChurnServiceHandler) EvaluateModel(ctx context.Context, req *EvaluateModelRequest) (*EvaluateModelResponse, error) {
	tenantID, err := authorize(ctx, evaluationRoles)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Model == "" || req.Dataset == "" {
		return nil, status.Error(codes.InvalidArgument, "model and dataset are required")
	}

	h.logger.InfoContext(ctx, "evaluating model",
		slog.String("tenant_id", tenantID.String()),
		slog.String("model", req.Model),
		slog.String("dataset", req.Dataset),
	)

	result, err := h.evaluateModel.Execute(ctx, dto.EvaluateModelRequest{TenantID: tenantID, Model: req.Model, Dataset: req.Dataset})
	if err != nil {
		return nil, h.toStatus(ctx, "EvaluateModel", err)
	}
	return &EvaluateModelResponse{Evaluation: toEvaluationMsg(result)}, nil
}

// GetEvaluation returns a stored evaluation report.
func (h *ChurnServiceHandler) GetEvaluation(ctx context.Context, req *GetEvaluationRequest) (*GetEvaluationResponse, error) {
	tenantID, err := authorize(ctx, readRoles)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getEvaluation.Execute(ctx, dto.GetEvaluationRequest{TenantID: tenantID, EvaluationID: id})
	if err != nil {
		return nil, h.toStatus(ctx, "GetEvaluation", err)
	}
	return &GetEvaluationResponse{Evaluation: toEvaluationMsg(result)}, nil
}

func toPredictionMsg(p dto.PredictionResponse) *PredictionMsg {
	return &PredictionMsg{
		ID:                 p.ID.String(),
		CustomerID:         p.CustomerID,
		Model:              p.Model,
		Class:              p.Class,
		Headline:           p.Headline,
		ProbabilityOfChurn: p.ProbabilityOfChurn,
		ProbabilityOfStay:  p.ProbabilityOfStay,
		Confidence:         p.Confidence,
		RiskLevel:          p.RiskLevel,
		MonthlyCharges:     p.MonthlyCharges,
		RevenueAtRisk:      p.RevenueAtRisk,
		DroppedColumns:     p.DroppedColumns,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
}

func toEvaluationMsg(e dto.EvaluationResponse) *EvaluationMsg {
	roc := make([]*ROCPointMsg, len(e.ROC))
	for i, p := range e.ROC {
		roc[i] = &ROCPointMsg{FPR: p.FPR, TPR: p.TPR, Threshold: p.Threshold}
	}
	cm := e.Confusion
	return &EvaluationMsg{
		ID:              e.ID.String(),
		Model:           e.Model,
		Dataset:         e.Dataset,
		Rows:            int32(e.Rows),
		Positives:       int32(e.Positives),
		AUC:             e.AUC,
		ROCDefined:      e.ROCDefined,
		ROC:             roc,
		ConfusionMatrix: [2][2]int32{{int32(cm.TN), int32(cm.FP)}, {int32(cm.FN), int32(cm.TP)}},
		Accuracy:        e.Accuracy,
		Precision:       e.Precision,
		Recall:          e.Recall,
		F1:              e.F1,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
