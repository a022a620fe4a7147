package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	churngrpc "github.com/Shreyashgol/genAI-capstone-project/internal/presentation/grpc"
)

const maxBodyBytes = 1 << 20

// APIHandler exposes ChurnService as JSON over HTTP. Calls go straight to
// the in-process service so roles and error codes match the gRPC API.
type APIHandler struct {
	svc    churngrpc.ChurnServiceServer
	logger *slog.Logger
}

func NewAPIHandler(svc churngrpc.ChurnServiceServer, logger *slog.Logger) *APIHandler {
	return &APIHandler{svc: svc, logger: logger}
}

// RegisterRoutes adds the /api/v1 routes to mux.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/predictions", h.predictChurn)
	mux.HandleFunc("GET /api/v1/predictions/{id}", h.getPrediction)
	mux.HandleFunc("GET /api/v1/customers/{customer_id}/predictions", h.listCustomerPredictions)
	mux.HandleFunc("GET /api/v1/models", h.listModels)
	mux.HandleFunc("POST /api/v1/evaluations", h.evaluateModel)
	mux.HandleFunc("GET /api/v1/evaluations/{id}", h.getEvaluation)
}

func (h *APIHandler) predictChurn(w http.ResponseWriter, r *http.Request) {
	var req churngrpc.PredictChurnRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.svc.PredictChurn(r.Context(), &req)
	h.respond(w, http.StatusCreated, resp, err)
}

func (h *APIHandler) getPrediction(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetPrediction(r.Context(), &churngrpc.GetPredictionRequest{ID: r.PathValue("id")})
	h.respond(w, http.StatusOK, resp, err)
}

func (h *APIHandler) listCustomerPredictions(w http.ResponseWriter, r *http.Request) {
	req := &churngrpc.ListCustomerPredictionsRequest{CustomerID: r.PathValue("customer_id")}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		req.Limit = int32(limit)
	}
	resp, err := h.svc.ListCustomerPredictions(r.Context(), req)
	h.respond(w, http.StatusOK, resp, err)
}

func (h *APIHandler) listModels(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ListModels(r.Context(), &churngrpc.ListModelsRequest{})
	h.respond(w, http.StatusOK, resp, err)
}

func (h *APIHandler) evaluateModel(w http.ResponseWriter, r *http.Request) {
	var req churngrpc.EvaluateModelRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.svc.EvaluateModel(r.Context(), &req)
	h.respond(w, http.StatusCreated, resp, err)
}

func (h *APIHandler) getEvaluation(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetEvaluation(r.Context(), &churngrpc.GetEvaluationRequest{ID: r.PathValue("id")})
	h.respond(w, http.StatusOK, resp, err)
}

func (h *APIHandler) respond(w http.ResponseWriter, code int, resp any, err error) {
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, code, resp)
}

// writeServiceError translates a status error from the service into an
// HTTP response. The service has already logged and redacted internals.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok {
		h.logger.Error("service call failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeError(w, httpStatus(st.Code()), st.Message())
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// readJSON decodes a request body of at most 1 MiB. Numbers stay
// json.Number so integer attributes are not widened to float64.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	if len(body) > maxBodyBytes {
		return errors.New("request body exceeds 1 MiB")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
