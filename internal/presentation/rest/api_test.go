package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	churngrpc "github.com/Shreyashgol/genAI-capstone-project/internal/presentation/grpc"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/auth"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/observability"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/testutil"
)

type fakeService struct {
	churngrpc.UnimplementedChurnServiceServer
	lastPredict *churngrpc.PredictChurnRequest
	lastList    *churngrpc.ListCustomerPredictionsRequest
}

func (f *fakeService) PredictChurn(ctx context.Context, req *churngrpc.PredictChurnRequest) (*churngrpc.PredictChurnResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleAgent); err != nil {
		return nil, err
	}
	f.lastPredict = req
	if _, ok := req.Record["tenure"].(string); ok {
		return nil, status.Error(codes.InvalidArgument, "invalid record: tenure is not numeric")
	}
	return &churngrpc.PredictChurnResponse{Prediction: &churngrpc.PredictionMsg{ID: "p-1", Class: "CHURN", Model: "LR"}}, nil
}

func (f *fakeService) GetPrediction(_ context.Context, req *churngrpc.GetPredictionRequest) (*churngrpc.GetPredictionResponse, error) {
	return nil, status.Errorf(codes.NotFound, "prediction %s not found", req.ID)
}

func (f *fakeService) ListCustomerPredictions(_ context.Context, req *churngrpc.ListCustomerPredictionsRequest) (*churngrpc.ListCustomerPredictionsResponse, error) {
	f.lastList = req
	return &churngrpc.ListCustomerPredictionsResponse{}, nil
}

func (f *fakeService) ListModels(ctx context.Context, _ *churngrpc.ListModelsRequest) (*churngrpc.ListModelsResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleAgent, auth.RoleAnalyst); err != nil {
		return nil, err
	}
	return &churngrpc.ListModelsResponse{Models: []*churngrpc.ModelMsg{{Name: "LR"}}}, nil
}

func (f *fakeService) EvaluateModel(context.Context, *churngrpc.EvaluateModelRequest) (*churngrpc.EvaluateModelResponse, error) {
	return nil, status.Error(codes.FailedPrecondition, "model expects 3 features")
}

type apiFixture struct {
	svc     *fakeService
	handler http.Handler
	jwt     *auth.JWTService
}

func newAPIFixture(t *testing.T, rps int) apiFixture {
	t.Helper()
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "churn-test"})
	require.NoError(t, err)

	svc := &fakeService{}
	mux := http.NewServeMux()
	NewAPIHandler(svc, observability.NopLogger()).RegisterRoutes(mux)
	h := Chain(mux,
		Logging(observability.NopLogger()),
		Authenticate(jwtSvc),
		RateLimit(NewRateLimiter(rps, rps)),
	)
	return apiFixture{svc: svc, handler: h, jwt: jwtSvc}
}

func (f apiFixture) do(t *testing.T, method, path, body string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if roles != nil {
		token, err := f.jwt.GenerateToken(testutil.TestUserID, testutil.TestTenantID, roles)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAPIHandler(t *testing.T) {
	f := newAPIFixture(t, 100)

	t.Run("predicts with integer attributes intact", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/predictions",
			`{"customer_id":"c-1","record":{"tenure":12,"Contract":"Month-to-month"}}`, auth.RoleAgent)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp churngrpc.PredictChurnResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "CHURN", resp.Prediction.Class)
		assert.Equal(t, json.Number("12"), f.svc.lastPredict.Record["tenure"])
		assert.Equal(t, "c-1", f.svc.lastPredict.CustomerID)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/predictions", `{"record":`, auth.RoleAgent)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodPost, "/api/v1/predictions", "", auth.RoleAgent)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "request body is empty", errorBody(t, rec))
	})

	t.Run("maps status codes", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/predictions", `{"record":{"tenure":"long"}}`, auth.RoleAgent)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/v1/predictions/abc", "", auth.RoleAgent)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "prediction abc not found", errorBody(t, rec))

		rec = f.do(t, http.MethodPost, "/api/v1/evaluations", `{"model":"RF","dataset":"holdout.csv"}`, auth.RoleAnalyst)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/v1/evaluations/abc", "", auth.RoleAnalyst)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("enforces roles from the token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/predictions", `{"record":{"tenure":1}}`, auth.RoleAuditor)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/v1/models", "", auth.RoleAnalyst)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("parses the history limit", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/customers/c-9/predictions?limit=5", "", auth.RoleAgent)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "c-9", f.svc.lastList.CustomerID)
		assert.Equal(t, int32(5), f.svc.lastList.Limit)

		rec = f.do(t, http.MethodGet, "/api/v1/customers/c-9/predictions?limit=many", "", auth.RoleAgent)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires a bearer token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/models", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec = httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid token", errorBody(t, rec))
	})
}

func TestRateLimit(t *testing.T) {
	f := newAPIFixture(t, 2)

	for range 2 {
		rec := f.do(t, http.MethodGet, "/api/v1/models", "", auth.RoleAgent)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := f.do(t, http.MethodGet, "/api/v1/models", "", auth.RoleAgent)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_Refills(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(10, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("tenant:a"))
	assert.False(t, rl.Allow("tenant:a"))
	assert.True(t, rl.Allow("tenant:b"), "buckets are per key")

	now = now.Add(100 * time.Millisecond)
	assert.True(t, rl.Allow("tenant:a"))
	assert.False(t, rl.Allow("tenant:a"))
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "addr:10.0.0.7", clientKey(req))

	ctx := auth.ContextWithClaims(req.Context(), &auth.Claims{TenantID: testutil.TestTenantID})
	assert.Equal(t, "tenant:"+testutil.TestTenantID.String(), clientKey(req.WithContext(ctx)))
}
