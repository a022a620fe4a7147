package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
)

// ChurnServiceClient is the client side of ChurnService. Every call uses
// the JSON codec.
type ChurnServiceClient struct {
	cc grpclib.ClientConnInterface
}

func NewChurnServiceClient(cc grpclib.ClientConnInterface) *ChurnServiceClient {
	return &ChurnServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpclib.ClientConnInterface, method string, req *Req, opts []grpclib.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChurnServiceClient) PredictChurn(ctx context.Context, req *PredictChurnRequest, opts ...grpclib.CallOption) (*PredictChurnResponse, error) {
	return invoke[PredictChurnRequest, PredictChurnResponse](ctx, c.cc, MethodPredictChurn, req, opts)
}

func (c *ChurnServiceClient) GetPrediction(ctx context.Context, req *GetPredictionRequest, opts ...grpclib.CallOption) (*GetPredictionResponse, error) {
	return invoke[GetPredictionRequest, GetPredictionResponse](ctx, c.cc, MethodGetPrediction, req, opts)
}

func (c *ChurnServiceClient) ListCustomerPredictions(ctx context.Context, req *ListCustomerPredictionsRequest, opts ...grpclib.CallOption) (*ListCustomerPredictionsResponse, error) {
	return invoke[ListCustomerPredictionsRequest, ListCustomerPredictionsResponse](ctx, c.cc, MethodListCustomerPredictions, req, opts)
}

func (c *ChurnServiceClient) ListModels(ctx context.Context, req *ListModelsRequest, opts ...grpclib.CallOption) (*ListModelsResponse, error) {
	return invoke[ListModelsRequest, ListModelsResponse](ctx, c.cc, MethodListModels, req, opts)
}

func (c *ChurnServiceClient) EvaluateModel(ctx context.Context, req *EvaluateModelRequest, opts ...grpclib.CallOption) (*EvaluateModelResponse, error) {
	return invoke[EvaluateModelRequest, EvaluateModelResponse](ctx, c.cc, MethodEvaluateModel, req, opts)
}

func (c *ChurnServiceClient) GetEvaluation(ctx context.Context, req *GetEvaluationRequest, opts ...grpclib.CallOption) (*GetEvaluationResponse, error) {
	return invoke[GetEvaluationRequest, GetEvaluationResponse](ctx, c.cc, MethodGetEvaluation, req, opts)
}
