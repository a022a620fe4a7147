package grpc

// proto.go holds the hand-written service descriptor for churn.v1.ChurnService.
// Messages are plain structs carried by the JSON codec in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "churn.v1.ChurnService"

// Full method names, used by clients and by the auth interceptor.
const (
	MethodPredictChurn            = "/" + serviceName + "/PredictChurn"
	MethodGetPrediction           = "/" + serviceName + "/GetPrediction"
	MethodListCustomerPredictions = "/" + serviceName + "/ListCustomerPredictions"
	MethodListModels              = "/" + serviceName + "/ListModels"
	MethodEvaluateModel           = "/" + serviceName + "/EvaluateModel"
	MethodGetEvaluation           = "/" + serviceName + "/GetEvaluation"
)

// ChurnServiceServer is the server API for ChurnService.
type ChurnServiceServer interface {
	PredictChurn(context.Context, *PredictChurnRequest) (*PredictChurnResponse, error)
	GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error)
	ListCustomerPredictions(context.Context, *ListCustomerPredictionsRequest) (*ListCustomerPredictionsResponse, error)
	ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error)
	EvaluateModel(context.Context, *EvaluateModelRequest) (*EvaluateModelResponse, error)
	GetEvaluation(context.Context, *GetEvaluationRequest) (*GetEvaluationResponse, error)
	mustEmbedUnimplementedChurnServiceServer()
}

// UnimplementedChurnServiceServer provides forward-compatible default implementations.
type UnimplementedChurnServiceServer struct{}

func (UnimplementedChurnServiceServer) PredictChurn(context.Context, *PredictChurnRequest) (*PredictChurnResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PredictChurn not implemented")
}
func (UnimplementedChurnServiceServer) GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPrediction not implemented")
}
func (UnimplementedChurnServiceServer) ListCustomerPredictions(context.Context, *ListCustomerPredictionsRequest) (*ListCustomerPredictionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCustomerPredictions not implemented")
}
func (UnimplementedChurnServiceServer) ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListModels not implemented")
}
func (UnimplementedChurnServiceServer) EvaluateModel(context.Context, *EvaluateModelRequest) (*EvaluateModelResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateModel not implemented")
}
func (UnimplementedChurnServiceServer) GetEvaluation(context.Context, *GetEvaluationRequest) (*GetEvaluationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetEvaluation not implemented")
}
func (UnimplementedChurnServiceServer) mustEmbedUnimplementedChurnServiceServer() {}

// RegisterChurnServiceServer registers the ChurnServiceServer with the gRPC server.
func RegisterChurnServiceServer(s grpclib.ServiceRegistrar, srv ChurnServiceServer) {
	s.RegisterService(&churnServiceDesc, srv)
}

var churnServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ChurnServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "PredictChurn", Handler: unaryHandler(ChurnServiceServer.PredictChurn, MethodPredictChurn)},
		{MethodName: "GetPrediction", Handler: unaryHandler(ChurnServiceServer.GetPrediction, MethodGetPrediction)},
		{MethodName: "ListCustomerPredictions", Handler: unaryHandler(ChurnServiceServer.ListCustomerPredictions, MethodListCustomerPredictions)},
		{MethodName: "ListModels", Handler: unaryHandler(ChurnServiceServer.ListModels, MethodListModels)},
		{MethodName: "EvaluateModel", Handler: unaryHandler(ChurnServiceServer.EvaluateModel, MethodEvaluateModel)},
		{MethodName: "GetEvaluation", Handler: unaryHandler(ChurnServiceServer.GetEvaluation, MethodGetEvaluation)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "churn/v1/churn.proto",
}

// unaryHandler adapts a typed method to grpc.MethodDesc, running the
// server's interceptor chain the way generated code does.
func unaryHandler[Req, Resp any](
	method func(ChurnServiceServer, context.Context, *Req) (*Resp, error),
	fullMethod string,
) func(any, context.Context, func(any) error, grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(ChurnServiceServer), ctx, req)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(ChurnServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}
