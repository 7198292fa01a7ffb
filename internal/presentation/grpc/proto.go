package grpc

// proto.go defines the gRPC server interface for heartrisk/v1/heartrisk.proto.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HeartRiskServiceServer is the server API for HeartRiskService.
type HeartRiskServiceServer interface {
	Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error)
	GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error)
	mustEmbedUnimplementedHeartRiskServiceServer()
}

// UnimplementedHeartRiskServiceServer provides forward-compatible default implementations.
type UnimplementedHeartRiskServiceServer struct{}

func (UnimplementedHeartRiskServiceServer) Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Evaluate not implemented")
}
func (UnimplementedHeartRiskServiceServer) GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPrediction not implemented")
}
func (UnimplementedHeartRiskServiceServer) mustEmbedUnimplementedHeartRiskServiceServer() {}

// RegisterHeartRiskServiceServer registers the HeartRiskServiceServer with the gRPC server.
func RegisterHeartRiskServiceServer(s *grpclib.Server, srv HeartRiskServiceServer) {
	s.RegisterService(&heartRiskServiceDesc, srv)
}

var heartRiskServiceDesc = grpclib.ServiceDesc{
	ServiceName: "heartrisk.v1.HeartRiskService",
	HandlerType: (*HeartRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "GetPrediction", Handler: getPredictionHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "heartrisk/v1/heartrisk.proto",
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EvaluateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeartRiskServiceServer).Evaluate(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/heartrisk.v1.HeartRiskService/Evaluate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HeartRiskServiceServer).Evaluate(ctx, req.(*EvaluateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func getPredictionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetPredictionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeartRiskServiceServer).GetPrediction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/heartrisk.v1.HeartRiskService/GetPrediction"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HeartRiskServiceServer).GetPrediction(ctx, req.(*GetPredictionRequest))
	}
	return interceptor(ctx, req, info, handler)
}
