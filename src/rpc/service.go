// Package rpc exposes the score store over gRPC. Messages are
// google.protobuf.Struct values carrying the same fields as the HTTP API, so
// no generated code is needed.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "dive.v1.ScoreService"

	SubmitMethod      = "/" + ServiceName + "/Submit"
	LeaderboardMethod = "/" + ServiceName + "/Leaderboard"
)

// ScoreServiceServer is implemented by Server.
type ScoreServiceServer interface {
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Leaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes dive.v1.ScoreService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScoreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "Leaderboard", Handler: leaderboardHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dive/v1/score.proto",
}

// RegisterScoreServiceServer registers srv on s.
func RegisterScoreServiceServer(s grpc.ServiceRegistrar, srv ScoreServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func submitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoreServiceServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SubmitMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoreServiceServer).Submit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func leaderboardHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoreServiceServer).Leaderboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LeaderboardMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoreServiceServer).Leaderboard(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
