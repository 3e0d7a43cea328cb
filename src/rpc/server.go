package rpc

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"dive-server/src/store"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements ScoreServiceServer on top of a store.
type Server struct {
	store store.Store
	// OnStored runs after every successful insert.
	OnStored func(store.Score)
}

func NewServer(st store.Store) *Server {
	return &Server{store: st}
}

// NewGRPCServer returns a grpc.Server with the score service registered and
// request logging installed.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary)}, opts...)
	s := grpc.NewServer(opts...)
	RegisterScoreServiceServer(s, srv)
	return s
}

func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("gRPC %s %s in %v", info.FullMethod, status.Code(err), time.Since(start))
	return resp, err
}

// Submit validates and stores one score.
func (s *Server) Submit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	sub, err := store.Validate(store.Submission{
		Name:      fields["name"].GetStringValue(),
		Phone:     fields["phone"].GetStringValue(),
		Depth:     numberOf(fields["depth"]),
		Character: fields["character"].GetStringValue(),
	})
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	score, err := s.store.Insert(ctx, sub)
	if err != nil {
		log.Printf("gRPC score insert error: %v", err)
		return nil, status.Error(codes.Internal, "DB error")
	}
	if s.OnStored != nil {
		s.OnStored(score)
	}
	return structpb.NewStruct(map[string]interface{}{
		"ok":         true,
		"id":         score.ID,
		"created_at": score.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

// Leaderboard returns the top entries. limit defaults to store.DefaultLimit.
func (s *Server) Leaderboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	limit := store.DefaultLimit
	if v, ok := in.GetFields()["limit"]; ok {
		if f := numberOf(v); !math.IsNaN(f) && !math.IsInf(f, 0) {
			limit = store.ClampLimit(int(math.Max(math.Min(f, store.MaxLimit), -1)))
		}
	}

	entries, err := s.store.Top(ctx, limit)
	if err != nil {
		log.Printf("gRPC leaderboard query error: %v", err)
		return nil, status.Error(codes.Internal, "DB error")
	}
	data := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data = append(data, map[string]interface{}{
			"name":       e.Name,
			"depth":      e.Depth,
			"character":  e.Character,
			"created_at": e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return structpb.NewStruct(map[string]interface{}{"ok": true, "data": data})
}

// numberOf reads a number or numeric string; anything else is NaN.
func numberOf(v *structpb.Value) float64 {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_StringValue:
		if f, err := strconv.ParseFloat(strings.TrimSpace(k.StringValue), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
