// Package rpc serves win predictions over gRPC. Messages travel as
// google.protobuf.Struct values so no generated stubs are needed.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "rosterwins.v1.Predictor"

// Full method names
const (
	PredictMethod = "/" + ServiceName + "/Predict"
	CompareMethod = "/" + ServiceName + "/Compare"
	ModelMethod   = "/" + ServiceName + "/GetModel"
)

// PredictRequest is the decoded Predict payload. Exactly one of Names and
// Players is set.
type PredictRequest struct {
	Names   []string                 `json:"names,omitempty"`
	Players []*models.PlayerStatLine `json:"players,omitempty"`
	TopN    int                      `json:"top_n,omitempty"`
}

// CompareRequest is the decoded Compare payload
type CompareRequest struct {
	First  PredictRequest `json:"first"`
	Second PredictRequest `json:"second"`
	TopN   int            `json:"top_n,omitempty"`
}

// PredictorServer is the server API of rosterwins.v1.Predictor
type PredictorServer interface {
	Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Compare(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetModel(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes rosterwins.v1.Predictor for grpc.Server registration
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PredictorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: unaryHandler("Predict", PredictorServer.Predict)},
		{MethodName: "Compare", Handler: unaryHandler("Compare", PredictorServer.Compare)},
		{MethodName: "GetModel", Handler: unaryHandler("GetModel", PredictorServer.GetModel)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rosterwins/v1/predictor.proto",
}

type unaryFunc func(PredictorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, fn unaryFunc) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(PredictorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(srv.(PredictorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server implements PredictorServer on top of the prediction service
type Server struct {
	svc    *service.PredictionService
	logger *logrus.Logger
}

// NewServer creates the Predictor implementation
func NewServer(svc *service.PredictionService, logger *logrus.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// Predict scores one roster
func (s *Server) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in PredictRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatus(err)
	}
	roster, err := s.resolve(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	pred, err := s.svc.Predict(ctx, service.SourceGRPC, roster, topN(in.TopN))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(pred)
}

// Compare scores two rosters with the same model
func (s *Server) Compare(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in CompareRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatus(err)
	}
	first, err := s.resolve(ctx, in.First)
	if err != nil {
		return nil, toStatus(fmt.Errorf("first roster: %w", err))
	}
	second, err := s.resolve(ctx, in.Second)
	if err != nil {
		return nil, toStatus(fmt.Errorf("second roster: %w", err))
	}
	cmp, err := s.svc.Compare(ctx, service.SourceGRPC, first, second, topN(in.TopN))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(cmp)
}

// GetModel describes the serving model
func (s *Server) GetModel(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	info, err := s.svc.ModelInfo()
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(info)
}

func (s *Server) resolve(ctx context.Context, in PredictRequest) (models.RosterRecord, error) {
	switch {
	case len(in.Names) > 0 && len(in.Players) > 0:
		return models.RosterRecord{}, fmt.Errorf("%w: give either names or players, not both", errInvalidRequest)
	case len(in.Names) > 0:
		return s.svc.Resolve(ctx, in.Names)
	default:
		return models.NewRoster(in.Players...)
	}
}

// NewGRPCServer builds a grpc.Server carrying the Predictor and the standard
// health service. The returned health server reports SERVING for the
// Predictor once SetServing is called.
func NewGRPCServer(impl PredictorServer, logger *logrus.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&ServiceDesc, impl)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

// SetServing flips the Predictor health status
func SetServing(hs *health.Server, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus(ServiceName, st)
	hs.SetServingStatus("", st)
}

func loggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		metrics.RecordRPC(info.FullMethod, code.String(), time.Since(start).Seconds())

		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		})
		if err != nil {
			entry.WithError(err).Warn("gRPC request failed")
		} else {
			entry.Debug("gRPC request")
		}
		return resp, err
	}
}

func fromStruct(in *structpb.Struct, dst interface{}) error {
	raw, err := json.Marshal(in.AsMap())
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, toStatus(fmt.Errorf("encoding response: %w", err))
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, toStatus(fmt.Errorf("encoding response: %w", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, toStatus(fmt.Errorf("encoding response: %w", err))
	}
	return out, nil
}

func topN(n int) int {
	if n <= 0 {
		return predict.DefaultStrengths
	}
	return n
}
