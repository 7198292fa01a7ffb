package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/bibbank/heartrisk/pkg/auth"
	"github.com/bibbank/heartrisk/pkg/tlsutil"
)

// ServerConfig controls transport options of the gRPC server.
type ServerConfig struct {
	Address     string
	TLSCertFile string
	TLSKeyFile  string

	// TLSClientCAFile, when set with a key pair, requires client certificates.
	TLSClientCAFile string
	Reflection      bool

	// Auth, when set, requires a bearer token on every call except health checks.
	Auth *auth.JWTService

	// MeterProvider, when set, records rpc.server.* metrics.
	MeterProvider metric.MeterProvider
}

// methodRoles restricts writes to clinicians; reads also admit auditors.
var methodRoles = map[string][]string{
	"/heartrisk.v1.HeartRiskService/Evaluate":      {auth.RoleClinician},
	"/heartrisk.v1.HeartRiskService/GetPrediction": {auth.RoleClinician, auth.RoleAuditor},
}

// Server wraps the gRPC server with heartrisk handlers.
type Server struct {
	address    string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// NewServer creates a new gRPC server. TLS is enabled when both a certificate
// and a key file are configured.
func NewServer(handler *HeartRiskHandler, cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	var serverOpts []grpc.ServerOption

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.TLSCertFile, cfg.TLSKeyFile, cfg.TLSClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", cfg.TLSCertFile, "mutual", cfg.TLSClientCAFile != "")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	if cfg.MeterProvider != nil {
		serverOpts = append(serverOpts, grpc.StatsHandler(otelgrpc.NewServerHandler(
			otelgrpc.WithMeterProvider(cfg.MeterProvider),
		)))
	}

	// Recovery runs outermost so a panic in auth or a handler still yields a
	// logged Internal status.
	interceptors := []grpc.UnaryServerInterceptor{recoverUnary(logger), logUnary(logger)}
	if cfg.Auth != nil {
		interceptors = append(interceptors, auth.UnaryAuthInterceptor(cfg.Auth, []string{
			"/grpc.health.v1.Health/Check",
			"/grpc.health.v1.Health/Watch",
		}, methodRoles))
	}
	serverOpts = append(serverOpts, grpc.ChainUnaryInterceptor(interceptors...))

	grpcServer := grpc.NewServer(serverOpts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(heartRiskServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	RegisterHeartRiskServiceServer(grpcServer, handler)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		address:    cfg.Address,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}, nil
}

// Start begins listening and serving gRPC requests.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server starting", slog.String("address", listener.Addr().String()))
	return s.grpcServer.Serve(listener)
}

// Stop marks the service as not serving and drains in-flight calls. When ctx
// ends first the remaining connections are closed.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("gRPC drain timed out, closing connections")
		s.grpcServer.Stop()
		<-done
	}
}

func recoverUnary(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "panic in gRPC handler",
					slog.String("method", info.FullMethod),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func logUnary(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		level := slog.LevelInfo
		if code := status.Code(err); code == codes.Internal || code == codes.Unknown {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "gRPC call",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
