package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/heartrisk/internal/application/usecase"
	"github.com/bibbank/heartrisk/internal/domain/port"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
	"github.com/bibbank/heartrisk/internal/infrastructure/config"
	"github.com/bibbank/heartrisk/internal/infrastructure/dataset"
	kafkapublisher "github.com/bibbank/heartrisk/internal/infrastructure/kafka"
	"github.com/bibbank/heartrisk/internal/infrastructure/memory"
	"github.com/bibbank/heartrisk/internal/infrastructure/messaging"
	"github.com/bibbank/heartrisk/internal/infrastructure/ml"
	"github.com/bibbank/heartrisk/internal/infrastructure/postgres"
	sqspublisher "github.com/bibbank/heartrisk/internal/infrastructure/sqs"
	"github.com/bibbank/heartrisk/internal/infrastructure/telemetry"
	"github.com/bibbank/heartrisk/internal/presentation/cli"
	grpcpresentation "github.com/bibbank/heartrisk/internal/presentation/grpc"
	"github.com/bibbank/heartrisk/internal/presentation/rest"
	"github.com/bibbank/heartrisk/migrations"
	"github.com/bibbank/heartrisk/pkg/auth"
	"github.com/bibbank/heartrisk/pkg/kafka"
	"github.com/bibbank/heartrisk/pkg/observability"
	pkgpostgres "github.com/bibbank/heartrisk/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitConfigError)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitConfigError)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevelOr("info"),
		Format:  cfg.LogFormatOr("json"),
		Service: "heartriskd",
	})

	logger.Info("starting heartriskd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"strategy", cfg.Strategy,
	)

	metrics, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:       "heartrisk",
		RuntimeCollectors: true,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(cli.ExitInternalError)
	}
	defer metrics.Shutdown(context.Background()) //nolint:errcheck

	// Storage: PostgreSQL when configured, in-memory otherwise.
	var (
		repo   port.PredictionRepository
		checks = map[string]rest.ReadinessCheck{}
	)
	if cfg.DatabaseURL != "" {
		pool, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(cli.ExitInternalError)
		}
		defer pool.Close()
		repo = postgres.NewPredictionRepository(pool)
		checks["database"] = pkgpostgres.Ready(pool)
	} else {
		logger.Warn("DATABASE_URL not set, predictions are kept in memory")
		repo = memory.NewPredictionRepository()
	}

	// Events: Kafka when brokers are configured, then SQS, the log otherwise.
	var publisher port.EventPublisher
	switch {
	case cfg.KafkaEnabled():
		producer, err := kafka.NewProducer(cfg.Kafka())
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(cli.ExitInternalError)
		}
		defer producer.Close()
		publisher = kafkapublisher.NewPublisher(producer, cfg.KafkaTopic, logger)
		checks["kafka"] = producer.Ping
	case cfg.SQSQueueURL != "":
		client, err := sqspublisher.NewClient(ctx)
		if err != nil {
			logger.Error("failed to create SQS client", "error", err)
			os.Exit(cli.ExitInternalError)
		}
		publisher = sqspublisher.NewPublisher(client, cfg.SQSQueueURL, logger)
	default:
		publisher = messaging.NewLogPublisher(logger)
	}

	// Scoring strategy.
	strategy, err := buildStrategy(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build scoring strategy", "error", err)
		os.Exit(cli.ExitConfigError)
	}
	instrumented, err := telemetry.NewInstrumentedStrategy(strategy, metrics.Meter())
	if err != nil {
		logger.Error("failed to instrument scoring strategy", "error", err)
		os.Exit(cli.ExitInternalError)
	}

	// Optional bearer-token authentication.
	var jwtService *auth.JWTService
	if cfg.AuthEnabled() {
		jwtCfg, err := cfg.JWT()
		if err != nil {
			logger.Error("failed to load JWT configuration", "error", err)
			os.Exit(cli.ExitConfigError)
		}
		jwtService, err = auth.NewJWTService(jwtCfg)
		if err != nil {
			logger.Error("failed to initialize JWT service", "error", err)
			os.Exit(cli.ExitConfigError)
		}
		logger.Info("API authentication enabled", "issuer", cfg.JWTIssuer)
	} else if cfg.IsProduction() {
		logger.Warn("API authentication disabled in production")
	}

	// Wire use cases.
	submitPredictionUC := usecase.NewSubmitPrediction(repo, publisher, instrumented, logger)
	getPredictionUC := usecase.NewGetPrediction(repo)
	listPredictionsUC := usecase.NewListPredictions(repo)
	recommendDietUC := usecase.NewRecommendDiet(service.NewDietAdvisor())

	// gRPC server.
	grpcHandler := grpcpresentation.NewHeartRiskHandler(submitPredictionUC, getPredictionUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:         cfg.GRPCAddress(),
		TLSCertFile:     cfg.TLSCertFile,
		TLSKeyFile:      cfg.TLSKeyFile,
		TLSClientCAFile: cfg.TLSClientCA,
		Reflection:      cfg.Reflection && !cfg.IsProduction(),
		Auth:            jwtService,
		MeterProvider:   metrics.Provider,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(cli.ExitInternalError)
	}

	// HTTP server.
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(logger, checks).RegisterRoutes(httpMux)
	rest.NewPredictionHandler(submitPredictionUC, getPredictionUC, listPredictionsUC, recommendDietUC, logger).RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metrics.Handler)

	var h http.Handler = httpMux
	h = rest.LimitBody(h)
	if jwtService != nil {
		h = auth.HTTPMiddleware(jwtService, []string{"/healthz", "/readyz", "/metrics"},
			[]string{auth.RoleClinician, auth.RoleAuditor}, []string{auth.RoleClinician})(h)
	}
	h = rest.LoggingMiddleware(logger)(h)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("heartriskd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down heartriskd")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	grpcServer.Stop(shutdownCtx)

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("heartriskd stopped")
}

// openDatabase connects and migrates. Migrations come from MIGRATIONS_DIR
// when set, from the embedded schema otherwise.
func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.Open(dbCtx, pkgpostgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	var src fs.FS = migrations.FS
	if cfg.MigrationsDir != "" {
		src = os.DirFS(cfg.MigrationsDir)
	}
	version, err := pkgpostgres.Migrate(cfg.DatabaseURL, src)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations applied", "schema_version", version)
	return pool, nil
}

// buildStrategy returns the configured strategy. The learned classifier is
// warmed once here; a failure is logged and retried on the next request.
func buildStrategy(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.ScoringStrategy, error) {
	name, err := cfg.ScoringStrategy()
	if err != nil {
		return nil, err
	}
	if !name.Equal(valueobject.StrategyLearnedClassifier) {
		return service.NewScoringStrategy(name, nil)
	}

	var provider *ml.Provider
	if cfg.ModelPath != "" {
		provider = ml.NewProvider(nil, nil, ml.NewFileStore(cfg.ModelPath), logger)
	} else {
		source, err := dataset.Open(ctx, cfg.Dataset)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		provider = ml.NewProvider(source, ml.NewTrainer(cfg.Trainer(), nil, logger), nil, logger)
	}

	if _, err := provider.Classifier(ctx); err != nil {
		logger.Warn("classifier not ready, predictions will fail until the data is available", "error", err)
	} else {
		logger.Info("classifier ready")
	}
	return service.NewScoringStrategy(name, provider)
}
