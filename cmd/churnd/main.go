package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	artifactstore "github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/config"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/dataset"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/kafka"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/postgres"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/telemetry"
	grpcpresentation "github.com/Shreyashgol/genAI-capstone-project/internal/presentation/grpc"
	"github.com/Shreyashgol/genAI-capstone-project/internal/presentation/rest"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/auth"
	pkgkafka "github.com/Shreyashgol/genAI-capstone-project/pkg/kafka"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/observability"
	pkgpostgres "github.com/Shreyashgol/genAI-capstone-project/pkg/postgres"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("churn-service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting churn-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"artifact_dir", cfg.Model.ArtifactDir,
	)

	// Initialize tracing.
	tp, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownWithTimeout(logger, "tracer", tp.Shutdown)
	}

	// Initialize metrics.
	mp, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer shutdownWithTimeout(logger, "meter provider", mp.Shutdown)

	recorder, err := telemetry.NewRecorder(mp)
	if err != nil {
		return fmt.Errorf("failed to register churn metrics: %w", err)
	}

	// Load the frozen artifacts once. A missing or corrupt bundle stops the process.
	cache := artifact.NewCache(artifactstore.NewStore(cfg.Model.ArtifactDir, artifactstore.WithLogger(logger)))
	bundle, err := cache.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load model artifacts: %w", err)
	}
	logger.Info("model artifacts loaded",
		"models", bundle.ModelNames(),
		"features", bundle.Schema().Len(),
		"strict_alignment", cfg.Model.StrictAlignment,
	)

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.MigrateUp(cfg.Database.DSN(), postgres.Migrations(cfg.MigrationsDir)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Wire infrastructure adapters.
	predictionRepo := postgres.NewPredictionRepository(pool)
	evaluationRepo := postgres.NewEvaluationRepository(pool)

	kafkaCfg := pkgkafka.Config{Brokers: cfg.Kafka.Brokers, ConsumerGroup: cfg.Kafka.ConsumerGroup}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("failed to create kafka producer: %w", err)
	}
	defer producer.Close()
	eventPublisher := kafka.NewPublisher(producer, cfg.Kafka.EventsTopic, logger)

	// Wire domain services.
	encoder := feature.NewEncoder()
	aligner := feature.NewAligner(feature.WithStrict(cfg.Model.StrictAlignment))
	scorer := service.NewChurnScorer(bundle, encoder, aligner, logger)
	evaluator := service.NewEvaluator(scorer)
	datasets := dataset.NewSource(os.DirFS(cfg.Model.DatasetDir), encoder)

	// Wire use cases.
	predictChurnUC := usecase.NewPredictChurn(predictionRepo, eventPublisher, scorer, recorder)
	useCases := grpcpresentation.UseCases{
		PredictChurn:            predictChurnUC,
		GetPrediction:           usecase.NewGetPrediction(predictionRepo),
		ListCustomerPredictions: usecase.NewListCustomerPredictions(predictionRepo),
		ListModels:              usecase.NewListModels(bundle, aligner),
		EvaluateModel:           usecase.NewEvaluateModel(evaluationRepo, eventPublisher, datasets, evaluator, recorder),
		GetEvaluation:           usecase.NewGetEvaluation(evaluationRepo),
	}

	// Scoring requests from Kafka go through the same use case as gRPC.
	scoringHandler := kafka.NewScoringHandler(predictChurnUC, logger)
	consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ScoringTopic, scoringHandler.Handle, logger)
	if err != nil {
		return fmt.Errorf("failed to create scoring consumer: %w", err)
	}
	defer consumer.Close()

	// gRPC server.
	validator, err := newTokenValidator(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to configure authentication: %w", err)
	}
	serverOpts := grpcpresentation.ServerOptions{Reflection: cfg.GRPCReflection}
	if cfg.TLS.Enabled() {
		serverOpts.Creds, err = tlsutil.ServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.ClientCAFile)
		if err != nil {
			return fmt.Errorf("failed to load gRPC TLS credentials: %w", err)
		}
	}
	grpcHandler := grpcpresentation.NewChurnServiceHandler(useCases, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddr(), logger, validator, serverOpts)
	grpcServer.SetServing(cache.Ready())

	// HTTP server: health, metrics and the JSON API.
	healthHandler := rest.NewHealthHandler(cfg.ServiceName, logger).WithMetrics(metricsHandler)
	healthHandler.AddCheck("artifacts", func(context.Context) error {
		if !cache.Ready() {
			return errors.New("model artifacts not loaded")
		}
		return nil
	})
	healthHandler.AddCheck("database", func(ctx context.Context) error {
		return pkgpostgres.HealthCheck(ctx, pool)
	})
	apiMux := http.NewServeMux()
	rest.NewAPIHandler(grpcHandler, logger).RegisterRoutes(apiMux)

	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)
	httpMux.Handle("/api/", rest.Chain(apiMux,
		rest.Logging(logger),
		rest.Authenticate(validator),
		rest.RateLimit(rest.NewRateLimiter(cfg.RateLimitRPS, 2*cfg.RateLimitRPS)),
	))

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("scoring consumer error: %w", err)
		}
	}()

	logger.Info("churn-service started",
		"grpc_address", cfg.GRPCAddr(),
		"http_address", cfg.HTTPAddr(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down churn-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("churn-service stopped")
	return runErr
}

// newTokenValidator prefers an RS256 public key over the shared HS256 secret.
func newTokenValidator(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{PublicKeyPEM: cfg.PublicKeyPEM, Secret: cfg.Secret}
	if jwtCfg.PublicKeyPEM == "" && cfg.PublicKeyFile != "" {
		pem, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(pem)
	}
	return auth.NewJWTService(jwtCfg)
}

func shutdownWithTimeout(logger *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Error("shutdown error", "component", name, "error", err)
	}
}
