package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RishiKendai/verbatim/internal/api"
	"github.com/RishiKendai/verbatim/internal/config"
	"github.com/RishiKendai/verbatim/internal/infra/mongo"
	redisInfra "github.com/RishiKendai/verbatim/internal/infra/redis"
	"github.com/RishiKendai/verbatim/internal/metrics"
	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/RishiKendai/verbatim/internal/report"
	"github.com/RishiKendai/verbatim/internal/repository"
	"github.com/RishiKendai/verbatim/internal/source"
	"github.com/RishiKendai/verbatim/internal/stream"
	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func runServe(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.Info().Msg("Starting verbatim server")

	metrics.InitPrometheus()
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := api.StartServer("metrics", metricsMux, cfg.MetricsPort)

	var statter statsd.Statter
	if cfg.StatsdHost != "" {
		client, err := metrics.ConnectStatsd(cfg.StatsdHost, cfg.StatsdPort, cfg.StatsdPrefix)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to StatsD, continuing without it")
		} else {
			statter = client
			defer statter.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}
	defer mongoClient.Close(context.Background())

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		return fmt.Errorf("failed to create Redis client: %w", err)
	}
	defer redisClient.Close()

	mongoRepo := repository.NewMongoRepository(mongoClient)
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to ensure MongoDB indexes")
	}
	documentsRepo := repository.NewDocumentsRepository(mongoRepo)
	reportsRepo := repository.NewReportsRepository(mongoRepo)

	// No file source: API identifiers must not reach the server's filesystem.
	inline := source.NewMemorySource()
	sources := source.NewMux(nil)
	sources.Handle(source.SchemeMemory, inline)
	sources.Handle(source.SchemeMongo, source.NewMongoSource(documentsRepo))
	if cfg.AWSRegion != "" {
		s3Source, err := source.NewS3Source(ctx, cfg.AWSRegion)
		if err != nil {
			log.Warn().Err(err).Msg("S3 documents disabled")
		} else {
			sources.Handle(source.SchemeS3, s3Source)
		}
	}

	detector, err := plagiarism.NewDetector(cfg.DetectorOptions())
	if err != nil {
		return err
	}
	status := plagiarism.NewStatusStore(redisClient)
	sinks := func(msg models.ComparisonMessage) plagiarism.ReportSink {
		return report.Multi{
			report.NewMongoSink(reportsRepo, msg),
			report.NewLogSink(msg.ComparisonID),
			report.NewMetricsSink(statter),
		}
	}

	workerPool := plagiarism.NewWorkerPool(ctx, cfg.MaxConcurrentCompute)
	defer workerPool.Close()
	service := plagiarism.NewService(detector, sources, status, sinks, workerPool)

	// Initialize Redis stream consumer
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey, cfg.MaxRetries)
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		service,
		retryHandler,
		cfg.ComputationTimeout,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()

	handler := api.NewHandler(cfg, service, inline, reportsRepo, documentsRepo, status)
	router := api.SetupRoutes(cfg, handler)
	srv := api.StartServer("api", router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")
	consumerCancel()

	if err := api.ShutdownServer("api", srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down API server")
	}
	if err := api.ShutdownServer("metrics", metricsServer, 5*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
	return nil
}
