// Package app собирает сервис rhrh: хранилище, HTTP API, метрики, gRPC health и outbox.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/rhrh/internal/health"
	"github.com/vladislavdragonenkov/rhrh/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/rhrh/internal/metrics"
	"github.com/vladislavdragonenkov/rhrh/internal/service/book"
	"github.com/vladislavdragonenkov/rhrh/internal/service/httpapi"
	"github.com/vladislavdragonenkov/rhrh/internal/service/outbox"
	"github.com/vladislavdragonenkov/rhrh/internal/version"
)

const (
	shutdownTimeout        = 5 * time.Second
	readinessProbeInterval = 5 * time.Second
)

// Run поднимает все компоненты и блокируется до отмены ctx или падения одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	// Ошибка Kafka не фатальна: сервис продолжает работу без публикации событий.
	producer, _ := initKafkaProducer(cfg, logger)
	defer closeKafka(producer, logger)

	options := []book.Option{
		book.WithLogger(logger.WithField("layer", "book")),
		book.WithStorage(deps.storage),
		book.WithMetrics(metrics.NewStoreMetrics(prometheus.DefaultRegisterer)),
		book.WithAutosave(cfg.Autosave),
		book.WithSaveTimeout(cfg.SaveTimeout),
	}
	var worker *outbox.Worker
	if producer != nil {
		options = append(options, book.WithOutbox(deps.outboxRepo))
		worker = newOutboxWorker(cfg, deps, producer, logger)
	}

	svc := book.NewService(options...)
	if err := svc.Load(ctx); err != nil {
		return err
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewStorageChecker("storage", deps.storage))

	grpcServer, healthServer := newGRPCServer(logger)
	go watchReadiness(ctx, healthHandler, healthServer)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	api := httpapi.NewHandler(svc, logger.WithField("layer", "http"))
	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Routes(), ReadHeaderTimeout: 10 * time.Second}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return err
	}

	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	workerDone := make(chan struct{})
	if worker != nil {
		go func() {
			defer close(workerDone)
			worker.Run(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		logger.Infof("HTTP API listening on %s", cfg.HTTPAddr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		runErr = ctx.Err()
	case err := <-errCh:
		if !errors.Is(err, grpc.ErrServerStopped) {
			runErr = err
		}
	}

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	stopGRPC(grpcServer, logger)
	shutdownHTTP(apiSrv, logger)
	shutdownHTTP(metricsSrv, logger)

	stopWorker()
	<-workerDone

	if !cfg.Autosave {
		saveCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := svc.Save(saveCtx); err != nil {
			logger.WithError(err).Error("final save failed")
		}
		cancel()
	}

	return runErr
}

func newOutboxWorker(cfg Config, deps runtimeDependencies, producer *kafka.Producer, logger *log.Entry) *outbox.Worker {
	return outbox.NewWorker(
		deps.outboxRepo,
		kafka.NewOutboxPublisher(producer, cfg.KafkaTopic),
		outbox.WithLogger(logger.WithField("layer", "outbox")),
		outbox.WithMetrics(metrics.NewOutboxMetrics(prometheus.DefaultRegisterer)),
		outbox.WithDLQPublisher(kafka.NewOutboxPublisher(producer, cfg.KafkaDLQTopic)),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	)
}

// newGRPCServer создаёт gRPC сервер только с health и reflection.
func newGRPCServer(logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	grpcMetrics.InitializeMetrics(grpcServer)
	return grpcServer, healthServer
}

// watchReadiness переносит результат HTTP readiness в gRPC health.
func watchReadiness(ctx context.Context, checks *healthcheck.Handler, server *health.Server) {
	ticker := time.NewTicker(readinessProbeInterval)
	defer ticker.Stop()

	for {
		status := healthpb.HealthCheckResponse_SERVING
		if !checks.Ready(ctx) {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		server.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		logger.Warn("graceful stop timed out, forcing grpc server stop")
		server.Stop()
	}
}

// startMetricsServer запускает HTTP-сервер с /metrics и health probes.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("metrics available at %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
