package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/infra/config"
	"github.com/storewatch/alert-pipeline/internal/infra/ffprobe"
	"github.com/storewatch/alert-pipeline/internal/infra/metrics"
	"github.com/storewatch/alert-pipeline/internal/infra/notify"
	"github.com/storewatch/alert-pipeline/internal/infra/postgres"
	"github.com/storewatch/alert-pipeline/internal/infra/rabbitmq"
	"github.com/storewatch/alert-pipeline/internal/infra/tracing"
	"github.com/storewatch/alert-pipeline/internal/infra/videoserver"
	"github.com/storewatch/alert-pipeline/internal/usecase"
	"github.com/storewatch/alert-pipeline/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting alert-worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint, "alert-worker")
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// Infra adapters
	repo := postgres.NewVideoRepository(pool)
	extractor := ffprobe.NewExtractor(log)
	prober := videoserver.NewProber(cfg.VideoServerURL, cfg.VideoHeaderBytes, extractor, log)
	notifier := notify.NewLogNotifier(log)

	uc := usecase.NewProcessAlertUseCase(
		prober, repo, notifier, log,
		usecase.ProcessAlertConfig{
			DeadLetterOnFailure: cfg.DeadLetterOnFailure,
		},
	)

	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQQueue,
		DLQ:         cfg.RabbitMQDLQ,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("alert-worker started, consuming alerts",
		zap.String("queue", cfg.RabbitMQQueue),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("alert-worker stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
