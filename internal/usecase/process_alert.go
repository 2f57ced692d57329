package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
	"github.com/storewatch/alert-pipeline/internal/domain/port"
	"github.com/storewatch/alert-pipeline/internal/infra/metrics"
)

// ProcessAlertUseCase handles one delivered alert: decode, probe the remote
// video's resolution, append the processed record, notify. Failures resolve
// to Ack by default so a bad message never stalls the queue; setting
// DeadLetterOnFailure routes fetch/probe/persistence failures to the DLQ
// instead. Either way the delivery is settled exactly once by the consumer.
type ProcessAlertUseCase struct {
	prober   port.ResolutionProber
	repo     port.VideoRepository
	notifier port.Notifier
	logger   *zap.Logger

	deadLetterOnFailure bool
}

type ProcessAlertConfig struct {
	DeadLetterOnFailure bool
}

func NewProcessAlertUseCase(
	prober port.ResolutionProber,
	repo port.VideoRepository,
	notifier port.Notifier,
	logger *zap.Logger,
	cfg ProcessAlertConfig,
) *ProcessAlertUseCase {
	return &ProcessAlertUseCase{
		prober:              prober,
		repo:                repo,
		notifier:            notifier,
		logger:              logger,
		deadLetterOnFailure: cfg.DeadLetterOnFailure,
	}
}

func (uc *ProcessAlertUseCase) Execute(ctx context.Context, rawMsg []byte) port.Outcome {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessAlertUseCase.Execute")
	defer span.End()

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	var alert entity.Alert
	if err := json.Unmarshal(rawMsg, &alert); err != nil {
		uc.logger.Error("failed to unmarshal alert", zap.Error(err), zap.ByteString("body", rawMsg))
		metrics.AlertsProcessedTotal.WithLabelValues("decode_error").Inc()
		return port.Ack()
	}

	if alert.UID == "" || alert.Video == "" {
		uc.logger.Error("alert missing required fields", zap.ByteString("body", rawMsg))
		metrics.AlertsProcessedTotal.WithLabelValues("decode_error").Inc()
		return port.Ack()
	}

	span.SetAttributes(
		attribute.String("alert.uid", alert.UID),
		attribute.String("alert.video", alert.Video),
	)

	log := uc.logger.With(zap.String("uid", alert.UID), zap.String("video", alert.Video))
	log.Info("received alert", zap.String("store", alert.Store))

	probeStart := time.Now()
	ctx2, probeSpan := tracer.Start(ctx, "extract_resolution")
	res, err := uc.prober.ExtractResolution(ctx2, alert.Video)
	probeSpan.End()
	if err != nil {
		log.Error("resolution extraction failed", zap.Error(err))
		metrics.AlertsProcessedTotal.WithLabelValues("probe_error").Inc()
		return uc.failureOutcome("extract_resolution: " + err.Error())
	}
	metrics.StageDuration.WithLabelValues("probe").Observe(time.Since(probeStart).Seconds())

	saveStart := time.Now()
	ctx3, saveSpan := tracer.Start(ctx, "save_video")
	err = uc.repo.SaveVideo(ctx3, alert.UID, alert.Video, res.Width, res.Height)
	saveSpan.End()
	if err != nil {
		log.Error("failed to persist processed video", zap.Error(err))
		metrics.AlertsProcessedTotal.WithLabelValues("persist_error").Inc()
		return uc.failureOutcome("save_video: " + err.Error())
	}
	metrics.StageDuration.WithLabelValues("persist").Observe(time.Since(saveStart).Seconds())

	if err := uc.notifier.NotifyProcessed(ctx, alert.Store, res); err != nil {
		log.Warn("store notification failed", zap.Error(err))
	}

	metrics.AlertsProcessedTotal.WithLabelValues("processed").Inc()
	log.Info("alert processed", zap.String("resolution", res.String()))

	return port.Ack()
}

func (uc *ProcessAlertUseCase) failureOutcome(reason string) port.Outcome {
	if uc.deadLetterOnFailure {
		return port.DeadLetter(reason)
	}
	return port.Ack()
}
