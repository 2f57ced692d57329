package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

// LogNotifier announces processed alerts through the structured log. It is
// the single concrete Notifier; operators tail these lines per store.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyProcessed(_ context.Context, store string, res entity.Resolution) error {
	n.logger.Info("store notification",
		zap.String("store", store),
		zap.String("date", time.Now().UTC().Format("2006-01-02 15:04:05 UTC")),
		zap.String("resolution", res.String()),
	)
	return nil
}
