package port

import (
	"context"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

// Notifier announces a processed alert to whoever watches the store.
type Notifier interface {
	NotifyProcessed(ctx context.Context, store string, res entity.Resolution) error
}
