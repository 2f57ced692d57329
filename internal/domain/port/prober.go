package port

import (
	"context"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

// ResolutionProber resolves a remote video path to its pixel dimensions.
type ResolutionProber interface {
	ExtractResolution(ctx context.Context, videoPath string) (entity.Resolution, error)
}

// DimensionExtractor reads container headers from an in-memory byte prefix
// and reports the first video stream's dimensions.
type DimensionExtractor interface {
	ExtractDimensions(ctx context.Context, data []byte) (entity.Resolution, error)
}
