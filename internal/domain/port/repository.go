package port

import "context"

// VideoRepository is the write-only sink for processed videos. Rows are
// appended, never updated or deleted.
type VideoRepository interface {
	SaveVideo(ctx context.Context, uid, video string, width, height *int) error
}
