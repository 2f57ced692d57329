package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoRepository appends processed-video rows. Each call checks a
// connection out of the shared pool for the single insert and returns it on
// every exit path. There is no update or delete path; duplicate uids are
// allowed.
type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func (r *VideoRepository) SaveVideo(ctx context.Context, uid, video string, width, height *int) error {
	query := `
		INSERT INTO videos (uid, video, width, height)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, uid, video, width, height)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}
