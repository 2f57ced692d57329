package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/storewatch/alert-pipeline/internal/infra/metrics"
)

// DefaultChunkBytes is the copy buffer size; the whole body is never held in
// memory regardless of file size.
const DefaultChunkBytes = 8192

// ProgressFunc receives incremental progress after each chunk. It is only
// invoked when the response declared a positive Content-Length.
type ProgressFunc func(url string, percent float64, downloaded, total int64)

// Downloader streams remote files to disk with a hard ceiling on the number
// of concurrently active downloads. Callers beyond the ceiling block in
// Download until a slot frees.
type Downloader struct {
	sem       *semaphore.Weighted
	chunkSize int
	client    *http.Client
	logger    *zap.Logger
}

func NewDownloader(maxConcurrent, chunkSize int, logger *zap.Logger) *Downloader {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkBytes
	}
	return &Downloader{
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		chunkSize: chunkSize,
		client:    &http.Client{},
		logger:    logger,
	}
}

// Download fetches url into destPath. It returns false on any failure after
// logging it; false means the download did not complete, a partial file may
// remain at destPath.
func (d *Downloader) Download(ctx context.Context, url, destPath string, onProgress ProgressFunc) bool {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.logger.Error("download cancelled while waiting for slot", zap.String("url", url), zap.Error(err))
		return false
	}
	defer d.sem.Release(1)

	metrics.ActiveDownloads.Inc()
	defer metrics.ActiveDownloads.Dec()

	d.logger.Info("starting download", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		d.logger.Error("build download request", zap.String("url", url), zap.Error(err))
		return false
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("download request failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Error("download failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return false
	}

	total := resp.ContentLength

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		d.logger.Error("create destination directory", zap.String("dest", destPath), zap.Error(err))
		return false
	}

	file, err := os.Create(destPath)
	if err != nil {
		d.logger.Error("create destination file", zap.String("dest", destPath), zap.Error(err))
		return false
	}
	defer file.Close()

	var downloaded int64
	buf := make([]byte, d.chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				d.logger.Error("write chunk", zap.String("dest", destPath), zap.Error(err))
				return false
			}
			downloaded += int64(n)
			metrics.DownloadedBytesTotal.Add(float64(n))

			if onProgress != nil && total > 0 {
				onProgress(url, float64(downloaded)/float64(total)*100, downloaded, total)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			d.logger.Error("read body", zap.String("url", url), zap.Error(readErr))
			return false
		}
	}

	d.logger.Info("completed download",
		zap.String("dest", destPath),
		zap.Int64("bytes", downloaded),
	)
	return true
}
