package videoserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
	"github.com/storewatch/alert-pipeline/internal/domain/port"
)

// DefaultHeaderBytes is how much of the file prefix is fetched for probing.
// Container formats keep stream metadata near the start of file, so a
// bounded prefix is enough to learn dimensions without pulling the whole
// video.
const DefaultHeaderBytes = 4 * 1024 * 1024

// Prober fetches the leading byte range of a remote video and hands it to a
// dimension extractor. Memory use per call is capped at headerBytes.
type Prober struct {
	baseURL     string
	headerBytes int
	client      *http.Client
	extractor   port.DimensionExtractor
	logger      *zap.Logger
}

func NewProber(baseURL string, headerBytes int, extractor port.DimensionExtractor, logger *zap.Logger) *Prober {
	if headerBytes <= 0 {
		headerBytes = DefaultHeaderBytes
	}
	return &Prober{
		baseURL:     strings.TrimRight(baseURL, "/"),
		headerBytes: headerBytes,
		client:      &http.Client{Timeout: 30 * time.Second},
		extractor:   extractor,
		logger:      logger,
	}
}

func (p *Prober) ExtractResolution(ctx context.Context, videoPath string) (entity.Resolution, error) {
	url := p.baseURL + videoPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.Resolution{}, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", p.headerBytes-1))

	resp, err := p.client.Do(req)
	if err != nil {
		return entity.Resolution{}, fmt.Errorf("fetch video headers %s: %w", url, err)
	}
	defer resp.Body.Close()

	// 200 means the server ignored the range and sent the full file; the
	// read below still stops at headerBytes.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return entity.Resolution{}, fmt.Errorf("fetch video headers %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(p.headerBytes)))
	if err != nil {
		return entity.Resolution{}, fmt.Errorf("read video headers %s: %w", url, err)
	}

	p.logger.Debug("fetched video header prefix",
		zap.String("url", url),
		zap.Int("bytes", len(data)),
		zap.Int("status", resp.StatusCode),
	)

	return p.extractor.ExtractDimensions(ctx, data)
}
