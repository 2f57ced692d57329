package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

// Extractor spawns ffprobe once per call, feeding the video byte prefix on
// stdin so no temp file touches disk. The process is asked for the first
// video stream's width and height as JSON.
type Extractor struct {
	binary string
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{binary: "ffprobe", logger: logger}
}

type probeOutput struct {
	Streams []struct {
		Width  *int `json:"width"`
		Height *int `json:"height"`
	} `json:"streams"`
}

func (e *Extractor) ExtractDimensions(ctx context.Context, data []byte) (entity.Resolution, error) {
	cmd := exec.CommandContext(ctx, e.binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		"pipe:0",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return entity.Resolution{}, fmt.Errorf("ffprobe: %w: %s", err, stderr.String())
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return entity.Resolution{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	// No video stream entry is not an error: the record is persisted with
	// null dimensions.
	if len(out.Streams) == 0 {
		e.logger.Warn("ffprobe reported no video streams")
		return entity.Resolution{}, nil
	}

	return entity.Resolution{
		Width:  out.Streams[0].Width,
		Height: out.Streams[0].Height,
	}, nil
}
