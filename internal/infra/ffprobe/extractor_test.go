package ffprobe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProbe writes an executable shell script standing in for ffprobe, so
// the subprocess plumbing is exercised without the real binary.
func stubProbe(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not available on windows")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestExtractDimensions(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	e.binary = stubProbe(t, `cat >/dev/null
printf '{"streams":[{"width":1920,"height":1080}]}'`)

	res, err := e.ExtractDimensions(context.Background(), []byte("videobytes"))
	require.NoError(t, err)
	require.NotNil(t, res.Width)
	require.NotNil(t, res.Height)
	assert.Equal(t, 1920, *res.Width)
	assert.Equal(t, 1080, *res.Height)
}

func TestExtractDimensionsNoVideoStream(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	e.binary = stubProbe(t, `cat >/dev/null
printf '{"streams":[]}'`)

	res, err := e.ExtractDimensions(context.Background(), []byte("audio-only"))
	require.NoError(t, err)
	assert.Nil(t, res.Width)
	assert.Nil(t, res.Height)
	assert.Equal(t, "unknown", res.String())
}

func TestExtractDimensionsProbeFailure(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	e.binary = stubProbe(t, `cat >/dev/null
echo "Invalid data found when processing input" >&2
exit 1`)

	_, err := e.ExtractDimensions(context.Background(), []byte("garbage"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid data found")
}

func TestExtractDimensionsBadOutput(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	e.binary = stubProbe(t, `cat >/dev/null
printf 'not json'`)

	_, err := e.ExtractDimensions(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse ffprobe output")
}
