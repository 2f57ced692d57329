package videoserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

type captureExtractor struct {
	data []byte
	res  entity.Resolution
	err  error
}

func (c *captureExtractor) ExtractDimensions(_ context.Context, data []byte) (entity.Resolution, error) {
	c.data = data
	return c.res, c.err
}

func intPtr(v int) *int { return &v }

func TestExtractResolutionPartialContent(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 1024)
	var gotRange string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.WriteHeader(http.StatusPartialContent)
		w.Write(payload)
	}))
	defer srv.Close()

	ext := &captureExtractor{res: entity.Resolution{Width: intPtr(1920), Height: intPtr(1080)}}
	p := NewProber(srv.URL, 4096, ext, zap.NewNop())

	res, err := p.ExtractResolution(context.Background(), "/store7/cam2/clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, "bytes=0-4095", gotRange)
	assert.Equal(t, payload, ext.data)
	require.NotNil(t, res.Width)
	require.NotNil(t, res.Height)
	assert.Equal(t, 1920, *res.Width)
	assert.Equal(t, 1080, *res.Height)
}

func TestExtractResolutionFullContentAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server ignores the range and replies 200 with everything.
		w.Write(bytes.Repeat([]byte{0x01}, 64))
	}))
	defer srv.Close()

	ext := &captureExtractor{}
	p := NewProber(srv.URL, 16, ext, zap.NewNop())

	_, err := p.ExtractResolution(context.Background(), "/clip.mp4")
	require.NoError(t, err)

	// The read is capped at the header budget even when the server sent more.
	assert.Len(t, ext.data, 16)
}

func TestExtractResolutionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ext := &captureExtractor{}
	p := NewProber(srv.URL, 4096, ext, zap.NewNop())

	_, err := p.ExtractResolution(context.Background(), "/missing.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Nil(t, ext.data)
}

func TestExtractResolutionServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewProber(srv.URL, 4096, &captureExtractor{}, zap.NewNop())

	_, err := p.ExtractResolution(context.Background(), "/clip.mp4")
	require.Error(t, err)
}
