package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "alerts", cfg.RabbitMQQueue)
	assert.Equal(t, "alerts.dlq", cfg.RabbitMQDLQ)
	assert.Equal(t, 10, cfg.RabbitMQPrefetch)
	assert.Equal(t, 4*1024*1024, cfg.VideoHeaderBytes)
	assert.Equal(t, 5, cfg.DownloadMaxConcurrent)
	assert.Equal(t, 8192, cfg.DownloadChunkBytes)
	assert.False(t, cfg.DeadLetterOnFailure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RABBITMQ_PREFETCH", "1")
	t.Setenv("VIDEO_HEADER_BYTES", "1048576")
	t.Setenv("WORKER_DEAD_LETTER_ON_FAILURE", "true")
	t.Setenv("VIDEO_SERVER", "http://videos.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.RabbitMQPrefetch)
	assert.Equal(t, 1048576, cfg.VideoHeaderBytes)
	assert.True(t, cfg.DeadLetterOnFailure)
	assert.Equal(t, "http://videos.internal", cfg.VideoServerURL)
}
