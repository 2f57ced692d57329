package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AlertsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_pipeline_alerts_published_total",
		Help: "Total number of alerts accepted by the publish endpoint, by result",
	}, []string{"result"})

	AlertsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_pipeline_alerts_processed_total",
		Help: "Total number of consumed alert messages, by outcome",
	}, []string{"outcome"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alert_pipeline_stage_duration_seconds",
		Help:    "Duration of per-message pipeline stages",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alert_pipeline_active_workers",
		Help: "Number of workers currently processing an alert",
	})

	ActiveDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alert_pipeline_active_downloads",
		Help: "Number of currently active bulk downloads",
	})

	DownloadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_pipeline_downloaded_bytes_total",
		Help: "Total bytes written to disk by the bulk downloader",
	})
)
