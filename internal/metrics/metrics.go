package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdesk_provider_calls_total",
			Help: "Total forecast API calls by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherdesk_provider_latency_seconds",
			Help:    "Forecast API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ReportsFormatted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdesk_reports_formatted_total",
			Help: "Total reports successfully formatted",
		},
		[]string{"provider"},
	)

	FramesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdesk_frames_published_total",
			Help: "Total document frames written by outcome",
		},
		[]string{"status"},
	)
)
