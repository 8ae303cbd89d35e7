package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "idverify",
		Name:      "frames_processed_total",
		Help:      "Total number of frames processed by the vision worker",
	}, []string{"job_kind"})

	MrzParseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "idverify",
		Name:      "mrz_parse_total",
		Help:      "Total number of MRZ parse attempts",
	}, []string{"format", "result"})

	LivenessScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "idverify",
		Name:      "liveness_score",
		Help:      "Fused liveness score per completed challenge",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})

	MatchDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "idverify",
		Name:      "match_distance",
		Help:      "Euclidean distance between portrait and selfie descriptors",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 13),
	})

	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "idverify",
		Name:      "phase_duration_seconds",
		Help:      "Duration spent in each verification phase",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"phase"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "idverify",
		Name:      "inference_duration_seconds",
		Help:      "Duration of vision worker inference stages",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"stage"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "idverify",
		Name:      "queue_depth",
		Help:      "Number of pending frame jobs in the vision queue",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "idverify",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "idverify",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
