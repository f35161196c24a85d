package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CapturesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifysink_captures_total",
			Help: "Total POST requests captured",
		},
	)

	CaptureBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifysink_capture_bytes_total",
			Help: "Total body bytes captured",
		},
	)

	SinkWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifysink_sink_write_failures_total",
			Help: "Failed sink appends by sink name",
		},
		[]string{"sink"},
	)

	CaptureLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notifysink_capture_latency_seconds",
			Help:    "Latency of capture handling",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(CapturesTotal)
	prometheus.MustRegister(CaptureBytesTotal)
	prometheus.MustRegister(SinkWriteFailures)
	prometheus.MustRegister(CaptureLatency)
}
