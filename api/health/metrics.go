package health

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern",
		},
		[]string{"method", "route", "status"},
	)

	galleryUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gallery",
			Name:      "uploads_total",
			Help:      "Product images received, split into stored and skipped past the cap",
		},
		[]string{"result"},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{requestDuration, requestsTotal, galleryUploads}
}

// ObserveRequest records one finished request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, route, status).Inc()
	requestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// ObserveUpload records the outcome of an image batch.
func ObserveUpload(accepted, ignored int) {
	galleryUploads.WithLabelValues("accepted").Add(float64(accepted))
	galleryUploads.WithLabelValues("ignored").Add(float64(ignored))
}
