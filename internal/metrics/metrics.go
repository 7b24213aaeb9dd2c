// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studio"

var (
	itemsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calendar_items_created_total",
		Help:      "Calendar items appended to the store, by category.",
	}, []string{"category"})

	itemsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calendar_items_rejected_total",
		Help:      "Calendar item creations rejected, by reason.",
	}, []string{"reason"})

	digestsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "digests_sent_total",
		Help:      "Daily agenda digest emails sent.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database call latency, by operation.",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"op"})
)

// ItemCreated counts one appended item.
func ItemCreated(category string) {
	itemsCreated.WithLabelValues(category).Inc()
}

// ItemRejected counts one rejected creation.
func ItemRejected(reason string) {
	itemsRejected.WithLabelValues(reason).Inc()
}

// DigestSent counts one digest email.
func DigestSent() {
	digestsSent.Inc()
}

// ObserveRequest records an HTTP request duration.
func ObserveRequest(method string, status int, seconds float64) {
	requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(seconds)
}

// ObserveQuery records a database call duration.
func ObserveQuery(op string, seconds float64) {
	queryDuration.WithLabelValues(op).Observe(seconds)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
