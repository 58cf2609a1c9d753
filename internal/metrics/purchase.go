package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_requests_total",
			Help: "Total board purchase requests by result and number_count",
		},
		[]string{"result", "number_count"},
	)

	purchaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_request_duration_ms",
			Help:    "Board purchase request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "number_count"},
	)
)

// RecordPurchase records business metrics for a board purchase call.
// result should be "success" or "fail"; numberCount is the chosen numbers count (5..8).
func RecordPurchase(result string, numberCount int, started time.Time) {
	res := result
	if res != "success" { res = "fail" }
	nc := strconv.Itoa(numberCount)
	purchaseTotal.WithLabelValues(res, nc).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	purchaseDuration.WithLabelValues(res, nc).Observe(durMs)
}
