package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_requests_total",
			Help: "Total round settlement requests by result and outcome",
		},
		[]string{"result", "outcome"},
	)

	settleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settle_request_duration_ms",
			Help:    "Round settlement duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "outcome"},
	)
)

// RecordSettle 记录结算的业务指标
// result: "success" | "fail"
// outcome: "winners" | "no_winners" | "unknown"
func RecordSettle(result, outcome string, started time.Time) {
	res := result
	if res != "success" { res = "fail" }
	oc := strings.ToLower(strings.TrimSpace(outcome))
	if oc == "" { oc = "unknown" }
	settleTotal.WithLabelValues(res, oc).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	settleDuration.WithLabelValues(res, oc).Observe(durMs)
}
