package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	depositTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deposit_requests_total",
			Help: "Total deposit operations by result and action",
		},
		[]string{"result", "action"},
	)

	depositDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deposit_request_duration_ms",
			Help:    "Deposit operation duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "action"},
	)
)

// RecordDeposit 记录充值相关操作的业务指标
// result: "success" | "fail"
// action: "submit" | "approve" | "reject"
func RecordDeposit(result, action string, started time.Time) {
	res := result
	if res != "success" { res = "fail" }
	ac := strings.ToLower(strings.TrimSpace(action))
	if ac == "" { ac = "unknown" }
	depositTotal.WithLabelValues(res, ac).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	depositDuration.WithLabelValues(res, ac).Observe(durMs)
}
