package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_requests_total",
			Help: "Total winning-numbers publish requests by result",
		},
		[]string{"result"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "publish_request_duration_ms",
			Help:    "Winning-numbers publish duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result"},
	)
)

// RecordPublish 记录开奖公布的业务指标
// result: "success" | "fail"
func RecordPublish(result string, started time.Time) {
	res := result
	if res != "success" { res = "fail" }
	publishTotal.WithLabelValues(res).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	publishDuration.WithLabelValues(res).Observe(durMs)
}
