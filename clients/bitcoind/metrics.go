package bitcoind

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MakeClientMetrics returns an EventListener reporting request latencies,
// labelled by method and HTTP status, to the given registerer. Pass
// prometheus.DefaultRegisterer outside of tests.
func MakeClientMetrics(reg prometheus.Registerer) EventListener {
	requestLatencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitcoind",
		Subsystem: "client",
		Name:      "request_latency",
	}, []string{"method", "status"})
	reg.MustRegister(requestLatencies)

	return &SelectiveListener{
		OnResponseCb: func(method string, status int, took time.Duration) {
			statusString := strconv.FormatInt(int64(status), 10)
			requestLatencies.WithLabelValues(method, statusString).Observe(took.Seconds())
		},
	}
}
