package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		oracleCallsLatencyMs,
		oraclePromptTokens,
	)
}

var (
	oracleCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_calls_latency_ms",
			Help:    "Oracle call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"provider", "success"},
	)

	oraclePromptTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_prompt_tokens",
			Help: "Estimated prompt tokens sent per provider.",
		},
		[]string{"provider"},
	)
)

func ObserveOracleCall(provider string, latencyMs int, success bool) {
	oracleCallsLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func AddPromptTokens(provider string, tokens int) {
	oraclePromptTokens.WithLabelValues(norm(provider)).Add(float64(tokens))
}
