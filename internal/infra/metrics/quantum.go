package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		quantumBufferSize,
		quantumRefillsTotal,
		quantumValuesPoppedTotal,
		quantumStarvedDrawsTotal,
	)
}

var (
	quantumBufferSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quantum_buffer_size",
			Help: "Random values currently waiting in the buffer.",
		},
	)

	quantumRefillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantum_refills_total",
			Help: "Refill attempts against the random source, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	quantumValuesPoppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quantum_values_popped_total",
			Help: "Random values consumed from the buffer.",
		},
	)

	quantumStarvedDrawsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantum_starved_draws_total",
			Help: "Draws served by the fallback policy because the buffer was empty.",
		},
		[]string{"policy"},
	)
)

func SetBufferSize(n int) {
	quantumBufferSize.Set(float64(n))
}

func IncRefill(outcome string) {
	quantumRefillsTotal.WithLabelValues(norm(outcome)).Inc()
}

func AddPopped(n int) {
	quantumValuesPoppedTotal.Add(float64(n))
}

func IncStarvedDraw(policy string) {
	quantumStarvedDrawsTotal.WithLabelValues(norm(policy)).Inc()
}
