package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		broadcastCyclesTotal,
		broadcastDelaySeconds,
		repliesTotal,
		telegramRateLimitTriggeredTotal,
	)
}

var (
	broadcastCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_cycles_total",
			Help: "Broadcast cycles, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	broadcastDelaySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_delay_seconds",
			Help:    "Quantum-derived pacing delay between broadcast cycles.",
			Buckets: prometheus.LinearBuckets(0, 2, 15),
		},
	)

	repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_replies_total",
			Help: "Inbound message handling, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	telegramRateLimitTriggeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_rate_limit_triggered_total",
			Help: "Total number of times chats have been rate-limited.",
		},
	)
)

func IncCycle(outcome string) {
	broadcastCyclesTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveDelay(seconds int) {
	broadcastDelaySeconds.Observe(float64(seconds))
}

func IncReply(outcome string) {
	repliesTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncRateLimitTriggered() {
	telegramRateLimitTriggeredTotal.Inc()
}
