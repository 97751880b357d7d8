package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cycleLogWritesTotal) }

var cycleLogWritesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cycle_log_writes_total",
		Help: "Cycle log writes, labeled by status.",
	},
	[]string{"status"}, // 'saved', 'failed', 'dropped'
)

func IncCycleLogWrite(status string) {
	cycleLogWritesTotal.WithLabelValues(norm(status)).Inc()
}
