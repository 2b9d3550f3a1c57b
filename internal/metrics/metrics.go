package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive tracks live websocket connections across all rooms.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "triviabuzz_ws_connections_active",
		Help: "Number of currently open websocket connections.",
	})

	// BuzzesTotal counts buzz arbitration outcomes.
	BuzzesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triviabuzz_buzzes_total",
		Help: "Buzz signals by arbitration result.",
	}, []string{"result"})

	// BroadcastsTotal counts room fan-out operations.
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triviabuzz_broadcasts_total",
		Help: "Messages broadcast to rooms.",
	})

	// MessagesDroppedTotal counts outbound messages dropped on full send buffers.
	MessagesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triviabuzz_messages_dropped_total",
		Help: "Outbound messages dropped because a connection's send buffer was full.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
