package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveSessions    prometheus.Gauge
	SessionEvents     *prometheus.CounterVec
	WSMessages        *prometheus.CounterVec
	Generations       *prometheus.CounterVec
	GenerationLatency *prometheus.HistogramVec
	FallbackReplies   prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active spirit sessions.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		Generations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GenerationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_latency_ms",
			Help:      "Per-provider generation latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		}, []string{"provider"}),
		FallbackReplies: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_replies_total",
			Help:      "Replies served from canned responses after provider exhaustion.",
		}),
	}
}

// ObserveGeneration implements the generation sink consumed by the AI
// orchestrator.
func (m *Metrics) ObserveGeneration(providerID string, elapsed time.Duration, success bool) {
	outcome := "error"
	if success {
		outcome = "success"
	}
	m.Generations.WithLabelValues(providerID, outcome).Inc()
	m.GenerationLatency.WithLabelValues(providerID).Observe(float64(elapsed.Milliseconds()))
	if providerID == "fallback" && success {
		m.FallbackReplies.Inc()
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
