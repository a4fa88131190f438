package observability

import "time"

// GenerationRecorder fans generation observations out to Prometheus and the
// rolling latency window. It satisfies the AI orchestrator's sink interface.
type GenerationRecorder struct {
	Metrics *Metrics
	Window  *LatencyWindow
}

func NewGenerationRecorder(metrics *Metrics, window *LatencyWindow) *GenerationRecorder {
	return &GenerationRecorder{Metrics: metrics, Window: window}
}

func (r *GenerationRecorder) ObserveGeneration(providerID string, elapsed time.Duration, success bool) {
	if r.Metrics != nil {
		r.Metrics.ObserveGeneration(providerID, elapsed, success)
	}
	if r.Window == nil {
		return
	}
	if success {
		r.Window.Observe(providerID, float64(elapsed.Milliseconds()))
	} else {
		r.Window.ObserveFailure(providerID)
	}
}
