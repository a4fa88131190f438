package observability

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

type ProviderLatencyStats struct {
	Provider string  `json:"provider"`
	Samples  int     `json:"samples"`
	LastMS   float64 `json:"last_ms"`
	AvgMS    float64 `json:"avg_ms"`
	P50MS    float64 `json:"p50_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
}

type FailureIndicator struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type LatencySnapshot struct {
	GeneratedAt time.Time              `json:"generated_at"`
	WindowSize  int                    `json:"window_size"`
	Providers   []ProviderLatencyStats `json:"providers"`
	Failures    []FailureIndicator     `json:"failures,omitempty"`
}

// LatencyWindow keeps a rolling window of per-provider generation latencies
// plus failure counters. Unlike the Prometheus histogram it answers quantile
// queries directly, for the in-process stats endpoint.
type LatencyWindow struct {
	mu         sync.RWMutex
	maxSamples int
	providers  map[string]*latencyBuffer
	failures   map[string]int
}

type latencyBuffer struct {
	values []float64
	next   int
	filled bool
	last   float64
}

func NewLatencyWindow(maxSamples int) *LatencyWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &LatencyWindow{
		maxSamples: maxSamples,
		providers:  make(map[string]*latencyBuffer),
		failures:   make(map[string]int),
	}
}

func (w *LatencyWindow) Observe(provider string, ms float64) {
	if provider == "" || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	buf, ok := w.providers[provider]
	if !ok {
		buf = &latencyBuffer{
			values: make([]float64, w.maxSamples),
		}
		w.providers[provider] = buf
	}
	buf.values[buf.next] = ms
	buf.last = ms
	buf.next++
	if buf.next >= len(buf.values) {
		buf.next = 0
		buf.filled = true
	}
}

// ObserveFailure counts a failure under a free-form name, usually
// "<provider>:<error kind>".
func (w *LatencyWindow) ObserveFailure(name string) {
	if w == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[name]++
}

func (w *LatencyWindow) Snapshot() LatencySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	stats := make([]ProviderLatencyStats, 0, len(w.providers))
	keys := make([]string, 0, len(w.providers))
	for provider := range w.providers {
		keys = append(keys, provider)
	}
	sort.Strings(keys)

	for _, provider := range keys {
		buf := w.providers[provider]
		if buf == nil {
			continue
		}
		n := buf.next
		if buf.filled {
			n = len(buf.values)
		}
		if n <= 0 {
			continue
		}
		samples := make([]float64, n)
		copy(samples, buf.values[:n])
		sort.Float64s(samples)

		sum := 0.0
		for _, v := range samples {
			sum += v
		}

		stats = append(stats, ProviderLatencyStats{
			Provider: provider,
			Samples:  n,
			LastMS:   round2(buf.last),
			AvgMS:    round2(sum / float64(n)),
			P50MS:    round2(quantile(samples, 0.50)),
			P95MS:    round2(quantile(samples, 0.95)),
			P99MS:    round2(quantile(samples, 0.99)),
		})
	}

	failures := make([]FailureIndicator, 0, len(w.failures))
	failureKeys := make([]string, 0, len(w.failures))
	for name := range w.failures {
		failureKeys = append(failureKeys, name)
	}
	sort.Strings(failureKeys)
	for _, name := range failureKeys {
		count := w.failures[name]
		if count <= 0 {
			continue
		}
		failures = append(failures, FailureIndicator{
			Name:  name,
			Count: count,
		})
	}

	return LatencySnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  w.maxSamples,
		Providers:   stats,
		Failures:    failures,
	}
}

func (w *LatencyWindow) Reset() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.providers = make(map[string]*latencyBuffer)
	w.failures = make(map[string]int)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
