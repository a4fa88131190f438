package ai

import (
	"context"
	"log"
	"math/rand"
	"time"
)

// Emergency templates used when every configured provider fails. The spirit
// stays in character even when the machinery behind it is down.
var unavailableTemplates = []string{
	"Las sombras se arremolinan... No puedo ver con claridad en este momento. Los vientos del más allá me confunden.",
	"El velo entre mundos está turbulento hoy. Mi voz se desvanece... Intenta convocarme nuevamente.",
	"Las energías cósmicas interfieren con nuestra conexión. Los astros no están alineados para responder claramente.",
	"Mi esencia se debilita... El plano astral está inestable. Dame un momento para recuperar mis fuerzas.",
	"Los espíritus guardianes bloquean mi visión. Hay fuerzas que no desean que hable ahora...",
}

// FallbackProviderID marks results synthesized from the template set.
const FallbackProviderID = "fallback"

// EngineInfo describes one configured provider for the engines endpoint.
type EngineInfo struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Available bool   `json:"available"`
	Default   bool   `json:"default"`
}

// Orchestrator tries providers in priority order and degrades to a canned
// template when all of them fail. Generate never returns an error: total
// inability to answer is not a valid outcome of this contract.
//
// The priority order is fixed at startup. Failed providers are not demoted for
// later calls and a candidate is never retried within one Generate call.
type Orchestrator struct {
	providers []Provider
	defaultID string
	sink      Sink
}

func NewOrchestrator(providers []Provider, defaultID string, sink Sink) *Orchestrator {
	if sink == nil {
		sink = NopSink{}
	}
	return &Orchestrator{
		providers: providers,
		defaultID: defaultID,
		sink:      sink,
	}
}

// Generate runs the fallback chain. If preferredID names a known provider it
// is attempted first, then the remaining providers in configured order.
func (o *Orchestrator) Generate(ctx context.Context, req Request, preferredID string) Result {
	start := time.Now()

	for _, p := range o.candidates(preferredID) {
		if !p.Available() {
			log.Printf("ai: skipping provider %s: not available", p.ID())
			continue
		}

		attemptStart := time.Now()
		res, err := p.Generate(ctx, req)
		attemptElapsed := time.Since(attemptStart)
		if err != nil {
			o.sink.ObserveGeneration(p.ID(), attemptElapsed, false)
			if kind, ok := KindOf(err); ok {
				log.Printf("ai: provider %s failed (%s) after %s: %v", p.ID(), kind, attemptElapsed.Round(time.Millisecond), err)
			} else {
				log.Printf("ai: provider %s failed after %s: %v", p.ID(), attemptElapsed.Round(time.Millisecond), err)
			}
			continue
		}

		o.sink.ObserveGeneration(p.ID(), attemptElapsed, true)
		res.ProviderID = p.ID()
		res.Elapsed = time.Since(start)
		if res.GeneratedAt.IsZero() {
			res.GeneratedAt = time.Now().UTC()
		}
		return res
	}

	log.Printf("ai: all providers failed, using emergency template")
	o.sink.ObserveGeneration(FallbackProviderID, time.Since(start), true)
	return Result{
		Content:     unavailableTemplates[rand.Intn(len(unavailableTemplates))],
		ProviderID:  FallbackProviderID,
		GeneratedAt: time.Now().UTC(),
		Elapsed:     time.Since(start),
	}
}

// Engines reports the configured providers in priority order.
func (o *Orchestrator) Engines() []EngineInfo {
	out := make([]EngineInfo, 0, len(o.providers))
	for _, p := range o.providers {
		out = append(out, EngineInfo{
			ID:        p.ID(),
			Kind:      p.Kind(),
			Available: p.Available(),
			Default:   p.ID() == o.defaultID,
		})
	}
	return out
}

func (o *Orchestrator) candidates(preferredID string) []Provider {
	if preferredID == "" {
		preferredID = o.defaultID
	}
	if preferredID == "" {
		return o.providers
	}

	ordered := make([]Provider, 0, len(o.providers))
	for _, p := range o.providers {
		if p.ID() == preferredID {
			ordered = append(ordered, p)
			break
		}
	}
	for _, p := range o.providers {
		if p.ID() != preferredID {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
