package httpapi

import (
	"net/http"
	"strings"
)

type spiritSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Backstory   string `json:"backstory"`
}

func (s *Server) handleListSpirits(w http.ResponseWriter, _ *http.Request) {
	all := s.catalog.All()
	out := make([]spiritSummary, 0, len(all))
	for _, sp := range all {
		out = append(out, spiritSummary{
			ID:          sp.ID,
			Name:        sp.Name,
			Personality: string(sp.Personality),
			Backstory:   sp.Backstory,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"spirits": out})
}

func (s *Server) handleListEngines(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"engines": s.svc.Engines()})
}

func (s *Server) handleEngineLatency(w http.ResponseWriter, _ *http.Request) {
	if s.latency == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"generated_at": "",
			"window_size":  0,
			"providers":    []any{},
		})
		return
	}
	respondJSON(w, http.StatusOK, s.latency.Snapshot())
}

type oracleRequest struct {
	SpiritID string `json:"spirit_id"`
	Question string `json:"question"`
}

type oracleResponse struct {
	Answer     string `json:"answer"`
	SpiritID   string `json:"spirit_id"`
	ProviderID string `json:"provider_id"`
}

// handleOracle answers a single question with no session and no memory.
func (s *Server) handleOracle(w http.ResponseWriter, r *http.Request) {
	var req oracleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "empty_question", "question is required")
		return
	}

	sp, err := s.resolveSpirit(req.SpiritID)
	if err != nil {
		respondError(w, http.StatusNotFound, "spirit_not_found", err.Error())
		return
	}

	reply := s.svc.GenerateOneShot(r.Context(), sp, req.Question)
	respondJSON(w, http.StatusOK, oracleResponse{
		Answer:     reply.Text,
		SpiritID:   sp.ID,
		ProviderID: reply.ProviderID,
	})
}
