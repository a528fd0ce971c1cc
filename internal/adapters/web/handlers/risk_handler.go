package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

// RiskHandler handles ad-hoc composite risk scoring
type RiskHandler struct {
	Scorer ports.RiskScorer
}

// NewRiskHandler creates a new RiskHandler
func NewRiskHandler(scorer ports.RiskScorer) *RiskHandler {
	return &RiskHandler{Scorer: scorer}
}

// HandleScore computes one composite risk score from the supplied inputs
func (h *RiskHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var rc domain.AssetRiskContext
	if err := json.NewDecoder(r.Body).Decode(&rc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateRiskContext(rc); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	result := h.Scorer.Calculate(rc)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleScoreBatch computes scores for a list of inputs, sorted by score
func (h *RiskHandler) HandleScoreBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4*1048576)

	var rcs []domain.AssetRiskContext
	if err := json.NewDecoder(r.Body).Decode(&rcs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, rc := range rcs {
		if msg := validateRiskContext(rc); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
	}

	results := h.Scorer.CalculateBatch(rcs)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func validateRiskContext(rc domain.AssetRiskContext) string {
	if rc.ExploitProbability < 0 || rc.ExploitProbability > 1 {
		return "exploit_probability must be between 0 and 1"
	}
	if rc.CVSSScore < 0 || rc.CVSSScore > 10 {
		return "cvss_score must be between 0 and 10"
	}
	if rc.VulnerabilityCount < 0 {
		return "vulnerability_count must not be negative"
	}
	return ""
}
