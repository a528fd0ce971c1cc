package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

// GraphHandler handles attack graph rebuilds and analysis queries
type GraphHandler struct {
	Analyzer  ports.GraphAnalyzer
	Rebuilder ports.GraphRebuilder
}

// NewGraphHandler creates a new GraphHandler
func NewGraphHandler(analyzer ports.GraphAnalyzer, rebuilder ports.GraphRebuilder) *GraphHandler {
	return &GraphHandler{Analyzer: analyzer, Rebuilder: rebuilder}
}

// HandleRebuild rebuilds the attack graph from current repository state
func (h *GraphHandler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := h.Rebuilder.Refresh(r.Context()); err != nil {
		http.Error(w, "Graph rebuild failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "rebuilt"})
}

// HandleAttackPath returns the shortest attack path between two assets
func (h *GraphHandler) HandleAttackPath(w http.ResponseWriter, r *http.Request) {
	source, err := strconv.ParseUint(r.URL.Query().Get("source"), 10, 32)
	if err != nil {
		http.Error(w, "Invalid source asset ID", http.StatusBadRequest)
		return
	}
	target, err := strconv.ParseUint(r.URL.Query().Get("target"), 10, 32)
	if err != nil {
		http.Error(w, "Invalid target asset ID", http.StatusBadRequest)
		return
	}

	path, err := h.Analyzer.ShortestPath(r.Context(), uint(source), uint(target))
	h.respond(w, path, err)
}

// HandleLateralMovement returns reachable same-zone and adjacent targets
func (h *GraphHandler) HandleLateralMovement(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	targets, err := h.Analyzer.LateralMovement(r.Context(), id, limit)
	if targets == nil {
		targets = []domain.LateralTarget{}
	}
	h.respond(w, targets, err)
}

// HandleBlastRadius returns the exposure footprint of one CVE
func (h *GraphHandler) HandleBlastRadius(w http.ResponseWriter, r *http.Request) {
	cveID := mux.Vars(r)["cve"]

	radius, err := h.Analyzer.BlastRadius(r.Context(), cveID)
	h.respond(w, radius, err)
}

// HandleRiskPropagation ranks assets by propagated risk
func (h *GraphHandler) HandleRiskPropagation(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Analyzer.RiskPropagation(r.Context())
	if entries == nil {
		entries = []domain.PropagationEntry{}
	}
	h.respond(w, entries, err)
}

// HandleExport returns the full graph for visualization
func (h *GraphHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.Analyzer.ExportFullGraph(r.Context())
	h.respond(w, export, err)
}

// respond writes the payload as JSON. An unavailable graph store degrades
// to the analyzer's empty result instead of an error status.
func (h *GraphHandler) respond(w http.ResponseWriter, payload any, err error) {
	if err != nil && !errors.Is(err, domain.ErrGraphUnavailable) {
		http.Error(w, "Graph query failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
