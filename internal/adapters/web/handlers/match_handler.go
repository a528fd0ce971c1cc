package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
	"github.com/vulnguard/vulnguard/internal/core/services/match"
)

// RunNotifier receives completion events from matching runs.
type RunNotifier interface {
	BroadcastRunComplete(totalMatches int)
}

// MatchHandler handles matching runs and persisted match results
type MatchHandler struct {
	Runner   *match.Runner
	Matches  ports.MatchRepository
	Notifier RunNotifier
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(runner *match.Runner, matches ports.MatchRepository, notifier RunNotifier) *MatchHandler {
	return &MatchHandler{Runner: runner, Matches: matches, Notifier: notifier}
}

// HandleRunAll triggers a matching run over every asset
func (h *MatchHandler) HandleRunAll(w http.ResponseWriter, r *http.Request) {
	total, err := h.Runner.RunAll(r.Context())
	if err != nil {
		http.Error(w, "Matching run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if h.Notifier != nil {
		h.Notifier.BroadcastRunComplete(total)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"total_matches": total, "status": "complete"})
}

// HandleRunAsset triggers a matching run for a single asset
func (h *MatchHandler) HandleRunAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	results, err := h.Runner.RunAsset(r.Context(), id)
	if err != nil {
		http.Error(w, "Matching run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// HandleList returns persisted matches, optionally filtered by asset or CVE
func (h *MatchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		matches []domain.MatchResult
		err     error
	)

	switch {
	case r.URL.Query().Get("asset_id") != "":
		var id uint64
		id, err = strconv.ParseUint(r.URL.Query().Get("asset_id"), 10, 32)
		if err != nil {
			http.Error(w, "Invalid asset_id filter", http.StatusBadRequest)
			return
		}
		matches, err = h.Matches.GetMatchesForAsset(r.Context(), uint(id))
	case r.URL.Query().Get("cve") != "":
		matches, err = h.Matches.GetMatchesForCVE(r.Context(), r.URL.Query().Get("cve"))
	default:
		matches, err = h.Matches.GetAllMatches(r.Context())
	}

	if err != nil {
		http.Error(w, "Failed to list matches: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// HandleUpdateStatus moves one match through its remediation lifecycle
func (h *MatchHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	cveID := mux.Vars(r)["cve"]

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var body struct {
		Status domain.MatchStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch body.Status {
	case domain.StatusOpen, domain.StatusPatched, domain.StatusMitigated, domain.StatusAccepted:
	default:
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	if err := h.Matches.UpdateStatus(r.Context(), id, cveID, body.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"asset_id": strconv.FormatUint(uint64(id), 10), "cve_id": cveID, "status": string(body.Status)})
}
