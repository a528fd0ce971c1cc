package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

// VulnHandler handles the vulnerability record store
type VulnHandler struct {
	Vulns ports.VulnerabilityRepository
}

// NewVulnHandler creates a new VulnHandler
func NewVulnHandler(vulns ports.VulnerabilityRepository) *VulnHandler {
	return &VulnHandler{Vulns: vulns}
}

// HandleList returns every vulnerability record
func (h *VulnHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Vulns.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to list vulnerabilities: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// HandleGet returns one record by CVE identifier
func (h *VulnHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cveID := mux.Vars(r)["cve"]

	rec, err := h.Vulns.GetByCVE(r.Context(), cveID)
	if err != nil {
		http.Error(w, "Failed to load vulnerability: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "Vulnerability not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// HandleUpsert inserts or updates one record keyed by CVE identifier
func (h *VulnHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var rec domain.VulnerabilityRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if rec.CVEID == "" {
		http.Error(w, "cve_id is required", http.StatusBadRequest)
		return
	}

	if err := h.Vulns.UpsertRecord(r.Context(), rec); err != nil {
		http.Error(w, "Failed to save vulnerability: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

// HandleSyncStatus reports record count and last sync time
func (h *VulnHandler) HandleSyncStatus(w http.ResponseWriter, r *http.Request) {
	count, err := h.Vulns.GetTotalCount(r.Context())
	if err != nil {
		http.Error(w, "Failed to read sync status: "+err.Error(), http.StatusInternalServerError)
		return
	}
	lastSync, err := h.Vulns.GetLastSyncTime(r.Context())
	if err != nil {
		http.Error(w, "Failed to read sync status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	payload := map[string]any{"total_records": count}
	if !lastSync.IsZero() {
		payload["last_sync"] = lastSync
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
