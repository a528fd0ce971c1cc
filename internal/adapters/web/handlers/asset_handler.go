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
)

// AssetHandler handles asset inventory operations
type AssetHandler struct {
	Assets ports.AssetRepository
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets ports.AssetRepository) *AssetHandler {
	return &AssetHandler{Assets: assets}
}

// HandleUpsert registers or updates an asset keyed by hostname
func (h *AssetHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var asset domain.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if asset.Hostname == "" {
		http.Error(w, "Hostname is required", http.StatusBadRequest)
		return
	}

	saved, err := h.Assets.SaveAsset(r.Context(), asset)
	if err != nil {
		http.Error(w, "Failed to save asset: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// HandleList returns every asset including its software inventory
func (h *AssetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.GetAllAssets(r.Context())
	if err != nil {
		http.Error(w, "Failed to list assets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

// HandleGet returns one asset by ID
func (h *AssetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	asset, err := h.Assets.GetAsset(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load asset: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if asset == nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// HandleReplaceSoftware swaps the full software inventory of an asset
func (h *AssetHandler) HandleReplaceSoftware(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var items []domain.SoftwareItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Assets.ReplaceSoftware(r.Context(), id, items); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to replace software: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"asset_id": id, "software_count": len(items)})
}

func assetID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
