package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vulnguard/vulnguard/internal/adapters/web/middleware"
)

// SetupRoutes wires the full API surface onto a router.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// Rate limiters
	runLimiter := middleware.NewRateLimiter(5, 1*time.Minute)     // 5 matching runs per minute
	rebuildLimiter := middleware.NewRateLimiter(5, 1*time.Minute) // 5 graph rebuilds per minute

	limitRuns := middleware.RateLimitMiddleware(runLimiter)
	limitRebuilds := middleware.RateLimitMiddleware(rebuildLimiter)

	// Asset inventory
	r.HandleFunc("/api/assets", s.AssetHandler.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/api/assets", s.AssetHandler.HandleUpsert).Methods(http.MethodPost)
	r.HandleFunc("/api/assets/{id}", s.AssetHandler.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/assets/{id}/software", s.AssetHandler.HandleReplaceSoftware).Methods(http.MethodPut)

	// Vulnerability record store
	r.HandleFunc("/api/vulnerabilities", s.VulnHandler.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/api/vulnerabilities", s.VulnHandler.HandleUpsert).Methods(http.MethodPost)
	r.HandleFunc("/api/vulnerabilities/status", s.VulnHandler.HandleSyncStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/vulnerabilities/{cve}", s.VulnHandler.HandleGet).Methods(http.MethodGet)

	// Matching runs and persisted matches
	r.Handle("/api/matching/run", limitRuns(http.HandlerFunc(s.MatchHandler.HandleRunAll))).Methods(http.MethodPost)
	r.Handle("/api/matching/run/{id}", limitRuns(http.HandlerFunc(s.MatchHandler.HandleRunAsset))).Methods(http.MethodPost)
	r.HandleFunc("/api/matches", s.MatchHandler.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/api/matches/{id}/{cve}/status", s.MatchHandler.HandleUpdateStatus).Methods(http.MethodPut)

	// Ad-hoc risk scoring
	r.HandleFunc("/api/risk/score", s.RiskHandler.HandleScore).Methods(http.MethodPost)
	r.HandleFunc("/api/risk/batch", s.RiskHandler.HandleScoreBatch).Methods(http.MethodPost)

	// Attack graph
	r.Handle("/api/graph/rebuild", limitRebuilds(http.HandlerFunc(s.GraphHandler.HandleRebuild))).Methods(http.MethodPost)
	r.HandleFunc("/api/graph/attack-path", s.GraphHandler.HandleAttackPath).Methods(http.MethodGet)
	r.HandleFunc("/api/graph/lateral-movement/{id}", s.GraphHandler.HandleLateralMovement).Methods(http.MethodGet)
	r.HandleFunc("/api/graph/blast-radius/{cve}", s.GraphHandler.HandleBlastRadius).Methods(http.MethodGet)
	r.HandleFunc("/api/graph/risk-propagation", s.GraphHandler.HandleRiskPropagation).Methods(http.MethodGet)
	r.HandleFunc("/api/graph/export", s.GraphHandler.HandleExport).Methods(http.MethodGet)

	// Reports
	r.HandleFunc("/api/reports/summary", s.ReportHandler.HandleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/download", s.ReportHandler.HandleDownload).Methods(http.MethodGet)

	// WebSocket endpoint
	r.HandleFunc("/ws", s.WSManager.HandleWebSocket)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
