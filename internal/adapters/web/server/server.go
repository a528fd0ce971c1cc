package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vulnguard/vulnguard/internal/adapters/reporting"
	"github.com/vulnguard/vulnguard/internal/adapters/web/handlers"
	"github.com/vulnguard/vulnguard/internal/adapters/web/websocket"
	"github.com/vulnguard/vulnguard/internal/core/ports"
	"github.com/vulnguard/vulnguard/internal/core/services/match"
	"github.com/vulnguard/vulnguard/internal/core/services/report"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr string

	WSManager *websocket.WSManager

	AssetHandler  *handlers.AssetHandler
	VulnHandler   *handlers.VulnHandler
	MatchHandler  *handlers.MatchHandler
	RiskHandler   *handlers.RiskHandler
	GraphHandler  *handlers.GraphHandler
	ReportHandler *handlers.ReportHandler

	log *slog.Logger
	srv *http.Server
}

// Deps carries everything the server needs wired from the application.
type Deps struct {
	Assets    ports.AssetRepository
	Vulns     ports.VulnerabilityRepository
	Matches   ports.MatchRepository
	Runner    *match.Runner
	Scorer    ports.RiskScorer
	Analyzer  ports.GraphAnalyzer
	Rebuilder ports.GraphRebuilder
	Generator *report.Generator
	Exporter  *reporting.PDFExporter
	Log       *slog.Logger
}

// NewServer creates a new web server.
func NewServer(addr string, d Deps) *Server {
	wsManager := websocket.NewWSManager(d.Analyzer, d.Log)

	return &Server{
		Addr:      addr,
		WSManager: wsManager,

		AssetHandler:  handlers.NewAssetHandler(d.Assets),
		VulnHandler:   handlers.NewVulnHandler(d.Vulns),
		MatchHandler:  handlers.NewMatchHandler(d.Runner, d.Matches, wsManager),
		RiskHandler:   handlers.NewRiskHandler(d.Scorer),
		GraphHandler:  handlers.NewGraphHandler(d.Analyzer, d.Rebuilder),
		ReportHandler: handlers.NewReportHandler(d.Generator, d.Exporter),

		log: d.Log,
	}
}

// Run starts the server and the websocket broadcaster, and blocks until the
// context is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.WSManager.Start(ctx)

	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "vulnguard-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		s.log.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("web server shutdown error", "error", err)
		}
	}()

	s.log.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
