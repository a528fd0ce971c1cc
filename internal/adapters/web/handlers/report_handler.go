package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/services/report"
)

// PDFExporter renders a generated report as a PDF document.
type PDFExporter interface {
	ExportRiskReport(report *domain.RiskReport) ([]byte, error)
}

// ReportHandler handles executive risk report generation
type ReportHandler struct {
	Generator *report.Generator
	Exporter  PDFExporter
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(generator *report.Generator, exporter PDFExporter) *ReportHandler {
	return &ReportHandler{Generator: generator, Exporter: exporter}
}

// HandleSummary returns the aggregated report data as JSON
func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	data, err := h.Generator.Generate(r.Context())
	if err != nil {
		http.Error(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// HandleDownload renders the report as a PDF attachment
func (h *ReportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	data, err := h.Generator.Generate(r.Context())
	if err != nil {
		http.Error(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pdf, err := h.Exporter.ExportRiskReport(data)
	if err != nil {
		http.Error(w, "PDF rendering failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("vulnguard_report_%s.pdf", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(pdf)
}
