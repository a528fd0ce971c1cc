// Package reporting renders risk reports for human consumption.
package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// PDFExporter exports risk reports to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportRiskReport generates a PDF from a risk report
func (e *PDFExporter) ExportRiskReport(report *domain.RiskReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addRiskScore(pdf, report)
	e.addStatistics(pdf, report)
	e.addTopRisks(pdf, report)
	e.addTopMatches(pdf, report)
	e.addFooter(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// addHeader adds the report header
func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report *domain.RiskReport) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 15, report.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	dateStr := fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, dateStr, "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

// addRiskScore adds the prominent average risk display
func (e *PDFExporter) addRiskScore(pdf *gofpdf.Fpdf, report *domain.RiskReport) {
	score := report.Stats.AverageRisk
	r, g, b := e.getRiskColor(score)

	pdf.SetFillColor(r, g, b)
	pdf.Rect(20, pdf.GetY(), 170, 30, "F")

	y := pdf.GetY()

	pdf.SetFont("Arial", "B", 36)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(25, y+5)
	pdf.CellFormat(80, 20, fmt.Sprintf("%.1f/100", score), "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 18)
	pdf.SetXY(110, y+8)
	levelStr := fmt.Sprintf("%s Risk", domain.LevelForScore(score))
	pdf.CellFormat(80, 14, levelStr, "", 0, "L", false, 0, "")

	pdf.SetY(y + 35)
	pdf.Ln(5)
}

// getRiskColor returns RGB color based on a 0-100 composite score
func (e *PDFExporter) getRiskColor(score float64) (r, g, b int) {
	switch {
	case score >= 80:
		return 220, 53, 69 // Red (Critical)
	case score >= 60:
		return 255, 149, 0 // Orange (High)
	case score >= 40:
		return 255, 204, 0 // Yellow (Medium)
	default:
		return 52, 199, 89 // Green (Low/Minimal)
	}
}

// addStatistics adds the estate statistics grid
func (e *PDFExporter) addStatistics(pdf *gofpdf.Fpdf, report *domain.RiskReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Security Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	s := report.Stats
	stats := []struct {
		label string
		value string
		color []int
	}{
		{"Total Assets", fmt.Sprintf("%d", s.TotalAssets), []int{0, 102, 204}},
		{"Known Vulnerabilities", fmt.Sprintf("%d", s.TotalVulns), []int{0, 102, 204}},
		{"Total Matches", fmt.Sprintf("%d", s.TotalMatches), []int{0, 102, 204}},
		{"Open Matches", fmt.Sprintf("%d", s.OpenMatches), []int{255, 149, 0}},
		{"KEV Matches", fmt.Sprintf("%d", s.KEVMatches), []int{220, 53, 69}},
		{"Critical Assets", fmt.Sprintf("%d", s.LevelBreakdown[domain.RiskCritical]), []int{220, 53, 69}},
		{"High Risk Assets", fmt.Sprintf("%d", s.LevelBreakdown[domain.RiskHigh]), []int{255, 149, 0}},
		{"Medium Risk Assets", fmt.Sprintf("%d", s.LevelBreakdown[domain.RiskMedium]), []int{255, 204, 0}},
	}

	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}

		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-50, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}

	pdf.Ln(10)
}

// addTopRisks adds the propagation-ranked asset table
func (e *PDFExporter) addTopRisks(pdf *gofpdf.Fpdf, report *domain.RiskReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Top Risk Propagators", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.TopRisks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No propagation data available", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)

	pdf.CellFormat(15, 8, "Rank", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 8, "Asset", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Criticality", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Vulns", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Avg CVSS", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Score", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, risk := range report.TopRisks {
		if i >= 10 {
			break
		}
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}

		r, g, b := e.getSeverityColor(risk.AvgCVSS)

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")

		hostname := risk.Hostname
		if len(hostname) > 32 {
			hostname = hostname[:29] + "..."
		}
		pdf.CellFormat(55, 7, hostname, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, string(risk.Criticality), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", risk.VulnCount), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f", risk.AvgCVSS), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", risk.PropagationScore), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(8)
}

// addTopMatches adds the highest-confidence match table
func (e *PDFExporter) addTopMatches(pdf *gofpdf.Fpdf, report *domain.RiskReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Highest Confidence Matches", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.TopMatches) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No vulnerability matches recorded", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)

	pdf.CellFormat(45, 8, "CVE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Software", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Match Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "CVSS", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Conf.", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, m := range report.TopMatches {
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}

		r, g, b := e.getSeverityColor(m.CVSSScore)

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(45, 7, m.CVEID, "1", 0, "L", false, 0, "")

		software := m.SoftwareName
		if m.SoftwareVersion != "" {
			software += " " + m.SoftwareVersion
		}
		if len(software) > 28 {
			software = software[:25] + "..."
		}
		pdf.CellFormat(50, 7, software, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, string(m.MatchType), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(20, 7, fmt.Sprintf("%.1f", m.CVSSScore), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(20, 7, fmt.Sprintf("%.2f", m.Confidence), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(8)
}

// getSeverityColor returns RGB color based on CVSS
func (e *PDFExporter) getSeverityColor(cvss float64) (r, g, b int) {
	switch {
	case cvss >= 9:
		return 220, 53, 69 // Red
	case cvss >= 7:
		return 255, 149, 0 // Orange
	case cvss >= 4:
		return 255, 204, 0 // Yellow
	default:
		return 52, 199, 89 // Green
	}
}

// addFooter adds the report footer
func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report *domain.RiskReport) {
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	footerText := fmt.Sprintf("Generated by vulnguard | %s", report.GeneratedAt.Format("2006-01-02"))
	pdf.CellFormat(0, 5, footerText, "", 1, "C", false, 0, "")
}
