package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

func sampleReport() *domain.RiskReport {
	return &domain.RiskReport{
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Title:       "Vulnerability Risk Report",
		Stats: domain.ReportStats{
			TotalAssets:  12,
			TotalVulns:   340,
			TotalMatches: 27,
			OpenMatches:  19,
			KEVMatches:   3,
			AverageRisk:  47.3,
			LevelBreakdown: map[domain.RiskLevel]int{
				domain.RiskCritical: 2,
				domain.RiskHigh:     3,
				domain.RiskMedium:   4,
				domain.RiskLow:      3,
			},
			MatchesByType: map[domain.MatchType]int{
				domain.MatchExactCPE: 11,
				domain.MatchFuzzy:    16,
			},
			AssetsByZone: map[domain.NetworkZone]int{
				domain.ZoneDMZ:      4,
				domain.ZoneInternal: 8,
			},
		},
		TopRisks: []domain.PropagationEntry{
			{AssetID: 1, Hostname: "web-01", Criticality: domain.CriticalityHigh,
				VulnCount: 5, AvgCVSS: 8.2, MaxExploitProb: 0.9, ReachableCount: 6, PropagationScore: 59.04},
		},
		TopMatches: []domain.MatchResult{
			{AssetID: 1, CVEID: "CVE-2021-44228", Confidence: 0.98,
				MatchType: domain.MatchExactCPE, CVSSScore: 10.0, SoftwareName: "log4j", SoftwareVersion: "2.14.1"},
		},
	}
}

func TestExportRiskReport(t *testing.T) {
	exporter := NewPDFExporter()

	data, err := exporter.ExportRiskReport(sampleReport())
	if err != nil {
		t.Fatalf("ExportRiskReport failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF, starts with %q", data[:8])
	}
}

func TestExportRiskReportEmpty(t *testing.T) {
	exporter := NewPDFExporter()

	report := &domain.RiskReport{
		GeneratedAt: time.Now(),
		Title:       "Vulnerability Risk Report",
	}
	data, err := exporter.ExportRiskReport(report)
	if err != nil {
		t.Fatalf("ExportRiskReport failed on empty report: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
}
