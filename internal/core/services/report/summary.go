// Package report assembles the executive risk report from the asset,
// vulnerability and match stores plus the attack graph analyzer.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

const topMatchLimit = 10

// Generator builds risk reports. Graph-derived sections degrade to empty
// when the graph store is unavailable; the rest of the report still renders.
type Generator struct {
	assets   ports.AssetRepository
	vulns    ports.VulnerabilityRepository
	matches  ports.MatchRepository
	analyzer ports.GraphAnalyzer
	log      *slog.Logger
}

// NewGenerator wires a report generator.
func NewGenerator(assets ports.AssetRepository, vulns ports.VulnerabilityRepository, matches ports.MatchRepository, analyzer ports.GraphAnalyzer, log *slog.Logger) *Generator {
	return &Generator{assets: assets, vulns: vulns, matches: matches, analyzer: analyzer, log: log}
}

// Generate assembles the current risk report.
func (g *Generator) Generate(ctx context.Context) (*domain.RiskReport, error) {
	assets, err := g.assets.GetAllAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	records, err := g.vulns.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vulnerability records: %w", err)
	}
	matches, err := g.matches.GetAllMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}

	stats := domain.ReportStats{
		TotalAssets:    len(assets),
		TotalVulns:     len(records),
		TotalMatches:   len(matches),
		LevelBreakdown: make(map[domain.RiskLevel]int),
		MatchesByType:  make(map[domain.MatchType]int),
		AssetsByZone:   make(map[domain.NetworkZone]int),
	}

	var riskSum float64
	for _, a := range assets {
		riskSum += a.RiskScore
		stats.LevelBreakdown[domain.LevelForScore(a.RiskScore)]++
		zone := a.NetworkZone
		if zone == "" {
			zone = domain.ZoneInternal
		}
		stats.AssetsByZone[zone]++
	}
	if len(assets) > 0 {
		stats.AverageRisk = riskSum / float64(len(assets))
	}

	kev := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.IsKEV {
			kev[rec.CVEID] = true
		}
	}
	for _, m := range matches {
		stats.MatchesByType[m.MatchType]++
		if m.Status == "" || m.Status == domain.StatusOpen {
			stats.OpenMatches++
		}
		if kev[m.CVEID] {
			stats.KEVMatches++
		}
	}

	topRisks, err := g.analyzer.RiskPropagation(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrGraphUnavailable) {
			return nil, fmt.Errorf("risk propagation: %w", err)
		}
		g.log.Warn("report generated without graph sections", "error", err)
		topRisks = nil
	}

	topMatches := matches
	if len(topMatches) > topMatchLimit {
		topMatches = topMatches[:topMatchLimit]
	}

	return &domain.RiskReport{
		GeneratedAt: time.Now().UTC(),
		Title:       "Vulnerability Risk Report",
		Stats:       stats,
		TopRisks:    topRisks,
		TopMatches:  topMatches,
	}, nil
}
