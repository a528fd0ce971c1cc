package ports

import (
	"context"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// Matcher correlates installed software with vulnerability records.
type Matcher interface {
	// MatchSoftware evaluates one software item against a vulnerability
	// set, sorted by confidence descending.
	MatchSoftware(software domain.SoftwareItem, vulns []domain.VulnerabilityRecord) []domain.MatchResult
	// BulkMatch evaluates every software item against the full set and
	// merges the results, sorted by confidence descending.
	BulkMatch(software []domain.SoftwareItem, vulns []domain.VulnerabilityRecord) []domain.MatchResult
}

// RiskScorer computes explainable composite risk scores.
type RiskScorer interface {
	Calculate(ctx domain.AssetRiskContext) domain.RiskScoreResult
	// CalculateBatch scores every context, sorted by score descending.
	CalculateBatch(ctxs []domain.AssetRiskContext) []domain.RiskScoreResult
}

// GraphAnalyzer exposes the read-only attack graph queries.
type GraphAnalyzer interface {
	ShortestPath(ctx context.Context, sourceAssetID, targetAssetID uint) (domain.AttackPath, error)
	LateralMovement(ctx context.Context, assetID uint, limit int) ([]domain.LateralTarget, error)
	BlastRadius(ctx context.Context, cveID string) (domain.BlastRadius, error)
	RiskPropagation(ctx context.Context) ([]domain.PropagationEntry, error)
	ExportFullGraph(ctx context.Context) (domain.GraphExport, error)
}
