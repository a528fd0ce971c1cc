package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
	"github.com/vulnguard/vulnguard/internal/telemetry"
)

// Runner orchestrates matching runs: it loads inventories and vulnerability
// records from the repositories, feeds them through the pure matching
// engine, persists the results and refreshes each asset's composite risk
// score. Concurrent runs for the same asset are safe because the match
// repository upserts on (asset_id, cve_id).
type Runner struct {
	assets  ports.AssetRepository
	vulns   ports.VulnerabilityRepository
	matches ports.MatchRepository
	engine  ports.Matcher
	scorer  ports.RiskScorer
}

// NewRunner wires a matching runner.
func NewRunner(assets ports.AssetRepository, vulns ports.VulnerabilityRepository, matches ports.MatchRepository, engine ports.Matcher, scorer ports.RiskScorer) *Runner {
	return &Runner{assets: assets, vulns: vulns, matches: matches, engine: engine, scorer: scorer}
}

// RunAll executes a matching run over every asset and returns the total
// number of matches produced.
func (r *Runner) RunAll(ctx context.Context) (int, error) {
	runID := uuid.NewString()

	records, err := r.vulns.GetAll(ctx)
	if err != nil {
		telemetry.MatchingRuns.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("loading vulnerability records: %w", err)
	}

	assets, err := r.assets.GetAllAssets(ctx)
	if err != nil {
		telemetry.MatchingRuns.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("loading assets: %w", err)
	}

	total := 0
	for i := range assets {
		results, err := r.runOne(ctx, &assets[i], records)
		if err != nil {
			telemetry.MatchingRuns.WithLabelValues("error").Inc()
			return total, err
		}
		total += len(results)
	}

	telemetry.MatchingRuns.WithLabelValues("ok").Inc()
	slog.Info("matching run complete", "run_id", runID, "assets", len(assets), "vulns", len(records), "matches", total)
	return total, nil
}

// RunAsset executes a matching run for a single asset.
func (r *Runner) RunAsset(ctx context.Context, assetID uint) ([]domain.MatchResult, error) {
	asset, err := r.assets.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading asset %d: %w", assetID, err)
	}
	if asset == nil {
		return nil, fmt.Errorf("asset %d not found", assetID)
	}

	records, err := r.vulns.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vulnerability records: %w", err)
	}

	return r.runOne(ctx, asset, records)
}

func (r *Runner) runOne(ctx context.Context, asset *domain.Asset, records []domain.VulnerabilityRecord) ([]domain.MatchResult, error) {
	results := r.engine.BulkMatch(asset.Software, records)
	for i := range results {
		results[i].AssetID = asset.ID
	}

	if err := r.matches.SaveMatches(ctx, results); err != nil {
		return nil, fmt.Errorf("persisting matches for asset %d: %w", asset.ID, err)
	}
	for _, res := range results {
		telemetry.MatchesFound.WithLabelValues(string(res.MatchType)).Inc()
	}

	score := 0.0
	if len(results) > 0 {
		scored := r.scorer.Calculate(riskContext(asset, results, records))
		score = scored.Score
	}
	if err := r.assets.UpdateRiskScore(ctx, asset.ID, score); err != nil {
		return nil, fmt.Errorf("updating risk score for asset %d: %w", asset.ID, err)
	}

	return results, nil
}

// riskContext folds an asset's match set into the scalar inputs of a risk
// calculation: worst CVSS, worst exploit probability, any-KEV and
// any-exploit flags, distinct CVE count.
func riskContext(asset *domain.Asset, results []domain.MatchResult, records []domain.VulnerabilityRecord) domain.AssetRiskContext {
	byID := make(map[string]*domain.VulnerabilityRecord, len(records))
	for i := range records {
		byID[records[i].CVEID] = &records[i]
	}

	rc := domain.AssetRiskContext{
		AssetID:          asset.ID,
		AssetCriticality: asset.Criticality,
		NetworkZone:      asset.NetworkZone,
		IsInternetFacing: asset.IsInternetFacing,
		BusinessUnit:     asset.BusinessUnit,
	}

	seen := make(map[string]struct{}, len(results))
	for _, res := range results {
		if _, dup := seen[res.CVEID]; dup {
			continue
		}
		seen[res.CVEID] = struct{}{}

		if res.CVSSScore > rc.CVSSScore {
			rc.CVSSScore = res.CVSSScore
		}
		if rec, ok := byID[res.CVEID]; ok {
			if rec.ExploitProbability > rc.ExploitProbability {
				rc.ExploitProbability = rec.ExploitProbability
			}
			rc.IsKEV = rc.IsKEV || rec.IsKEV
			rc.HasExploit = rc.HasExploit || rec.HasPublicExploit
		}
	}
	rc.VulnerabilityCount = len(seen)
	return rc
}
