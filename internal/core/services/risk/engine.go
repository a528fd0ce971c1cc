// Package risk implements the composite risk scoring engine.
//
// The composite score combines exploit likelihood, asset criticality,
// attack path weight, network exposure and business impact, each
// normalized to [0,1], weighted, and boosted for known-exploited or
// public-exploit vulnerabilities. The final score lives on [0,100].
package risk

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/telemetry"
)

// Factor weights. They sum to 1 so the unboosted score stays in [0,100].
const (
	weightExploit     = 0.30
	weightCriticality = 0.20
	weightAttackPath  = 0.20
	weightExposure    = 0.15
	weightBusiness    = 0.15
)

var criticalityWeights = map[domain.Criticality]float64{
	domain.CriticalityCritical: 1.0,
	domain.CriticalityHigh:     0.8,
	domain.CriticalityMedium:   0.5,
	domain.CriticalityLow:      0.2,
}

var zoneExposure = map[domain.NetworkZone]float64{
	domain.ZoneExternal:   1.0,
	domain.ZoneDMZ:        0.85,
	domain.ZoneCloud:      0.75,
	domain.ZoneInternal:   0.4,
	domain.ZoneRestricted: 0.2,
}

var businessImpact = map[string]float64{
	"finance":     1.0,
	"executive":   0.95,
	"engineering": 0.9,
	"operations":  0.8,
	"it":          0.75,
	"hr":          0.7,
	"marketing":   0.5,
	"unassigned":  0.3,
}

// Engine computes explainable composite risk scores. It is stateless and
// safe for concurrent use.
type Engine struct{}

// NewEngine creates a risk scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Calculate computes the composite score for one context. Every categorical
// lookup has a default (criticality 0.5, zone 0.4, business unit 0.3), so
// malformed input degrades instead of failing.
func (e *Engine) Calculate(rc domain.AssetRiskContext) domain.RiskScoreResult {
	// Factor 1: exploit likelihood from the predictor or EPSS, capped at 1.
	exploitFactor := math.Min(rc.ExploitProbability, 1.0)

	// Factor 2: asset criticality.
	criticalityFactor, ok := criticalityWeights[rc.AssetCriticality]
	if !ok {
		criticalityFactor = 0.5
	}

	// Factor 3: attack path weight from CVSS and vulnerability density.
	// A count of zero undershoots 1.0 (0.95) by construction.
	density := math.Min(1.0+float64(rc.VulnerabilityCount-1)*0.05, 2.0)
	attackPathFactor := math.Min((rc.CVSSScore/10)*density, 1.0)

	// Factor 4: network exposure; internet-facing raises the floor to 0.9.
	exposureFactor, ok := zoneExposure[rc.NetworkZone]
	if !ok {
		exposureFactor = 0.4
	}
	if rc.IsInternetFacing {
		exposureFactor = math.Max(exposureFactor, 0.9)
	}

	// Factor 5: business impact.
	businessFactor, ok := businessImpact[strings.ToLower(rc.BusinessUnit)]
	if !ok {
		businessFactor = 0.3
	}

	urgencyBoost := 1.0
	if rc.IsKEV {
		urgencyBoost += 0.3
	}
	if rc.HasExploit {
		urgencyBoost += 0.2
	}
	urgencyBoost = math.Min(urgencyBoost, 1.5)

	raw := (exploitFactor*weightExploit +
		criticalityFactor*weightCriticality +
		attackPathFactor*weightAttackPath +
		exposureFactor*weightExposure +
		businessFactor*weightBusiness) * urgencyBoost

	score := round2(math.Min(raw*100, 100))

	result := domain.RiskScoreResult{
		AssetID:      rc.AssetID,
		CVEID:        rc.CVEID,
		Score:        score,
		Level:        domain.LevelForScore(score),
		UrgencyBoost: round2(urgencyBoost),
		CalculatedAt: time.Now().UTC(),
		// Contributions are computed pre-boost, so they sum to less than
		// the final score whenever the boost exceeds 1. That is the
		// documented explainability convention, kept as-is.
		Breakdown: []domain.RiskFactor{
			factor("exploit_probability", exploitFactor, weightExploit, ""),
			factor("asset_criticality", criticalityFactor, weightCriticality, string(rc.AssetCriticality)),
			factor("attack_path_weight", attackPathFactor, weightAttackPath,
				"cvss="+strconv.FormatFloat(rc.CVSSScore, 'f', 1, 64)+" count="+strconv.Itoa(rc.VulnerabilityCount)),
			factor("exposure_factor", exposureFactor, weightExposure, string(rc.NetworkZone)),
			factor("business_impact", businessFactor, weightBusiness, rc.BusinessUnit),
		},
	}

	telemetry.RiskScoresComputed.WithLabelValues(string(result.Level)).Inc()
	return result
}

// CalculateBatch scores every context and returns the results sorted by
// score descending.
func (e *Engine) CalculateBatch(ctxs []domain.AssetRiskContext) []domain.RiskScoreResult {
	results := make([]domain.RiskScoreResult, 0, len(ctxs))
	for _, rc := range ctxs {
		results = append(results, e.Calculate(rc))
	}
	sortByScore(results)
	return results
}

func factor(name string, value, weight float64, input string) domain.RiskFactor {
	return domain.RiskFactor{
		Name:         name,
		Value:        round4(value),
		Weight:       weight,
		Input:        input,
		Contribution: round2(value * weight * 100),
	}
}

func sortByScore(results []domain.RiskScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round4(f float64) float64 { return math.Round(f*10000) / 10000 }
