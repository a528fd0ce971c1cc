package graph

import (
	"context"
	"fmt"

	"github.com/vulnguard/vulnguard/internal/core/ports"
)

// Refresher assembles a full rebuild input from the repositories and hands
// it to the builder. It is the single entry point for both scheduled and
// on-demand rebuilds.
type Refresher struct {
	assets  ports.AssetRepository
	vulns   ports.VulnerabilityRepository
	matches ports.MatchRepository
	builder *Builder
}

func NewRefresher(assets ports.AssetRepository, vulns ports.VulnerabilityRepository, matches ports.MatchRepository, builder *Builder) *Refresher {
	return &Refresher{assets: assets, vulns: vulns, matches: matches, builder: builder}
}

// Refresh loads the current repository state and rebuilds the attack graph.
func (r *Refresher) Refresh(ctx context.Context) error {
	assets, err := r.assets.GetAllAssets(ctx)
	if err != nil {
		return fmt.Errorf("loading assets for rebuild: %w", err)
	}

	vulns, err := r.vulns.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading vulnerability records for rebuild: %w", err)
	}

	matches, err := r.matches.GetAllMatches(ctx)
	if err != nil {
		return fmt.Errorf("loading matches for rebuild: %w", err)
	}

	return r.builder.Rebuild(ctx, BuildInput{
		Assets:          assets,
		Vulnerabilities: vulns,
		Matches:         matches,
	})
}
