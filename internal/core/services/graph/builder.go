// Package graph builds and queries the attack graph: a projection of
// assets, vulnerabilities, network zones and privilege levels into nodes
// and edges that reachability queries can walk.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
	"github.com/vulnguard/vulnguard/internal/telemetry"
)

// BuildInput is the full dataset projected into one rebuild.
type BuildInput struct {
	Assets          []domain.Asset
	Vulnerabilities []domain.VulnerabilityRecord
	Matches         []domain.MatchResult
}

// Builder projects the current platform state into the graph store. Each
// rebuild runs against a shadow graph and swaps it in atomically, so
// readers never see a half-built graph.
type Builder struct {
	store ports.GraphStore
	log   *slog.Logger
}

// NewBuilder creates a graph builder on top of a graph store.
func NewBuilder(store ports.GraphStore, log *slog.Logger) *Builder {
	return &Builder{store: store, log: log}
}

// Rebuild replaces the attack graph with a projection of the given input.
// Upserts are idempotent by key, so rebuilding from identical input yields
// an identical graph. Matches referencing an unknown asset or CVE are
// skipped rather than producing dangling edges.
func (b *Builder) Rebuild(ctx context.Context, in BuildInput) error {
	rebuildID := uuid.NewString()
	start := time.Now()

	build, err := b.store.BeginRebuild(ctx)
	if err != nil {
		telemetry.GraphRebuilds.WithLabelValues("error").Inc()
		return fmt.Errorf("begin graph rebuild: %w", err)
	}

	if err := b.project(ctx, build, in); err != nil {
		_ = build.Abort(ctx)
		telemetry.GraphRebuilds.WithLabelValues("error").Inc()
		return fmt.Errorf("graph rebuild %s: %w", rebuildID, err)
	}

	if err := build.Commit(ctx); err != nil {
		telemetry.GraphRebuilds.WithLabelValues("error").Inc()
		return fmt.Errorf("commit graph rebuild %s: %w", rebuildID, err)
	}

	elapsed := time.Since(start)
	telemetry.GraphRebuilds.WithLabelValues("success").Inc()
	telemetry.GraphRebuildDuration.Observe(elapsed.Seconds())

	b.log.Info("attack graph rebuilt",
		"rebuild_id", rebuildID,
		"assets", len(in.Assets),
		"vulnerabilities", len(in.Vulnerabilities),
		"matches", len(in.Matches),
		"duration", elapsed.String(),
	)
	return nil
}

func (b *Builder) project(ctx context.Context, build ports.GraphBuild, in BuildInput) error {
	// Structural nodes first. Every zone and privilege level exists even
	// when no asset currently occupies it, so the static topology is
	// always walkable.
	for _, zone := range domain.Zones() {
		node := domain.GraphNode{
			Key:  domain.ZoneNodeKey(zone),
			Kind: domain.NodeZone,
			Zone: zone,
		}
		if err := build.UpsertNode(ctx, node); err != nil {
			return err
		}
	}
	for _, level := range domain.PrivilegeLevels() {
		node := domain.GraphNode{
			Key:       domain.PrivNodeKey(level),
			Kind:      domain.NodePrivilege,
			Privilege: level,
		}
		if err := build.UpsertNode(ctx, node); err != nil {
			return err
		}
	}

	assetKeys := make(map[string]struct{}, len(in.Assets))
	for _, a := range in.Assets {
		zone := a.NetworkZone
		if zone == "" {
			zone = domain.ZoneInternal
		}
		key := domain.AssetNodeKey(a.ID)
		assetKeys[key] = struct{}{}
		node := domain.GraphNode{
			Key:  key,
			Kind: domain.NodeAsset,
			Asset: &domain.AssetNodeProps{
				AssetID:          a.ID,
				Hostname:         a.Hostname,
				IPAddress:        a.IPAddress,
				Platform:         a.Platform,
				Criticality:      a.Criticality,
				NetworkZone:      zone,
				IsInternetFacing: a.IsInternetFacing,
				RiskScore:        a.RiskScore,
				BusinessUnit:     a.BusinessUnit,
			},
		}
		if err := build.UpsertNode(ctx, node); err != nil {
			return err
		}
	}

	vulnKeys := make(map[string]struct{}, len(in.Vulnerabilities))
	for _, v := range in.Vulnerabilities {
		key := domain.VulnNodeKey(v.CVEID)
		vulnKeys[key] = struct{}{}
		node := domain.GraphNode{
			Key:  key,
			Kind: domain.NodeVulnerability,
			Vulnerability: &domain.VulnNodeProps{
				CVEID:              v.CVEID,
				CVSSScore:          v.CVSSScore,
				EPSSScore:          v.EPSSScore,
				IsKEV:              v.IsKEV,
				ExploitProbability: v.ExploitProbability,
				AttackVector:       v.AttackVector,
				HasExploit:         v.HasPublicExploit,
				Severity:           v.Severity,
			},
		}
		if err := build.UpsertNode(ctx, node); err != nil {
			return err
		}
	}

	skipped := 0
	for _, m := range in.Matches {
		from := domain.AssetNodeKey(m.AssetID)
		to := domain.VulnNodeKey(m.CVEID)
		if _, ok := assetKeys[from]; !ok {
			skipped++
			continue
		}
		if _, ok := vulnKeys[to]; !ok {
			skipped++
			continue
		}
		edge := domain.GraphEdge{
			From:       from,
			To:         to,
			Kind:       domain.EdgeAffectedBy,
			Confidence: m.Confidence,
			Software:   m.SoftwareName,
		}
		if err := build.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}
	if skipped > 0 {
		b.log.Warn("skipped matches referencing unknown nodes", "count", skipped)
	}

	for _, a := range in.Assets {
		zone := a.NetworkZone
		if zone == "" {
			zone = domain.ZoneInternal
		}
		edge := domain.GraphEdge{
			From: domain.AssetNodeKey(a.ID),
			To:   domain.ZoneNodeKey(zone),
			Kind: domain.EdgeInZone,
		}
		if err := build.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}

	for _, pair := range domain.ZoneAdjacency() {
		edge := domain.GraphEdge{
			From: domain.ZoneNodeKey(pair[0]),
			To:   domain.ZoneNodeKey(pair[1]),
			Kind: domain.EdgeConnectsTo,
		}
		if err := build.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}

	for _, pair := range domain.PrivilegeLadder() {
		edge := domain.GraphEdge{
			From: domain.PrivNodeKey(pair[0]),
			To:   domain.PrivNodeKey(pair[1]),
			Kind: domain.EdgeEscalatesTo,
		}
		if err := build.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}

	return nil
}
