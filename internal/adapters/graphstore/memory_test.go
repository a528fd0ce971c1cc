package graphstore

import (
	"context"
	"testing"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

func TestSnapshotBeforeFirstRebuild(t *testing.T) {
	store := NewMemoryStore()

	export, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(export.Nodes) != 0 || len(export.Edges) != 0 {
		t.Errorf("expected empty graph, got %d nodes %d edges", len(export.Nodes), len(export.Edges))
	}
}

func TestCommitSwapsActiveGraph(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	build, err := store.BeginRebuild(ctx)
	if err != nil {
		t.Fatalf("BeginRebuild() error = %v", err)
	}
	node := domain.GraphNode{Key: "asset:1", Kind: domain.NodeAsset}
	if err := build.UpsertNode(ctx, node); err != nil {
		t.Fatalf("UpsertNode() error = %v", err)
	}

	// The shadow build must stay invisible until Commit.
	export, _ := store.Snapshot(ctx)
	if len(export.Nodes) != 0 {
		t.Fatalf("shadow build leaked into active graph: %d nodes", len(export.Nodes))
	}

	if err := build.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	export, _ = store.Snapshot(ctx)
	if len(export.Nodes) != 1 {
		t.Fatalf("expected 1 node after commit, got %d", len(export.Nodes))
	}
}

func TestUpsertsAreIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	build, _ := store.BeginRebuild(ctx)
	node := domain.GraphNode{Key: "zone:dmz", Kind: domain.NodeZone, Zone: domain.ZoneDMZ}
	edge := domain.GraphEdge{From: "zone:external", To: "zone:dmz", Kind: domain.EdgeConnectsTo}
	for i := 0; i < 3; i++ {
		if err := build.UpsertNode(ctx, node); err != nil {
			t.Fatalf("UpsertNode() error = %v", err)
		}
		if err := build.UpsertEdge(ctx, edge); err != nil {
			t.Fatalf("UpsertEdge() error = %v", err)
		}
	}
	if err := build.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	export, _ := store.Snapshot(ctx)
	if len(export.Nodes) != 1 {
		t.Errorf("expected 1 node, got %d", len(export.Nodes))
	}
	if len(export.Edges) != 1 {
		t.Errorf("expected 1 edge, got %d", len(export.Edges))
	}
}

func TestUpsertNodeReplacesByKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	build, _ := store.BeginRebuild(ctx)
	first := domain.GraphNode{Key: "asset:1", Kind: domain.NodeAsset, Asset: &domain.AssetNodeProps{Hostname: "old"}}
	second := domain.GraphNode{Key: "asset:1", Kind: domain.NodeAsset, Asset: &domain.AssetNodeProps{Hostname: "new"}}
	_ = build.UpsertNode(ctx, first)
	_ = build.UpsertNode(ctx, second)
	_ = build.Commit(ctx)

	export, _ := store.Snapshot(ctx)
	if got := export.Nodes[0].Asset.Hostname; got != "new" {
		t.Errorf("expected last write to win, got hostname %q", got)
	}
}

func TestAbortDiscardsShadow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seed, _ := store.BeginRebuild(ctx)
	_ = seed.UpsertNode(ctx, domain.GraphNode{Key: "asset:1", Kind: domain.NodeAsset})
	_ = seed.Commit(ctx)

	doomed, _ := store.BeginRebuild(ctx)
	_ = doomed.UpsertNode(ctx, domain.GraphNode{Key: "asset:2", Kind: domain.NodeAsset})
	if err := doomed.Abort(ctx); err != nil {
		t.Fatalf("Abort() error = %v", err)
	}

	export, _ := store.Snapshot(ctx)
	if len(export.Nodes) != 1 || export.Nodes[0].Key != "asset:1" {
		t.Errorf("abort must leave the active graph untouched, got %+v", export.Nodes)
	}
}

func TestBuildUnusableAfterClose(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	build, _ := store.BeginRebuild(ctx)
	_ = build.Commit(ctx)

	if err := build.UpsertNode(ctx, domain.GraphNode{Key: "asset:1"}); err == nil {
		t.Error("UpsertNode() after Commit should fail")
	}
	if err := build.Commit(ctx); err == nil {
		t.Error("second Commit() should fail")
	}
}

func TestSnapshotPreservesInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	build, _ := store.BeginRebuild(ctx)
	keys := []string{"zone:external", "zone:dmz", "asset:1", "vuln:CVE-2024-1111"}
	for _, k := range keys {
		_ = build.UpsertNode(ctx, domain.GraphNode{Key: k})
	}
	_ = build.Commit(ctx)

	export, _ := store.Snapshot(ctx)
	for i, k := range keys {
		if export.Nodes[i].Key != k {
			t.Fatalf("node %d = %q, want %q", i, export.Nodes[i].Key, k)
		}
	}
}
