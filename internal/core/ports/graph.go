package ports

import (
	"context"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// GraphStore is the attack graph backend. Any engine offering key-based
// upsert semantics works; the bundled adapter is an in-process key-indexed
// store. Implementations report connectivity problems by wrapping
// domain.ErrGraphUnavailable.
type GraphStore interface {
	// BeginRebuild opens a shadow build. The active graph keeps serving
	// reads until Commit swaps the shadow in atomically.
	BeginRebuild(ctx context.Context) (GraphBuild, error)
	// Snapshot returns a consistent read view of the active graph.
	Snapshot(ctx context.Context) (*domain.GraphExport, error)
}

// GraphBuild collects nodes and edges for one rebuild. Upserts are
// idempotent by identity key (node key, edge (from, kind, to) triple), so
// feeding identical input twice yields the same graph.
type GraphBuild interface {
	UpsertNode(ctx context.Context, node domain.GraphNode) error
	UpsertEdge(ctx context.Context, edge domain.GraphEdge) error
	Commit(ctx context.Context) error
	// Abort discards the shadow build; the active graph is untouched.
	Abort(ctx context.Context) error
}

// GraphRebuilder triggers a full attack graph rebuild from the current
// repository state.
type GraphRebuilder interface {
	Refresh(ctx context.Context) error
}
