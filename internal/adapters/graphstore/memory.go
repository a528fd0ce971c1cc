// Package graphstore provides the in-process attack graph backend. Nodes
// and edges are indexed by identity key, rebuilds happen against a shadow
// graph that Commit swaps in atomically, and snapshots preserve insertion
// order so exports are deterministic.
package graphstore

import (
	"context"
	"errors"
	"sync"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

type edgeKey struct {
	from string
	kind domain.EdgeKind
	to   string
}

// graphState is one immutable-after-commit generation of the graph.
type graphState struct {
	nodes     map[string]domain.GraphNode
	nodeOrder []string
	edges     map[edgeKey]domain.GraphEdge
	edgeOrder []edgeKey
}

func newGraphState() *graphState {
	return &graphState{
		nodes: make(map[string]domain.GraphNode),
		edges: make(map[edgeKey]domain.GraphEdge),
	}
}

func (s *graphState) upsertNode(node domain.GraphNode) {
	if _, ok := s.nodes[node.Key]; !ok {
		s.nodeOrder = append(s.nodeOrder, node.Key)
	}
	s.nodes[node.Key] = node
}

func (s *graphState) upsertEdge(edge domain.GraphEdge) {
	key := edgeKey{from: edge.From, kind: edge.Kind, to: edge.To}
	if _, ok := s.edges[key]; !ok {
		s.edgeOrder = append(s.edgeOrder, key)
	}
	s.edges[key] = edge
}

func (s *graphState) export() *domain.GraphExport {
	out := &domain.GraphExport{
		Nodes: make([]domain.GraphNode, 0, len(s.nodeOrder)),
		Edges: make([]domain.GraphEdge, 0, len(s.edgeOrder)),
	}
	for _, k := range s.nodeOrder {
		out.Nodes = append(out.Nodes, s.nodes[k])
	}
	for _, k := range s.edgeOrder {
		out.Edges = append(out.Edges, s.edges[k])
	}
	return out
}

// MemoryStore implements ports.GraphStore. Reads keep serving the active
// generation while a rebuild fills a shadow one; Commit swaps generations
// under the write lock.
type MemoryStore struct {
	mu     sync.RWMutex
	active *graphState
}

// NewMemoryStore creates an empty store. Snapshot before the first rebuild
// returns an empty graph, not an error.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{active: newGraphState()}
}

// BeginRebuild opens a shadow build. Concurrent builds each get their own
// shadow; the last Commit wins.
func (m *MemoryStore) BeginRebuild(_ context.Context) (ports.GraphBuild, error) {
	return &memoryBuild{store: m, state: newGraphState()}, nil
}

// Snapshot returns a copy of the active graph in insertion order.
func (m *MemoryStore) Snapshot(_ context.Context) (*domain.GraphExport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active.export(), nil
}

type memoryBuild struct {
	store  *MemoryStore
	state  *graphState
	closed bool
}

func (b *memoryBuild) UpsertNode(_ context.Context, node domain.GraphNode) error {
	if b.closed {
		return errors.New("graph build already closed")
	}
	b.state.upsertNode(node)
	return nil
}

func (b *memoryBuild) UpsertEdge(_ context.Context, edge domain.GraphEdge) error {
	if b.closed {
		return errors.New("graph build already closed")
	}
	b.state.upsertEdge(edge)
	return nil
}

func (b *memoryBuild) Commit(_ context.Context) error {
	if b.closed {
		return errors.New("graph build already closed")
	}
	b.closed = true
	b.store.mu.Lock()
	b.store.active = b.state
	b.store.mu.Unlock()
	return nil
}

func (b *memoryBuild) Abort(_ context.Context) error {
	b.closed = true
	b.state = nil
	return nil
}
