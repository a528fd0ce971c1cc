package graph

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnguard/vulnguard/internal/adapters/graphstore"
	"github.com/vulnguard/vulnguard/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureInput models a small estate spanning four zones: an exposed web
// server, a DMZ relay, two internal hosts and a restricted database.
func fixtureInput() BuildInput {
	return BuildInput{
		Assets: []domain.Asset{
			{ID: 1, Hostname: "web-01", Criticality: domain.CriticalityHigh, NetworkZone: domain.ZoneExternal, RiskScore: 72},
			{ID: 2, Hostname: "relay-01", Criticality: domain.CriticalityMedium, NetworkZone: domain.ZoneDMZ, RiskScore: 55},
			{ID: 3, Hostname: "app-01", Criticality: domain.CriticalityHigh, NetworkZone: domain.ZoneInternal, RiskScore: 61},
			{ID: 4, Hostname: "db-01", Criticality: domain.CriticalityCritical, NetworkZone: domain.ZoneRestricted, RiskScore: 48},
			{ID: 5, Hostname: "wiki-01", Criticality: domain.CriticalityLow, NetworkZone: domain.ZoneInternal, RiskScore: 20},
		},
		Vulnerabilities: []domain.VulnerabilityRecord{
			{CVEID: "CVE-2024-1111", CVSSScore: 9.8, ExploitProbability: 0.9, IsKEV: true},
			{CVEID: "CVE-2024-2222", CVSSScore: 5.0, ExploitProbability: 0.4},
		},
		Matches: []domain.MatchResult{
			{AssetID: 1, CVEID: "CVE-2024-1111", Confidence: 0.98, SoftwareName: "nginx"},
			{AssetID: 3, CVEID: "CVE-2024-1111", Confidence: 0.85, SoftwareName: "openssl"},
			{AssetID: 3, CVEID: "CVE-2024-2222", Confidence: 0.8, SoftwareName: "log4j"},
		},
	}
}

func rebuilt(t *testing.T, in BuildInput) *graphstore.MemoryStore {
	t.Helper()
	store := graphstore.NewMemoryStore()
	require.NoError(t, NewBuilder(store, testLogger()).Rebuild(context.Background(), in))
	return store
}

func TestRebuildProjectsFullTopology(t *testing.T) {
	store := rebuilt(t, fixtureInput())

	export, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	// 5 zones + 5 privilege levels + 5 assets + 2 vulnerabilities.
	assert.Len(t, export.Nodes, 17)
	// 3 AFFECTED_BY + 5 IN_ZONE + 5 CONNECTS_TO + 4 ESCALATES_TO.
	assert.Len(t, export.Edges, 17)
}

func TestRebuildIdempotent(t *testing.T) {
	store := graphstore.NewMemoryStore()
	b := NewBuilder(store, testLogger())

	require.NoError(t, b.Rebuild(context.Background(), fixtureInput()))
	first, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Rebuild(context.Background(), fixtureInput()))
	second, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRebuildSkipsDanglingMatches(t *testing.T) {
	in := fixtureInput()
	in.Matches = append(in.Matches,
		domain.MatchResult{AssetID: 99, CVEID: "CVE-2024-1111"},
		domain.MatchResult{AssetID: 1, CVEID: "CVE-0000-0000"},
	)
	store := rebuilt(t, in)

	export, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, export.Edges, 17, "matches for unknown nodes must not create edges")
}

func TestRebuildDefaultsEmptyZoneToInternal(t *testing.T) {
	in := fixtureInput()
	in.Assets = append(in.Assets, domain.Asset{ID: 6, Hostname: "mystery-01"})
	store := rebuilt(t, in)

	export, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	found := false
	for _, e := range export.Edges {
		if e.Kind == domain.EdgeInZone && e.From == domain.AssetNodeKey(6) {
			found = true
			assert.Equal(t, domain.ZoneNodeKey(domain.ZoneInternal), e.To)
		}
	}
	assert.True(t, found, "asset without a zone must still be placed in one")
}

func TestRebuildCreatesEveryZoneAndPrivilege(t *testing.T) {
	// Even with no assets at all, the static topology must exist.
	store := rebuilt(t, BuildInput{})

	export, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	zones := 0
	privs := 0
	for _, n := range export.Nodes {
		switch n.Kind {
		case domain.NodeZone:
			zones++
		case domain.NodePrivilege:
			privs++
		}
	}
	assert.Equal(t, 5, zones)
	assert.Equal(t, 5, privs)
	assert.Len(t, export.Edges, 9) // 5 CONNECTS_TO + 4 ESCALATES_TO
}
