package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

func fixtureAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(rebuilt(t, fixtureInput()), testLogger())
}

func TestShortestPathAcrossZones(t *testing.T) {
	a := fixtureAnalyzer(t)

	// web-01 sits in external, db-01 in restricted. The zone chain
	// external > dmz > internal > restricted makes them five hops apart.
	path, err := a.ShortestPath(context.Background(), 1, 4)
	require.NoError(t, err)

	assert.Equal(t, 5, path.Length)
	require.Len(t, path.Path, 6)
	assert.Equal(t, domain.NodeAsset, path.Path[0].Type)
	assert.Equal(t, "1", path.Path[0].ID)
	assert.Equal(t, "web-01", path.Path[0].Hostname)
	assert.Equal(t, domain.NodeAsset, path.Path[5].Type)
	assert.Equal(t, "4", path.Path[5].ID)
	assert.Equal(t, "db-01", path.Path[5].Hostname)
	assert.Greater(t, path.RiskScore, 0.0)
	assert.LessOrEqual(t, path.RiskScore, 10.0)
}

func TestShortestPathToSelf(t *testing.T) {
	a := fixtureAnalyzer(t)

	path, err := a.ShortestPath(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, path.Length)
	require.Len(t, path.Path, 1)
}

func TestShortestPathMissingTarget(t *testing.T) {
	a := fixtureAnalyzer(t)

	path, err := a.ShortestPath(context.Background(), 1, 999)
	require.NoError(t, err)
	assert.Equal(t, -1, path.Length)
	assert.Empty(t, path.Path)
	assert.Zero(t, path.RiskScore)
}

func TestLateralMovementOrdering(t *testing.T) {
	a := fixtureAnalyzer(t)

	// From relay-01 in dmz, one directed hop reaches internal. Candidates:
	// app-01 (high) and wiki-01 (low), highest criticality first.
	targets, err := a.LateralMovement(context.Background(), 2, 0)
	require.NoError(t, err)

	require.Len(t, targets, 2)
	assert.Equal(t, uint(3), targets[0].AssetID)
	assert.Equal(t, domain.CriticalityHigh, targets[0].Criticality)
	assert.Equal(t, uint(5), targets[1].AssetID)
}

func TestLateralMovementLimit(t *testing.T) {
	a := fixtureAnalyzer(t)

	targets, err := a.LateralMovement(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, uint(3), targets[0].AssetID)
}

func TestLateralMovementExcludesSameZone(t *testing.T) {
	a := fixtureAnalyzer(t)

	// app-01 and wiki-01 share internal; only restricted is one hop out,
	// so db-01 is the sole target and the zone-mate never appears.
	targets, err := a.LateralMovement(context.Background(), 3, 0)
	require.NoError(t, err)

	require.Len(t, targets, 1)
	assert.Equal(t, uint(4), targets[0].AssetID)
}

func TestLateralMovementDeadEndZone(t *testing.T) {
	in := fixtureInput()
	in.Assets = append(in.Assets, domain.Asset{
		ID: 6, Hostname: "vault-02", Criticality: domain.CriticalityHigh, NetworkZone: domain.ZoneRestricted,
	})
	a := NewAnalyzer(rebuilt(t, in), testLogger())

	// restricted has no outgoing zone connections, and db-01's zone-mate
	// vault-02 must not count as a lateral target.
	targets, err := a.LateralMovement(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestLateralMovementUnknownAsset(t *testing.T) {
	a := fixtureAnalyzer(t)

	targets, err := a.LateralMovement(context.Background(), 999, 0)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestBlastRadius(t *testing.T) {
	a := fixtureAnalyzer(t)

	// CVE-2024-1111 hits web-01 (external) and app-01 (internal). Three
	// directed hops from those zones cover external, dmz, internal and
	// restricted, so relay-01, db-01 and wiki-01 are indirectly exposed.
	br, err := a.BlastRadius(context.Background(), "CVE-2024-1111")
	require.NoError(t, err)

	assert.Equal(t, 2, br.DirectlyAffected)
	assert.Equal(t, 3, br.IndirectlyReachable)
	assert.Equal(t, 5, br.Total)
	assert.Equal(t, domain.BlastMedium, br.Severity)
}

func TestBlastRadiusUnknownCVE(t *testing.T) {
	a := fixtureAnalyzer(t)

	br, err := a.BlastRadius(context.Background(), "CVE-0000-0000")
	require.NoError(t, err)
	assert.Zero(t, br.Total)
	assert.Equal(t, domain.BlastNone, br.Severity)
}

func TestRiskPropagation(t *testing.T) {
	a := fixtureAnalyzer(t)

	entries, err := a.RiskPropagation(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// app-01: 2 vulns, avg CVSS 7.4, max exploit 0.9, 2 assets within
	// two zone hops: 2 * 7.4 * 0.9 * 1.2 = 15.98.
	assert.Equal(t, uint(3), entries[0].AssetID)
	assert.Equal(t, 2, entries[0].VulnCount)
	assert.Equal(t, 7.4, entries[0].AvgCVSS)
	assert.Equal(t, 0.9, entries[0].MaxExploitProb)
	assert.Equal(t, 2, entries[0].ReachableCount)
	assert.Equal(t, 15.98, entries[0].PropagationScore)

	// web-01: 1 vuln, avg 9.8, 3 reachable: 9.8 * 0.9 * 1.3 = 11.47.
	assert.Equal(t, uint(1), entries[1].AssetID)
	assert.Equal(t, 3, entries[1].ReachableCount)
	assert.Equal(t, 11.47, entries[1].PropagationScore)
}

func TestExportFullGraph(t *testing.T) {
	a := fixtureAnalyzer(t)

	export, err := a.ExportFullGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, export.Nodes, 17)
	assert.Len(t, export.Edges, 17)
}

type failingStore struct{}

func (failingStore) BeginRebuild(context.Context) (ports.GraphBuild, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Snapshot(context.Context) (*domain.GraphExport, error) {
	return nil, errors.New("connection refused")
}

func TestAnalyzerDegradesWhenStoreUnavailable(t *testing.T) {
	a := NewAnalyzer(failingStore{}, testLogger())
	ctx := context.Background()

	path, err := a.ShortestPath(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)
	assert.Equal(t, -1, path.Length)
	assert.Empty(t, path.Path)

	targets, err := a.LateralMovement(ctx, 1, 0)
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)
	assert.Empty(t, targets)

	br, err := a.BlastRadius(ctx, "CVE-2024-1111")
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)
	assert.Zero(t, br.Total)

	entries, err := a.RiskPropagation(ctx)
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)
	assert.Empty(t, entries)

	export, err := a.ExportFullGraph(ctx)
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)
	assert.Empty(t, export.Nodes)
}

func TestBuilderFailsWhenStoreUnavailable(t *testing.T) {
	b := NewBuilder(failingStore{}, testLogger())
	err := b.Rebuild(context.Background(), fixtureInput())
	assert.Error(t, err)
}
