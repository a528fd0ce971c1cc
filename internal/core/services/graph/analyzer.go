package graph

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
	"github.com/vulnguard/vulnguard/internal/telemetry"
)

const (
	maxPathDepth        = 10
	blastRadiusHops     = 3
	propagationHops     = 2
	propagationTopN     = 50
	defaultLateralLimit = 20
)

var pathCriticalityWeights = map[domain.Criticality]float64{
	domain.CriticalityCritical: 1.0,
	domain.CriticalityHigh:     0.75,
	domain.CriticalityMedium:   0.5,
	domain.CriticalityLow:      0.25,
}

// Analyzer runs read-only reachability queries against the attack graph.
// When the store is unreachable every query returns its empty result along
// with domain.ErrGraphUnavailable, so callers can degrade gracefully while
// still telling "no data" apart from "no store".
type Analyzer struct {
	store ports.GraphStore
	log   *slog.Logger
}

// NewAnalyzer creates an analyzer on top of a graph store.
func NewAnalyzer(store ports.GraphStore, log *slog.Logger) *Analyzer {
	return &Analyzer{store: store, log: log}
}

// graphView is an indexed snapshot of the graph, built once per query.
type graphView struct {
	nodes map[string]domain.GraphNode
	out   map[string][]domain.GraphEdge
	in    map[string][]domain.GraphEdge
}

func (a *Analyzer) snapshot(ctx context.Context, op string) (*graphView, error) {
	export, err := a.store.Snapshot(ctx)
	if err != nil {
		telemetry.AnalyzerQueries.WithLabelValues(op, "error").Inc()
		a.log.Warn("graph store unavailable", "operation", op, "error", err)
		return nil, domain.ErrGraphUnavailable
	}

	v := &graphView{
		nodes: make(map[string]domain.GraphNode, len(export.Nodes)),
		out:   make(map[string][]domain.GraphEdge),
		in:    make(map[string][]domain.GraphEdge),
	}
	for _, n := range export.Nodes {
		v.nodes[n.Key] = n
	}
	for _, e := range export.Edges {
		v.out[e.From] = append(v.out[e.From], e)
		v.in[e.To] = append(v.in[e.To], e)
	}
	return v, nil
}

// ShortestPath finds the shortest route between two assets, walking every
// edge kind in either direction up to ten hops. A vulnerability node on the
// path represents compromising that software; a zone node represents
// traversing that segment. No route yields Length -1 and an empty path.
func (a *Analyzer) ShortestPath(ctx context.Context, sourceAssetID, targetAssetID uint) (domain.AttackPath, error) {
	const op = "shortest_path"
	empty := domain.AttackPath{Path: []domain.PathNode{}, Length: -1}

	v, err := a.snapshot(ctx, op)
	if err != nil {
		return empty, err
	}

	source := domain.AssetNodeKey(sourceAssetID)
	target := domain.AssetNodeKey(targetAssetID)
	if _, ok := v.nodes[source]; !ok {
		telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
		return empty, nil
	}
	if _, ok := v.nodes[target]; !ok {
		telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
		return empty, nil
	}

	keys := v.bfsPath(source, target, maxPathDepth)
	if keys == nil {
		telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
		return empty, nil
	}

	path := make([]domain.PathNode, 0, len(keys))
	for _, k := range keys {
		path = append(path, describeNode(v.nodes[k]))
	}

	telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
	return domain.AttackPath{
		Path:      path,
		Length:    len(keys) - 1,
		RiskScore: pathRisk(v, keys),
	}, nil
}

// bfsPath returns the node keys of the shortest undirected path from source
// to target, or nil when none exists within maxDepth hops.
func (v *graphView) bfsPath(source, target string, maxDepth int) []string {
	if source == target {
		return []string{source}
	}

	parent := map[string]string{source: ""}
	frontier := []string{source}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, key := range frontier {
			for _, nb := range v.neighbors(key) {
				if _, seen := parent[nb]; seen {
					continue
				}
				parent[nb] = key
				if nb == target {
					return unwind(parent, source, target)
				}
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return nil
}

func (v *graphView) neighbors(key string) []string {
	var out []string
	for _, e := range v.out[key] {
		out = append(out, e.To)
	}
	for _, e := range v.in[key] {
		out = append(out, e.From)
	}
	return out
}

func unwind(parent map[string]string, source, target string) []string {
	var rev []string
	for k := target; k != ""; k = parent[k] {
		rev = append(rev, k)
		if k == source {
			break
		}
	}
	keys := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		keys = append(keys, rev[i])
	}
	return keys
}

// pathRisk averages the danger of the nodes on a path: each vulnerability
// contributes CVSS/10, each asset its criticality weight. Capped at 10.
func pathRisk(v *graphView, keys []string) float64 {
	var sum float64
	for _, k := range keys {
		node := v.nodes[k]
		switch node.Kind {
		case domain.NodeVulnerability:
			if node.Vulnerability != nil {
				sum += node.Vulnerability.CVSSScore / 10
			}
		case domain.NodeAsset:
			w := 0.25
			if node.Asset != nil {
				if cw, ok := pathCriticalityWeights[node.Asset.Criticality]; ok {
					w = cw
				}
			}
			sum += w
		}
	}
	n := len(keys)
	if n < 1 {
		n = 1
	}
	return round2(math.Min(sum/float64(n), 10))
}

func describeNode(node domain.GraphNode) domain.PathNode {
	pn := domain.PathNode{Type: node.Kind, ID: node.Key}
	switch node.Kind {
	case domain.NodeAsset:
		if node.Asset != nil {
			pn.ID = strconv.FormatUint(uint64(node.Asset.AssetID), 10)
			pn.Hostname = node.Asset.Hostname
			pn.Criticality = node.Asset.Criticality
		}
	case domain.NodeVulnerability:
		if node.Vulnerability != nil {
			pn.ID = node.Vulnerability.CVEID
			pn.CVSS = node.Vulnerability.CVSSScore
		}
	case domain.NodeZone:
		pn.Zone = node.Zone
	case domain.NodePrivilege:
		pn.Privilege = node.Privilege
	}
	return pn
}

// LateralMovement lists the assets an attacker on the given asset could
// pivot to: everything exactly one directed zone hop away, ordered most
// attractive first. Assets sharing the source's zone are not targets.
func (a *Analyzer) LateralMovement(ctx context.Context, assetID uint, limit int) ([]domain.LateralTarget, error) {
	const op = "lateral_movement"

	v, err := a.snapshot(ctx, op)
	if err != nil {
		return []domain.LateralTarget{}, err
	}
	if limit <= 0 {
		limit = defaultLateralLimit
	}

	sourceKey := domain.AssetNodeKey(assetID)
	sourceZone, ok := v.assetZone(sourceKey)
	if !ok {
		telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
		return []domain.LateralTarget{}, nil
	}

	adjacent := make(map[domain.NetworkZone]struct{})
	for _, e := range v.out[domain.ZoneNodeKey(sourceZone)] {
		if e.Kind != domain.EdgeConnectsTo {
			continue
		}
		if zn, ok := v.nodes[e.To]; ok && zn.Kind == domain.NodeZone && zn.Zone != sourceZone {
			adjacent[zn.Zone] = struct{}{}
		}
	}

	var targets []domain.LateralTarget
	for key, node := range v.nodes {
		if node.Kind != domain.NodeAsset || key == sourceKey || node.Asset == nil {
			continue
		}
		zone, ok := v.assetZone(key)
		if !ok {
			continue
		}
		if _, ok := adjacent[zone]; !ok {
			continue
		}
		targets = append(targets, domain.LateralTarget{
			AssetID:     node.Asset.AssetID,
			Hostname:    node.Asset.Hostname,
			Criticality: node.Asset.Criticality,
			RiskScore:   node.Asset.RiskScore,
			Zone:        zone,
		})
	}

	sort.SliceStable(targets, func(i, j int) bool {
		ci := pathCriticalityWeights[targets[i].Criticality]
		cj := pathCriticalityWeights[targets[j].Criticality]
		if ci != cj {
			return ci > cj
		}
		return targets[i].RiskScore > targets[j].RiskScore
	})
	if len(targets) > limit {
		targets = targets[:limit]
	}
	if targets == nil {
		targets = []domain.LateralTarget{}
	}

	telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
	return targets, nil
}

// BlastRadius estimates how far one vulnerability reaches: the assets it
// directly affects, plus every asset within three directed zone hops of
// those, bucketed into a severity band by total count.
func (a *Analyzer) BlastRadius(ctx context.Context, cveID string) (domain.BlastRadius, error) {
	const op = "blast_radius"
	result := domain.BlastRadius{CVEID: cveID, Severity: domain.BlastNone}

	v, err := a.snapshot(ctx, op)
	if err != nil {
		return result, err
	}

	vulnKey := domain.VulnNodeKey(cveID)
	direct := make(map[string]struct{})
	for _, e := range v.in[vulnKey] {
		if e.Kind == domain.EdgeAffectedBy {
			direct[e.From] = struct{}{}
		}
	}

	seedZones := make(map[domain.NetworkZone]struct{})
	for key := range direct {
		if zone, ok := v.assetZone(key); ok {
			seedZones[zone] = struct{}{}
		}
	}
	reachable := v.zonesWithin(seedZones, blastRadiusHops)

	indirect := 0
	for key, node := range v.nodes {
		if node.Kind != domain.NodeAsset {
			continue
		}
		if _, hit := direct[key]; hit {
			continue
		}
		zone, ok := v.assetZone(key)
		if !ok {
			continue
		}
		if _, ok := reachable[zone]; ok {
			indirect++
		}
	}

	result.DirectlyAffected = len(direct)
	result.IndirectlyReachable = indirect
	result.Total = result.DirectlyAffected + result.IndirectlyReachable
	result.Severity = blastSeverity(result.Total)

	telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
	return result, nil
}

func blastSeverity(total int) domain.BlastSeverity {
	switch {
	case total >= 50:
		return domain.BlastCatastrophic
	case total >= 20:
		return domain.BlastCritical
	case total >= 10:
		return domain.BlastHigh
	case total >= 5:
		return domain.BlastMedium
	case total >= 1:
		return domain.BlastLow
	default:
		return domain.BlastNone
	}
}

// RiskPropagation scores how strongly each vulnerable asset could spread
// compromise: vulnerability load times exploitability, amplified by how
// many assets sit within two zone hops. Returns the top fifty, highest
// propagation first.
func (a *Analyzer) RiskPropagation(ctx context.Context) ([]domain.PropagationEntry, error) {
	const op = "risk_propagation"

	v, err := a.snapshot(ctx, op)
	if err != nil {
		return []domain.PropagationEntry{}, err
	}

	var entries []domain.PropagationEntry
	for key, node := range v.nodes {
		if node.Kind != domain.NodeAsset || node.Asset == nil {
			continue
		}

		var (
			vulnCount  int
			cvssSum    float64
			maxExploit float64
		)
		for _, e := range v.out[key] {
			if e.Kind != domain.EdgeAffectedBy {
				continue
			}
			vn, ok := v.nodes[e.To]
			if !ok || vn.Vulnerability == nil {
				continue
			}
			vulnCount++
			cvssSum += vn.Vulnerability.CVSSScore
			if vn.Vulnerability.ExploitProbability > maxExploit {
				maxExploit = vn.Vulnerability.ExploitProbability
			}
		}
		if vulnCount == 0 {
			continue
		}
		avgCVSS := cvssSum / float64(vulnCount)

		reachableCount := 0
		if zone, ok := v.assetZone(key); ok {
			zones := v.zonesWithin(map[domain.NetworkZone]struct{}{zone: {}}, propagationHops)
			for nkey, nnode := range v.nodes {
				if nnode.Kind != domain.NodeAsset || nkey == key {
					continue
				}
				nzone, ok := v.assetZone(nkey)
				if !ok {
					continue
				}
				if _, ok := zones[nzone]; ok {
					reachableCount++
				}
			}
		}

		entries = append(entries, domain.PropagationEntry{
			AssetID:        node.Asset.AssetID,
			Hostname:       node.Asset.Hostname,
			Criticality:    node.Asset.Criticality,
			VulnCount:      vulnCount,
			AvgCVSS:        round2(avgCVSS),
			MaxExploitProb: maxExploit,
			ReachableCount: reachableCount,
			PropagationScore: round2(float64(vulnCount) * avgCVSS * maxExploit *
				(1 + float64(reachableCount)*0.1)),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PropagationScore > entries[j].PropagationScore
	})
	if len(entries) > propagationTopN {
		entries = entries[:propagationTopN]
	}
	if entries == nil {
		entries = []domain.PropagationEntry{}
	}

	telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
	return entries, nil
}

// ExportFullGraph dumps every node and edge for visualization.
func (a *Analyzer) ExportFullGraph(ctx context.Context) (domain.GraphExport, error) {
	const op = "export"

	export, err := a.store.Snapshot(ctx)
	if err != nil {
		telemetry.AnalyzerQueries.WithLabelValues(op, "error").Inc()
		a.log.Warn("graph store unavailable", "operation", op, "error", err)
		return domain.GraphExport{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}, domain.ErrGraphUnavailable
	}

	telemetry.AnalyzerQueries.WithLabelValues(op, "success").Inc()
	return *export, nil
}

// assetZone resolves the zone an asset sits in via its IN_ZONE edge,
// falling back to the projected node properties.
func (v *graphView) assetZone(assetKey string) (domain.NetworkZone, bool) {
	for _, e := range v.out[assetKey] {
		if e.Kind == domain.EdgeInZone {
			if zn, ok := v.nodes[e.To]; ok && zn.Kind == domain.NodeZone {
				return zn.Zone, true
			}
		}
	}
	if n, ok := v.nodes[assetKey]; ok && n.Asset != nil && n.Asset.NetworkZone != "" {
		return n.Asset.NetworkZone, true
	}
	return "", false
}

// zonesWithin expands a zone set along directed CONNECTS_TO edges up to
// the given number of hops. The seed zones themselves are included.
func (v *graphView) zonesWithin(seeds map[domain.NetworkZone]struct{}, hops int) map[domain.NetworkZone]struct{} {
	reachable := make(map[domain.NetworkZone]struct{}, len(seeds))
	frontier := make([]domain.NetworkZone, 0, len(seeds))
	for z := range seeds {
		reachable[z] = struct{}{}
		frontier = append(frontier, z)
	}
	for i := 0; i < hops && len(frontier) > 0; i++ {
		var next []domain.NetworkZone
		for _, z := range frontier {
			for _, e := range v.out[domain.ZoneNodeKey(z)] {
				if e.Kind != domain.EdgeConnectsTo {
					continue
				}
				zn, ok := v.nodes[e.To]
				if !ok || zn.Kind != domain.NodeZone {
					continue
				}
				if _, seen := reachable[zn.Zone]; seen {
					continue
				}
				reachable[zn.Zone] = struct{}{}
				next = append(next, zn.Zone)
			}
		}
		frontier = next
	}
	return reachable
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
