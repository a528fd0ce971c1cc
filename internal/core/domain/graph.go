package domain

import (
	"errors"
	"fmt"
)

// ErrGraphUnavailable reports that the backing graph store could not be
// reached. Callers can distinguish it from an empty ("not found") result;
// the HTTP layer still degrades to an empty payload.
var ErrGraphUnavailable = errors.New("graph store unavailable")

// NodeKind is the closed set of attack graph node types.
type NodeKind string

const (
	NodeAsset         NodeKind = "asset"
	NodeVulnerability NodeKind = "vulnerability"
	NodeZone          NodeKind = "zone"
	NodePrivilege     NodeKind = "privilege"
	NodeUnknown       NodeKind = "unknown"
)

// EdgeKind is the closed set of attack graph relationship types.
type EdgeKind string

const (
	EdgeAffectedBy  EdgeKind = "AFFECTED_BY"
	EdgeInZone      EdgeKind = "IN_ZONE"
	EdgeConnectsTo  EdgeKind = "CONNECTS_TO"
	EdgeEscalatesTo EdgeKind = "ESCALATES_TO"
)

// Node keys are namespaced by kind so identity stays unique graph-wide.
func AssetNodeKey(assetID uint) string        { return fmt.Sprintf("asset:%d", assetID) }
func VulnNodeKey(cveID string) string         { return "vuln:" + cveID }
func ZoneNodeKey(zone NetworkZone) string     { return "zone:" + string(zone) }
func PrivNodeKey(level PrivilegeLevel) string { return "priv:" + string(level) }

// AssetNodeProps carries asset attributes projected into the graph.
type AssetNodeProps struct {
	AssetID          uint        `json:"asset_id"`
	Hostname         string      `json:"hostname"`
	IPAddress        string      `json:"ip_address,omitempty"`
	Platform         string      `json:"platform,omitempty"`
	Criticality      Criticality `json:"criticality"`
	NetworkZone      NetworkZone `json:"network_zone"`
	IsInternetFacing bool        `json:"is_internet_facing"`
	RiskScore        float64     `json:"risk_score"`
	BusinessUnit     string      `json:"business_unit,omitempty"`
}

// VulnNodeProps carries vulnerability attributes projected into the graph.
type VulnNodeProps struct {
	CVEID              string       `json:"cve_id"`
	CVSSScore          float64      `json:"cvss_score"`
	EPSSScore          float64      `json:"epss_score"`
	IsKEV              bool         `json:"is_kev"`
	ExploitProbability float64      `json:"exploit_probability"`
	AttackVector       AttackVector `json:"attack_vector,omitempty"`
	HasExploit         bool         `json:"has_exploit"`
	Severity           string       `json:"severity,omitempty"`
}

// GraphNode is one node in the attack graph. Exactly one of the typed
// property blocks is set, selected by Kind.
type GraphNode struct {
	Key  string   `json:"key"`
	Kind NodeKind `json:"kind"`

	Asset         *AssetNodeProps `json:"asset,omitempty"`
	Vulnerability *VulnNodeProps  `json:"vulnerability,omitempty"`
	Zone          NetworkZone     `json:"zone,omitempty"`
	Privilege     PrivilegeLevel  `json:"privilege,omitempty"`
}

// GraphEdge is one relationship in the attack graph. Identity for the
// purpose of idempotent rebuilds is the (From, Kind, To) triple.
type GraphEdge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`

	// AFFECTED_BY attributes.
	Confidence float64 `json:"confidence,omitempty"`
	Software   string  `json:"software,omitempty"`
}

// GraphExport is the full node/edge dump for visualization.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// ZoneAdjacency is the fixed zone-to-zone connectivity. It is hand-authored
// configuration shared by the graph builder and the export path, never
// derived from asset data.
func ZoneAdjacency() [][2]NetworkZone {
	return [][2]NetworkZone{
		{ZoneExternal, ZoneDMZ},
		{ZoneDMZ, ZoneInternal},
		{ZoneInternal, ZoneRestricted},
		{ZoneCloud, ZoneDMZ},
		{ZoneCloud, ZoneInternal},
	}
}

// PrivilegeLadder is the fixed escalation ladder, low rung to high rung.
func PrivilegeLadder() [][2]PrivilegeLevel {
	return [][2]PrivilegeLevel{
		{PrivilegeGuest, PrivilegeUser},
		{PrivilegeUser, PrivilegeAdmin},
		{PrivilegeAdmin, PrivilegeSystem},
		{PrivilegeService, PrivilegeAdmin},
	}
}

// PathNode is a tagged descriptor for one node on an attack path. Fields
// other than Type are populated according to the node kind.
type PathNode struct {
	Type NodeKind `json:"type"`

	ID          string         `json:"id,omitempty"`
	Hostname    string         `json:"hostname,omitempty"`
	Criticality Criticality    `json:"criticality,omitempty"`
	CVSS        float64        `json:"cvss,omitempty"`
	Zone        NetworkZone    `json:"name,omitempty"`
	Privilege   PrivilegeLevel `json:"level,omitempty"`
}

// AttackPath is the shortest-path query result. A missing path is reported
// as Length -1 with an empty node list.
type AttackPath struct {
	Path      []PathNode `json:"path"`
	Length    int        `json:"length"`
	RiskScore float64    `json:"risk_score"`
}

// LateralTarget is one asset reachable by a single zone hop.
type LateralTarget struct {
	AssetID     uint        `json:"target_id"`
	Hostname    string      `json:"target_hostname"`
	Criticality Criticality `json:"target_criticality"`
	RiskScore   float64     `json:"target_risk"`
	Zone        NetworkZone `json:"target_zone"`
}

// BlastSeverity buckets the total blast radius size.
type BlastSeverity string

const (
	BlastCatastrophic BlastSeverity = "catastrophic" // >= 50
	BlastCritical     BlastSeverity = "critical"     // >= 20
	BlastHigh         BlastSeverity = "high"         // >= 10
	BlastMedium       BlastSeverity = "medium"       // >= 5
	BlastLow          BlastSeverity = "low"          // >= 1
	BlastNone         BlastSeverity = "none"
)

// BlastRadius describes which assets fall if one vulnerability is exploited.
type BlastRadius struct {
	CVEID               string        `json:"cve_id"`
	DirectlyAffected    int           `json:"directly_affected_assets"`
	IndirectlyReachable int           `json:"indirectly_reachable_assets"`
	Total               int           `json:"total_blast_radius"`
	Severity            BlastSeverity `json:"severity"`
}

// PropagationEntry is one asset's network-wide risk propagation score.
type PropagationEntry struct {
	AssetID          uint        `json:"asset_id"`
	Hostname         string      `json:"hostname"`
	Criticality      Criticality `json:"criticality"`
	VulnCount        int         `json:"vuln_count"`
	AvgCVSS          float64     `json:"avg_cvss"`
	MaxExploitProb   float64     `json:"max_exploit_prob"`
	ReachableCount   int         `json:"reachable_count"`
	PropagationScore float64     `json:"propagation_score"`
}
