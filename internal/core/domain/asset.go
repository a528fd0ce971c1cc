package domain

import "time"

// Criticality classifies how important an asset is to the business.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
)

// NetworkZone is the segment an asset lives in. The set is fixed; the zone
// adjacency used by the attack graph is hand-authored, not derived from data.
type NetworkZone string

const (
	ZoneExternal   NetworkZone = "external"
	ZoneDMZ        NetworkZone = "dmz"
	ZoneCloud      NetworkZone = "cloud"
	ZoneInternal   NetworkZone = "internal"
	ZoneRestricted NetworkZone = "restricted"
)

// Zones lists every network zone.
func Zones() []NetworkZone {
	return []NetworkZone{ZoneExternal, ZoneDMZ, ZoneCloud, ZoneInternal, ZoneRestricted}
}

// PrivilegeLevel is a rung on the escalation ladder. The set is fixed.
type PrivilegeLevel string

const (
	PrivilegeSystem  PrivilegeLevel = "system"
	PrivilegeAdmin   PrivilegeLevel = "admin"
	PrivilegeUser    PrivilegeLevel = "user"
	PrivilegeService PrivilegeLevel = "service"
	PrivilegeGuest   PrivilegeLevel = "guest"
)

// PrivilegeLevels lists every privilege level.
func PrivilegeLevels() []PrivilegeLevel {
	return []PrivilegeLevel{PrivilegeSystem, PrivilegeAdmin, PrivilegeUser, PrivilegeService, PrivilegeGuest}
}

// Asset is a managed host known to the platform.
type Asset struct {
	ID        uint   `json:"id"`
	Hostname  string `json:"hostname"`
	IPAddress string `json:"ip_address,omitempty"`
	Platform  string `json:"platform,omitempty"` // windows, linux, macos

	Criticality      Criticality `json:"criticality"`
	NetworkZone      NetworkZone `json:"network_zone"`
	BusinessUnit     string      `json:"business_unit,omitempty"`
	IsInternetFacing bool        `json:"is_internet_facing"`
	Owner            string      `json:"owner,omitempty"`

	RiskScore float64   `json:"risk_score"`
	FirstSeen time.Time `json:"first_seen,omitempty"`
	LastSeen  time.Time `json:"last_seen,omitempty"`

	Software []SoftwareItem `json:"software,omitempty"`
}
