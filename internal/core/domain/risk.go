package domain

import "time"

// RiskLevel buckets a composite risk score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL" // score >= 80
	RiskHigh     RiskLevel = "HIGH"     // score >= 60
	RiskMedium   RiskLevel = "MEDIUM"   // score >= 40
	RiskLow      RiskLevel = "LOW"      // score >= 20
	RiskMinimal  RiskLevel = "MINIMAL"
)

// LevelForScore buckets a 0-100 composite score into its risk level.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	case score >= 20:
		return RiskLow
	default:
		return RiskMinimal
	}
}

// AssetRiskContext carries the scalar inputs for one risk calculation.
// Every categorical lookup has a documented default, so arbitrary input
// never fails a scoring call.
type AssetRiskContext struct {
	AssetID uint   `json:"asset_id,omitempty"`
	CVEID   string `json:"cve_id,omitempty"`

	ExploitProbability float64     `json:"exploit_probability"`
	CVSSScore          float64     `json:"cvss_score"`
	AssetCriticality   Criticality `json:"asset_criticality"`
	NetworkZone        NetworkZone `json:"network_zone"`
	IsInternetFacing   bool        `json:"is_internet_facing"`
	BusinessUnit       string      `json:"business_unit"`
	VulnerabilityCount int         `json:"vulnerability_count"`
	HasExploit         bool        `json:"has_exploit"`
	IsKEV              bool        `json:"is_kev"`
}

// RiskFactor is one weighted component of the composite score.
//
// Contribution is value*weight*100 computed before the urgency boost is
// applied, so the five contributions generally sum to less than the final
// score whenever the boost exceeds 1. That asymmetry is the established
// explainability convention and is kept on purpose.
type RiskFactor struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Input        string  `json:"input,omitempty"`
	Contribution float64 `json:"contribution"`
}

// RiskScoreResult is the outcome of one composite risk calculation.
type RiskScoreResult struct {
	AssetID uint   `json:"asset_id,omitempty"`
	CVEID   string `json:"cve_id,omitempty"`

	Score        float64      `json:"risk_score"` // 0-100
	Level        RiskLevel    `json:"risk_level"`
	Breakdown    []RiskFactor `json:"breakdown"`
	UrgencyBoost float64      `json:"urgency_boost"`
	CalculatedAt time.Time    `json:"calculated_at"`
}
