package domain

import "time"

// MatchType identifies which matching tier produced a result.
type MatchType string

const (
	MatchExactCPE           MatchType = "exact_cpe"
	MatchCPENoVersion       MatchType = "cpe_no_version"
	MatchVendorProductExact MatchType = "vendor_product_exact"
	MatchFuzzy              MatchType = "fuzzy"
)

// matchTypeRank orders tiers by precedence, highest first. A tier earlier in
// the hierarchy always wins over a later one regardless of confidence.
var matchTypeRank = map[MatchType]int{
	MatchExactCPE:           4,
	MatchCPENoVersion:       3,
	MatchVendorProductExact: 2,
	MatchFuzzy:              1,
}

// Precedence returns the tier rank of the match type; higher wins.
func (t MatchType) Precedence() int { return matchTypeRank[t] }

// MatchStatus is the remediation lifecycle of a persisted match.
type MatchStatus string

const (
	StatusOpen      MatchStatus = "open"
	StatusPatched   MatchStatus = "patched"
	StatusMitigated MatchStatus = "mitigated"
	StatusAccepted  MatchStatus = "accepted"
)

// MatchResult links a software item on an asset to a vulnerability record.
// The matcher emits results per run; deduplication of repeated (asset, cve)
// pairs across runs is the persistence layer's job.
type MatchResult struct {
	AssetID         uint      `json:"asset_id,omitempty"`
	CVEID           string    `json:"cve_id"`
	Confidence      float64   `json:"confidence"` // 0.0-1.0
	MatchType       MatchType `json:"match_type"`
	CVSSScore       float64   `json:"cvss_score"`
	SoftwareName    string    `json:"software_name,omitempty"`
	SoftwareVersion string    `json:"software_version,omitempty"`

	Status    MatchStatus `json:"status,omitempty"`
	MatchedAt time.Time   `json:"matched_at,omitempty"`
}
