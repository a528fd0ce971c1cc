package domain

import "time"

// AttackVector classifies how a vulnerability is reached (CVSS v3 AV).
type AttackVector string

const (
	VectorNetwork  AttackVector = "NETWORK"
	VectorAdjacent AttackVector = "ADJACENT"
	VectorLocal    AttackVector = "LOCAL"
	VectorPhysical AttackVector = "PHYSICAL"
)

// AttackComplexity is the CVSS v3 AC metric.
type AttackComplexity string

const (
	ComplexityLow  AttackComplexity = "LOW"
	ComplexityHigh AttackComplexity = "HIGH"
)

// PrivilegesRequired is the CVSS v3 PR metric.
type PrivilegesRequired string

const (
	PrivilegesNone PrivilegesRequired = "NONE"
	PrivilegesLow  PrivilegesRequired = "LOW"
	PrivilegesHigh PrivilegesRequired = "HIGH"
)

// UserInteraction is the CVSS v3 UI metric.
type UserInteraction string

const (
	InteractionNone     UserInteraction = "NONE"
	InteractionRequired UserInteraction = "REQUIRED"
)

// Scope is the CVSS v3 S metric.
type Scope string

const (
	ScopeUnchanged Scope = "UNCHANGED"
	ScopeChanged   Scope = "CHANGED"
)

// VulnerabilityRecord is one known vulnerability from the ingestion feeds.
// The CVE ID is the unique key and immutable once assigned. Records are
// created and updated by ingestion; the core only reads them.
type VulnerabilityRecord struct {
	CVEID   string `json:"cve_id"`
	Vendor  string `json:"vendor"`
	Product string `json:"product"`

	// AffectedCPEs lists the structured identifiers the feed associates
	// with this vulnerability.
	AffectedCPEs []string `json:"affected_cpes,omitempty"`

	CVSSScore float64 `json:"cvss_score"` // 0-10
	Severity  string  `json:"severity,omitempty"`
	EPSSScore float64 `json:"epss_score"` // 0-1

	// ExploitProbability is the predictor output consumed as an opaque
	// scalar; the model itself lives outside this repository.
	ExploitProbability float64 `json:"exploit_probability"`

	IsKEV            bool `json:"is_kev"`
	HasPublicExploit bool `json:"has_public_exploit"`

	AttackVector       AttackVector       `json:"attack_vector,omitempty"`
	AttackComplexity   AttackComplexity   `json:"attack_complexity,omitempty"`
	PrivilegesRequired PrivilegesRequired `json:"privileges_required,omitempty"`
	UserInteraction    UserInteraction    `json:"user_interaction,omitempty"`
	Scope              Scope              `json:"scope,omitempty"`

	Description   string    `json:"description,omitempty"`
	PublishedDate time.Time `json:"published_date,omitempty"`
	LastModified  time.Time `json:"last_modified,omitempty"`
}
