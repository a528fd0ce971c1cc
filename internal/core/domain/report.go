package domain

import "time"

// RiskReport aggregates all data needed for the executive risk report.
type RiskReport struct {
	GeneratedAt time.Time
	Title       string
	Stats       ReportStats
	TopRisks    []PropagationEntry
	TopMatches  []MatchResult
}

// ReportStats holds summary statistics for the report header.
type ReportStats struct {
	TotalAssets    int
	TotalVulns     int
	TotalMatches   int
	OpenMatches    int
	KEVMatches     int
	AverageRisk    float64
	LevelBreakdown map[RiskLevel]int
	MatchesByType  map[MatchType]int
	AssetsByZone   map[NetworkZone]int
}
