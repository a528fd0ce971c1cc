package storage

import (
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// toAsset converts a database model to a domain entity.
func toAsset(m AssetModel) *domain.Asset {
	software := make([]domain.SoftwareItem, len(m.Software))
	for i, s := range m.Software {
		software[i] = domain.SoftwareItem{
			Name:    s.Name,
			Vendor:  s.Vendor,
			Version: s.Version,
			CPE:     s.CPE,
		}
	}

	return &domain.Asset{
		ID:               m.ID,
		Hostname:         m.Hostname,
		IPAddress:        m.IPAddress,
		Platform:         m.Platform,
		Criticality:      domain.Criticality(m.Criticality),
		NetworkZone:      domain.NetworkZone(m.NetworkZone),
		BusinessUnit:     m.BusinessUnit,
		IsInternetFacing: m.IsInternetFacing,
		Owner:            m.Owner,
		RiskScore:        m.RiskScore,
		FirstSeen:        m.FirstSeen,
		LastSeen:         m.LastSeen,
		Software:         software,
	}
}

func toAssetModel(a domain.Asset) AssetModel {
	software := make([]SoftwareModel, len(a.Software))
	for i, s := range a.Software {
		software[i] = toSoftwareModel(a.ID, s)
	}

	return AssetModel{
		ID:               a.ID,
		Hostname:         a.Hostname,
		IPAddress:        a.IPAddress,
		Platform:         a.Platform,
		Criticality:      string(a.Criticality),
		NetworkZone:      string(a.NetworkZone),
		BusinessUnit:     a.BusinessUnit,
		IsInternetFacing: a.IsInternetFacing,
		Owner:            a.Owner,
		RiskScore:        a.RiskScore,
		FirstSeen:        a.FirstSeen,
		LastSeen:         a.LastSeen,
		Software:         software,
	}
}

func toSoftwareModel(assetID uint, s domain.SoftwareItem) SoftwareModel {
	return SoftwareModel{
		AssetID: assetID,
		Name:    s.Name,
		Vendor:  s.Vendor,
		Version: s.Version,
		CPE:     s.CPE,
	}
}

func toMatchModel(m domain.MatchResult) MatchModel {
	status := m.Status
	if status == "" {
		status = domain.StatusOpen
	}
	matchedAt := m.MatchedAt
	if matchedAt.IsZero() {
		matchedAt = time.Now().UTC()
	}
	return MatchModel{
		AssetID:         m.AssetID,
		CVEID:           m.CVEID,
		Confidence:      m.Confidence,
		MatchType:       string(m.MatchType),
		CVSSScore:       m.CVSSScore,
		SoftwareName:    m.SoftwareName,
		SoftwareVersion: m.SoftwareVersion,
		Status:          string(status),
		MatchedAt:       matchedAt,
	}
}

func toMatch(m MatchModel) domain.MatchResult {
	return domain.MatchResult{
		AssetID:         m.AssetID,
		CVEID:           m.CVEID,
		Confidence:      m.Confidence,
		MatchType:       domain.MatchType(m.MatchType),
		CVSSScore:       m.CVSSScore,
		SoftwareName:    m.SoftwareName,
		SoftwareVersion: m.SoftwareVersion,
		Status:          domain.MatchStatus(m.Status),
		MatchedAt:       m.MatchedAt,
	}
}

func toMatches(models []MatchModel) []domain.MatchResult {
	matches := make([]domain.MatchResult, len(models))
	for i, m := range models {
		matches[i] = toMatch(m)
	}
	return matches
}
