package ports

import (
	"context"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// AssetRepository persists assets and their software inventories.
type AssetRepository interface {
	// SaveAsset inserts or updates an asset keyed by hostname.
	SaveAsset(ctx context.Context, asset domain.Asset) (domain.Asset, error)
	GetAsset(ctx context.Context, id uint) (*domain.Asset, error)
	// GetAllAssets returns every asset including its software inventory.
	GetAllAssets(ctx context.Context) ([]domain.Asset, error)
	// ReplaceSoftware swaps the full inventory of one asset.
	ReplaceSoftware(ctx context.Context, assetID uint, items []domain.SoftwareItem) error
	UpdateRiskScore(ctx context.Context, assetID uint, score float64) error
	Close() error
}

// MatchRepository persists match results. SaveMatches must upsert on the
// (asset_id, cve_id) pair so repeated or concurrent matching runs never
// produce duplicate rows.
type MatchRepository interface {
	SaveMatches(ctx context.Context, matches []domain.MatchResult) error
	GetMatchesForAsset(ctx context.Context, assetID uint) ([]domain.MatchResult, error)
	GetMatchesForCVE(ctx context.Context, cveID string) ([]domain.MatchResult, error)
	GetAllMatches(ctx context.Context) ([]domain.MatchResult, error)
	UpdateStatus(ctx context.Context, assetID uint, cveID string, status domain.MatchStatus) error
}
