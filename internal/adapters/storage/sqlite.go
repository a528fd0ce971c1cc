// Package storage persists assets, software inventories and match results
// using GORM and SQLite.
package storage

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

// SQLiteAdapter implements ports.AssetRepository and ports.MatchRepository
// using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// AssetModel is the GORM model for assets. Hostname is the natural key
// used for upserts.
type AssetModel struct {
	ID               uint   `gorm:"primaryKey"`
	Hostname         string `gorm:"uniqueIndex"`
	IPAddress        string
	Platform         string
	Criticality      string
	NetworkZone      string
	BusinessUnit     string
	IsInternetFacing bool
	Owner            string
	RiskScore        float64
	FirstSeen        time.Time
	LastSeen         time.Time

	Software []SoftwareModel `gorm:"foreignKey:AssetID"`
}

// SoftwareModel stores one installed software item of an asset.
type SoftwareModel struct {
	ID      uint `gorm:"primaryKey"`
	AssetID uint `gorm:"index"`
	Name    string
	Vendor  string
	Version string
	CPE     string
}

// MatchModel stores one vulnerability match. The unique index on
// (asset_id, cve_id) makes repeated matching runs upsert instead of
// stacking duplicate rows.
type MatchModel struct {
	ID              uint   `gorm:"primaryKey"`
	AssetID         uint   `gorm:"uniqueIndex:idx_matches_asset_cve"`
	CVEID           string `gorm:"uniqueIndex:idx_matches_asset_cve"`
	Confidence      float64
	MatchType       string
	CVSSScore       float64
	SoftwareName    string
	SoftwareVersion string
	Status          string
	MatchedAt       time.Time
}

// NewSQLiteAdapter initializes the database and migrates the schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&AssetModel{}, &SoftwareModel{}, &MatchModel{}); err != nil {
		return nil, err
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_assets_zone ON asset_models(network_zone)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_matches_cve ON match_models(cve_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_matches_status ON match_models(status)")

	return &SQLiteAdapter{db: db}, nil
}

// SaveAsset inserts or updates an asset keyed by hostname and replaces its
// software inventory with the given one.
func (a *SQLiteAdapter) SaveAsset(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	model := toAssetModel(asset)
	now := time.Now().UTC()

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing AssetModel
		err := tx.Where("hostname = ?", asset.Hostname).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if model.FirstSeen.IsZero() {
				model.FirstSeen = now
			}
			model.LastSeen = now
			return tx.Create(&model).Error
		case err != nil:
			return err
		}

		model.ID = existing.ID
		model.FirstSeen = existing.FirstSeen
		model.LastSeen = now
		if err := tx.Where("asset_id = ?", existing.ID).Delete(&SoftwareModel{}).Error; err != nil {
			return err
		}
		software := model.Software
		model.Software = nil
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		if len(software) == 0 {
			return nil
		}
		for i := range software {
			software[i].ID = 0
			software[i].AssetID = existing.ID
		}
		return tx.Create(&software).Error
	})
	if err != nil {
		return domain.Asset{}, err
	}

	saved, err := a.GetAsset(ctx, model.ID)
	if err != nil {
		return domain.Asset{}, err
	}
	return *saved, nil
}

// GetAsset retrieves an asset with its software inventory.
func (a *SQLiteAdapter) GetAsset(ctx context.Context, id uint) (*domain.Asset, error) {
	var model AssetModel
	if err := a.db.WithContext(ctx).Preload("Software").First(&model, id).Error; err != nil {
		return nil, err
	}
	return toAsset(model), nil
}

// GetAllAssets retrieves every asset including its software inventory.
func (a *SQLiteAdapter) GetAllAssets(ctx context.Context) ([]domain.Asset, error) {
	var models []AssetModel
	if err := a.db.WithContext(ctx).Preload("Software").Find(&models).Error; err != nil {
		return nil, err
	}

	assets := make([]domain.Asset, len(models))
	for i, m := range models {
		assets[i] = *toAsset(m)
	}
	return assets, nil
}

// ReplaceSoftware swaps the full inventory of one asset.
func (a *SQLiteAdapter) ReplaceSoftware(ctx context.Context, assetID uint, items []domain.SoftwareItem) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&AssetModel{}).Where("id = ?", assetID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("asset_id = ?", assetID).Delete(&SoftwareModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		models := make([]SoftwareModel, len(items))
		for i, item := range items {
			models[i] = toSoftwareModel(assetID, item)
		}
		return tx.Create(&models).Error
	})
}

// UpdateRiskScore stores the latest composite score of an asset.
func (a *SQLiteAdapter) UpdateRiskScore(ctx context.Context, assetID uint, score float64) error {
	res := a.db.WithContext(ctx).Model(&AssetModel{}).Where("id = ?", assetID).Update("risk_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveMatches upserts matches on (asset_id, cve_id). Repeated runs refresh
// confidence and metadata but never touch the remediation status.
func (a *SQLiteAdapter) SaveMatches(ctx context.Context, matches []domain.MatchResult) error {
	if len(matches) == 0 {
		return nil
	}

	models := make([]MatchModel, len(matches))
	for i, m := range matches {
		models[i] = toMatchModel(m)
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "asset_id"}, {Name: "cve_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"confidence", "match_type", "cvss_score",
				"software_name", "software_version", "matched_at",
			}),
		}).CreateInBatches(models, 100).Error
	})
}

// GetMatchesForAsset lists matches of one asset, highest confidence first.
func (a *SQLiteAdapter) GetMatchesForAsset(ctx context.Context, assetID uint) ([]domain.MatchResult, error) {
	var models []MatchModel
	err := a.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("confidence DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toMatches(models), nil
}

// GetMatchesForCVE lists every asset matched against one CVE.
func (a *SQLiteAdapter) GetMatchesForCVE(ctx context.Context, cveID string) ([]domain.MatchResult, error) {
	var models []MatchModel
	err := a.db.WithContext(ctx).
		Where("cve_id = ?", cveID).
		Order("confidence DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toMatches(models), nil
}

// GetAllMatches lists every stored match.
func (a *SQLiteAdapter) GetAllMatches(ctx context.Context) ([]domain.MatchResult, error) {
	var models []MatchModel
	if err := a.db.WithContext(ctx).Order("confidence DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toMatches(models), nil
}

// UpdateStatus moves one match through the remediation lifecycle.
func (a *SQLiteAdapter) UpdateStatus(ctx context.Context, assetID uint, cveID string, status domain.MatchStatus) error {
	res := a.db.WithContext(ctx).Model(&MatchModel{}).
		Where("asset_id = ? AND cve_id = ?", assetID, cveID).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Close closes the underlying database connection.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure interface compliance
var (
	_ ports.AssetRepository = (*SQLiteAdapter)(nil)
	_ ports.MatchRepository = (*SQLiteAdapter)(nil)
)
