package ports

import (
	"context"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// VulnerabilityRepository is the read/write surface of the vulnerability
// record store. Records are written by ingestion and the seed loader; the
// matching core only reads.
type VulnerabilityRepository interface {
	GetAll(ctx context.Context) ([]domain.VulnerabilityRecord, error)
	GetByCVE(ctx context.Context, cveID string) (*domain.VulnerabilityRecord, error)
	UpsertRecord(ctx context.Context, rec domain.VulnerabilityRecord) error
	GetTotalCount(ctx context.Context) (int, error)
	GetLastSyncTime(ctx context.Context) (time.Time, error)
	UpdateSyncStatus(ctx context.Context, syncedAt time.Time, count int) error
	Close() error
}
