package vulndb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	"github.com/vulnguard/vulnguard/internal/core/ports"
)

// SeedLoader loads vulnerability records from JSON files into the database.
type SeedLoader struct {
	repo ports.VulnerabilityRepository
	log  *slog.Logger
}

// NewSeedLoader creates a seed loader.
func NewSeedLoader(repo ports.VulnerabilityRepository, log *slog.Logger) *SeedLoader {
	return &SeedLoader{repo: repo, log: log}
}

// LoadFromFile loads records from a JSON file holding an array of
// vulnerability records. Individual bad records are skipped, not fatal.
func (s *SeedLoader) LoadFromFile(ctx context.Context, path string) error {
	s.log.Info("loading vulnerability seed", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []domain.VulnerabilityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	loaded := 0
	failed := 0
	for _, rec := range records {
		if rec.CVEID == "" {
			failed++
			continue
		}
		if err := s.repo.UpsertRecord(ctx, rec); err != nil {
			s.log.Warn("failed to load record", "cve_id", rec.CVEID, "error", err)
			failed++
			continue
		}
		loaded++
	}

	s.log.Info("vulnerability seed loaded", "path", path, "loaded", loaded, "failed", failed)

	count, err := s.repo.GetTotalCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	return s.repo.UpdateSyncStatus(ctx, time.Now().UTC(), count)
}

// LoadFromMultipleFiles loads every file in order, continuing past
// per-file failures.
func (s *SeedLoader) LoadFromMultipleFiles(ctx context.Context, paths []string) error {
	succeeded := 0
	for _, path := range paths {
		if err := s.LoadFromFile(ctx, path); err != nil {
			s.log.Warn("failed to load seed file", "path", path, "error", err)
			continue
		}
		succeeded++
	}
	s.log.Info("seed load complete", "files_loaded", succeeded, "files_total", len(paths))
	return nil
}
