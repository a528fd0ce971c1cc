// Package vulndb persists vulnerability records in SQLite. The feed
// ingester and seed loader write; the matching core reads.
package vulndb

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vulnguard/vulnguard/internal/core/domain"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteRepository implements ports.VulnerabilityRepository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the vulnerability database.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

const recordColumns = `cve_id, vendor, product, affected_cpes, cvss_score, severity,
	epss_score, exploit_probability, is_kev, has_public_exploit,
	attack_vector, attack_complexity, privileges_required, user_interaction, scope,
	description, published_date, last_modified`

// GetAll returns every vulnerability record, highest CVSS first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]domain.VulnerabilityRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM vulnerability_records
		ORDER BY cvss_score DESC, cve_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []domain.VulnerabilityRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByCVE retrieves one record by CVE ID, or nil when unknown.
func (r *SQLiteRepository) GetByCVE(ctx context.Context, cveID string) (*domain.VulnerabilityRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM vulnerability_records
		WHERE cve_id = ?`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, cveID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &rec, nil
}

// UpsertRecord inserts or updates a record keyed by CVE ID.
func (r *SQLiteRepository) UpsertRecord(ctx context.Context, rec domain.VulnerabilityRecord) error {
	cpesJSON, err := json.Marshal(rec.AffectedCPEs)
	if err != nil {
		return fmt.Errorf("failed to marshal affected CPEs: %w", err)
	}

	query := `
		INSERT INTO vulnerability_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cve_id) DO UPDATE SET
			vendor = excluded.vendor,
			product = excluded.product,
			affected_cpes = excluded.affected_cpes,
			cvss_score = excluded.cvss_score,
			severity = excluded.severity,
			epss_score = excluded.epss_score,
			exploit_probability = excluded.exploit_probability,
			is_kev = excluded.is_kev,
			has_public_exploit = excluded.has_public_exploit,
			attack_vector = excluded.attack_vector,
			attack_complexity = excluded.attack_complexity,
			privileges_required = excluded.privileges_required,
			user_interaction = excluded.user_interaction,
			scope = excluded.scope,
			description = excluded.description,
			published_date = excluded.published_date,
			last_modified = excluded.last_modified,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err = r.db.ExecContext(ctx, query,
		rec.CVEID, rec.Vendor, rec.Product, string(cpesJSON), rec.CVSSScore, rec.Severity,
		rec.EPSSScore, rec.ExploitProbability, rec.IsKEV, rec.HasPublicExploit,
		string(rec.AttackVector), string(rec.AttackComplexity), string(rec.PrivilegesRequired),
		string(rec.UserInteraction), string(rec.Scope),
		rec.Description, formatTime(rec.PublishedDate), formatTime(rec.LastModified),
	)
	return err
}

// GetTotalCount returns the total number of records.
func (r *SQLiteRepository) GetTotalCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vulnerability_records").Scan(&count)
	return count, err
}

// GetLastSyncTime returns when the database was last synced. Before the
// first sync it returns the zero time with no error.
func (r *SQLiteRepository) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	var lastSync string
	err := r.db.QueryRowContext(ctx, "SELECT last_sync_time FROM vuln_sync_status WHERE id = 1").Scan(&lastSync)
	if err != nil {
		return time.Time{}, err
	}
	if lastSync == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, lastSync)
}

// UpdateSyncStatus records a completed sync.
func (r *SQLiteRepository) UpdateSyncStatus(ctx context.Context, syncedAt time.Time, count int) error {
	query := `
		UPDATE vuln_sync_status
		SET last_sync_time = ?,
		    record_count = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`
	_, err := r.db.ExecContext(ctx, query, syncedAt.Format(time.RFC3339), count)
	return err
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.VulnerabilityRecord, error) {
	var rec domain.VulnerabilityRecord
	var cpesJSON, publishedDate, lastModified string
	var severity, vector, complexity, privileges, interaction, scope, description sql.NullString

	err := s.Scan(
		&rec.CVEID, &rec.Vendor, &rec.Product, &cpesJSON, &rec.CVSSScore, &severity,
		&rec.EPSSScore, &rec.ExploitProbability, &rec.IsKEV, &rec.HasPublicExploit,
		&vector, &complexity, &privileges, &interaction, &scope,
		&description, &publishedDate, &lastModified,
	)
	if err != nil {
		return rec, err
	}

	rec.Severity = severity.String
	rec.AttackVector = domain.AttackVector(vector.String)
	rec.AttackComplexity = domain.AttackComplexity(complexity.String)
	rec.PrivilegesRequired = domain.PrivilegesRequired(privileges.String)
	rec.UserInteraction = domain.UserInteraction(interaction.String)
	rec.Scope = domain.Scope(scope.String)
	rec.Description = description.String

	if cpesJSON != "" {
		json.Unmarshal([]byte(cpesJSON), &rec.AffectedCPEs)
	}
	if publishedDate != "" {
		rec.PublishedDate, _ = time.Parse(time.RFC3339, publishedDate)
	}
	if lastModified != "" {
		rec.LastModified, _ = time.Parse(time.RFC3339, lastModified)
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
