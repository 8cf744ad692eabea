package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/brandlens/sitescan/internal/model"
)

// maxSnapshotsPerPage is the rolling window kept per (brand, URL).
// Three generations are enough to compute change trends; older
// snapshots only grow the file.
const maxSnapshotsPerPage = 3

// SnapshotDB provides SQLite-based storage for page snapshots and
// crawl reports. It manages connection pooling and provides methods
// for CRUD operations.
//
// Design decision: We use a single database file for all brands rather
// than one file per brand. This simplifies cross-brand queries and
// backup/restore operations.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SnapshotDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, "sitescan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SnapshotDB) createTables() error {
	schema := `
	-- Snapshots store rolling page content per brand and URL
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		brand_id TEXT NOT NULL,
		url TEXT NOT NULL,
		hash TEXT NOT NULL,
		content TEXT NOT NULL,
		content_length INTEGER NOT NULL,
		change_impact REAL DEFAULT 0,
		captured_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_page ON snapshots(brand_id, url);
	CREATE INDEX IF NOT EXISTS idx_snapshots_captured ON snapshots(captured_at);

	-- Crawl reports store complete run results as JSON
	CREATE TABLE IF NOT EXISTS crawl_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		brand_id TEXT NOT NULL,
		website_url TEXT NOT NULL,
		evaluation_id TEXT,
		method TEXT,
		pages_crawled INTEGER DEFAULT 0,
		report_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_brand ON crawl_reports(brand_id);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON crawl_reports(created_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Snapshot is one stored generation of a page's content.
type Snapshot struct {
	ID            int64
	BrandID       string
	URL           string
	Hash          string
	Content       string
	ContentLength int
	ChangeImpact  float64
	CapturedAt    time.Time
}

// SaveSnapshot stores a new snapshot generation for the page.
//
// The insert is hash-gated: when the newest stored snapshot has the
// same content hash, nothing is written and (false, nil) is returned.
// On change, the change-impact score is computed against the previous
// generation and snapshots beyond the rolling window are pruned.
func (sdb *SnapshotDB) SaveSnapshot(ctx context.Context, brandID, url, content, hash string) (bool, error) {
	if hash == "" {
		return false, fmt.Errorf("refusing to save snapshot without a content hash")
	}

	prev, err := sdb.LatestSnapshot(ctx, brandID, url)
	if err != nil {
		return false, err
	}
	if prev != nil && prev.Hash == hash {
		return false, nil
	}

	impact := 0.0
	if prev != nil {
		impact = changeImpact(prev.ContentLength, len(content))
	}

	query := `
	INSERT INTO snapshots (brand_id, url, hash, content, content_length, change_impact)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := sdb.db.ExecContext(ctx, query, brandID, url, hash, content, len(content), impact); err != nil {
		return false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := sdb.pruneSnapshots(ctx, brandID, url); err != nil {
		return false, err
	}
	return true, nil
}

// pruneSnapshots deletes generations beyond the rolling window for one
// page, oldest first.
func (sdb *SnapshotDB) pruneSnapshots(ctx context.Context, brandID, url string) error {
	query := `
	DELETE FROM snapshots
	WHERE brand_id = ? AND url = ? AND id NOT IN (
		SELECT id FROM snapshots
		WHERE brand_id = ? AND url = ?
		ORDER BY id DESC
		LIMIT ?
	)
	`
	if _, err := sdb.db.ExecContext(ctx, query, brandID, url, brandID, url, maxSnapshotsPerPage); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// LatestSnapshot returns the newest snapshot for the page, or nil when
// none exists.
func (sdb *SnapshotDB) LatestSnapshot(ctx context.Context, brandID, url string) (*Snapshot, error) {
	query := `
	SELECT id, brand_id, url, hash, content, content_length, change_impact, captured_at
	FROM snapshots
	WHERE brand_id = ? AND url = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var snap Snapshot
	var capturedAt string
	err := sdb.db.QueryRowContext(ctx, query, brandID, url).Scan(
		&snap.ID,
		&snap.BrandID,
		&snap.URL,
		&snap.Hash,
		&snap.Content,
		&snap.ContentLength,
		&snap.ChangeImpact,
		&capturedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap.CapturedAt = parseTimestamp(capturedAt)
	return &snap, nil
}

// SnapshotHistory returns all stored generations for the page, newest
// first.
func (sdb *SnapshotDB) SnapshotHistory(ctx context.Context, brandID, url string) ([]Snapshot, error) {
	query := `
	SELECT id, brand_id, url, hash, content, content_length, change_impact, captured_at
	FROM snapshots
	WHERE brand_id = ? AND url = ?
	ORDER BY id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, brandID, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var capturedAt string
		if err := rows.Scan(
			&snap.ID,
			&snap.BrandID,
			&snap.URL,
			&snap.Hash,
			&snap.Content,
			&snap.ContentLength,
			&snap.ChangeImpact,
			&capturedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CapturedAt = parseTimestamp(capturedAt)
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

// SaveCrawlReport saves a complete crawl report as JSON.
func (sdb *SnapshotDB) SaveCrawlReport(ctx context.Context, report *model.CrawlReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO crawl_reports (brand_id, website_url, evaluation_id, method, pages_crawled, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = sdb.db.ExecContext(ctx, query,
		report.BrandID,
		report.WebsiteURL,
		report.EvaluationID,
		string(report.Method),
		report.PagesCrawled,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save crawl report: %w", err)
	}
	return nil
}

// GetLatestCrawlReport retrieves the most recent report for a brand,
// or nil when the brand has never been crawled.
func (sdb *SnapshotDB) GetLatestCrawlReport(ctx context.Context, brandID string) (*model.CrawlReport, error) {
	query := `
	SELECT report_json FROM crawl_reports
	WHERE brand_id = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, brandID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl report: %w", err)
	}

	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ReportMetadata contains summary information about a stored report.
// Used for displaying history without loading full reports.
type ReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// BrandID identifies the brand.
	BrandID string

	// WebsiteURL is the crawled site.
	WebsiteURL string

	// Method records how the evidence was obtained.
	Method string

	// PagesCrawled is the number of pages fetched in the run.
	PagesCrawled int

	// CreatedAt is when the report was stored.
	CreatedAt time.Time
}

// GetReportHistory retrieves report metadata for a brand, newest first.
func (sdb *SnapshotDB) GetReportHistory(ctx context.Context, brandID string) ([]ReportMetadata, error) {
	query := `
	SELECT id, brand_id, website_url, method, pages_crawled, created_at
	FROM crawl_reports
	WHERE brand_id = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var createdAt string
		if err := rows.Scan(&meta.ID, &meta.BrandID, &meta.WebsiteURL, &meta.Method, &meta.PagesCrawled, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.CreatedAt = parseTimestamp(createdAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListBrands returns the distinct brand IDs with stored reports.
func (sdb *SnapshotDB) ListBrands(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT brand_id FROM crawl_reports
	ORDER BY brand_id
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var brand string
		if err := rows.Scan(&brand); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	return brands, rows.Err()
}

// changeImpact scores how much a page changed between generations as a
// percentage of the previous content length, clamped to 100.
func changeImpact(oldLen, newLen int) float64 {
	diff := newLen - oldLen
	if diff < 0 {
		diff = -diff
	}
	base := oldLen
	if base < 1 {
		base = 1
	}
	impact := float64(diff) / float64(base) * 100
	if impact > 100 {
		impact = 100
	}
	return impact
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. If parsing fails with all formats, returns zero
// time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
