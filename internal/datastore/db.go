package datastore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"linkradar/internal/models"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// HistoryDB wraps the SQL database connection and persists finished scans.
// The crawl engine never touches this; the CLI hands it the flattened result
// array once a run completes.
type HistoryDB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// ScanHistoryEntry represents a record in the scan_history table.
type ScanHistoryEntry struct {
	ID            int64
	ScanSessionID string
	SeedURL       string
	StartTime     time.Time
	EndTime       sql.NullTime
	Reason        string
	TotalURLs     int
	BrokenCount   int
	ErrorCount    int
}

// NewHistoryDB initializes a new DB connection and ensures the schema is set up.
func NewHistoryDB(dataSourceName string, logger zerolog.Logger) (*HistoryDB, error) {
	dbLogger := logger.With().Str("module", "HistoryDB").Logger()
	dbLogger.Info().Str("db_path", dataSourceName).Msg("Initializing scan history database")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	db := &HistoryDB{
		db:     dbInstance,
		logger: dbLogger,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (d *HistoryDB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the history tables if they don't already exist.
func (d *HistoryDB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS scan_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_session_id TEXT UNIQUE,
		seed_url TEXT NOT NULL,
		scan_start_time DATETIME NOT NULL,
		scan_end_time DATETIME,
		reason TEXT,
		total_urls INTEGER DEFAULT 0,
		ok_urls INTEGER DEFAULT 0,
		broken_urls INTEGER DEFAULT 0,
		error_urls INTEGER DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS scan_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scan_history(id),
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		status_code INTEGER,
		error_message TEXT,
		depth INTEGER NOT NULL,
		found_on TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scan_results_scan_id ON scan_results(scan_id);
	`
	if _, err := d.db.Exec(query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize history schema")
		return err
	}
	return nil
}

// RecordScanStart inserts a new scan_history row and returns its ID.
func (d *HistoryDB) RecordScanStart(scanSessionID, seedURL string, startTime time.Time) (int64, error) {
	query := `INSERT INTO scan_history (scan_session_id, seed_url, scan_start_time) VALUES (?, ?, ?)`
	result, err := d.db.Exec(query, scanSessionID, seedURL, startTime)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.logger.Info().Int64("db_id", id).Str("scan_session_id", scanSessionID).Msg("Recorded scan start")
	return id, nil
}

// RecordScanCompletion updates the run's history row and stores its per-URL
// results. Each result's foundOn set is flattened to a JSON list of strings;
// the engine guarantees the set semantics, the store only flattens.
func (d *HistoryDB) RecordScanCompletion(dbScanID int64, summary models.ScanSummary, results []models.ScanResult) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updateQuery := `UPDATE scan_history SET scan_end_time = ?, reason = ?, total_urls = ?, ok_urls = ?, broken_urls = ?, error_urls = ? WHERE id = ?`
	if _, err := tx.Exec(updateQuery,
		summary.StartTime.Add(summary.Duration),
		string(summary.Reason),
		summary.TotalURLs,
		summary.OKCount,
		summary.BrokenCount,
		summary.ErrorCount,
		dbScanID,
	); err != nil {
		return fmt.Errorf("failed to update scan completion for ID %d: %w", dbScanID, err)
	}

	insertQuery := `INSERT INTO scan_results (scan_id, url, status, status_code, error_message, depth, found_on) VALUES (?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		foundOnJSON, err := json.Marshal(result.FoundOn)
		if err != nil {
			return fmt.Errorf("failed to marshal found_on for '%s': %w", result.URL, err)
		}
		statusCode := sql.NullInt64{Int64: int64(result.StatusCode), Valid: result.StatusCode != 0}
		errorMessage := sql.NullString{String: result.ErrorMessage, Valid: result.ErrorMessage != ""}
		if _, err := stmt.Exec(dbScanID, result.URL, string(result.Status), statusCode, errorMessage, result.Depth, string(foundOnJSON)); err != nil {
			return fmt.Errorf("failed to insert result row for '%s': %w", result.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}

	d.logger.Info().Int64("db_id", dbScanID).Int("results", len(results)).Msg("Recorded scan completion")
	return nil
}

// GetScanHistory returns the most recent runs, newest first.
func (d *HistoryDB) GetScanHistory(limit int) ([]ScanHistoryEntry, error) {
	query := `SELECT id, scan_session_id, seed_url, scan_start_time, scan_end_time, COALESCE(reason, ''), total_urls, broken_urls, error_urls
		FROM scan_history ORDER BY scan_start_time DESC LIMIT ?`
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan history: %w", err)
	}
	defer rows.Close()

	var entries []ScanHistoryEntry
	for rows.Next() {
		var entry ScanHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.ScanSessionID, &entry.SeedURL, &entry.StartTime, &entry.EndTime, &entry.Reason, &entry.TotalURLs, &entry.BrokenCount, &entry.ErrorCount); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetScanResults loads the stored result rows of one run.
func (d *HistoryDB) GetScanResults(dbScanID int64) ([]models.ScanResult, error) {
	query := `SELECT url, status, COALESCE(status_code, 0), COALESCE(error_message, ''), depth, found_on
		FROM scan_results WHERE scan_id = ? ORDER BY depth, url`
	rows, err := d.db.Query(query, dbScanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan results: %w", err)
	}
	defer rows.Close()

	var results []models.ScanResult
	for rows.Next() {
		var result models.ScanResult
		var status string
		var foundOnJSON string
		if err := rows.Scan(&result.URL, &status, &result.StatusCode, &result.ErrorMessage, &result.Depth, &foundOnJSON); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		result.Status = models.LinkStatus(status)
		if err := json.Unmarshal([]byte(foundOnJSON), &result.FoundOn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal found_on for '%s': %w", result.URL, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
