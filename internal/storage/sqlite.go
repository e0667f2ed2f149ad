// Package storage records crawl runs in SQLite.
// It is a write-only results log: nothing here is read back to resume a crawl.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/masahif/rovercrawler/internal/config"
	"github.com/masahif/rovercrawler/internal/crawler"
	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// ErrNoActiveRun is returned when recording before StartRun
var ErrNoActiveRun = errors.New("no active crawl run")

// RunInfo is the stored summary of one crawl run
type RunInfo struct {
	ID          string
	RootURL     string
	Status      string
	StartedAt   time.Time
	FinishedAt  sql.NullTime
	Stats       crawler.CrawlStats
	Interrupted bool
}

// SQLiteStorage implements crawler.Recorder on top of SQLite
type SQLiteStorage struct {
	db    *sql.DB
	runID string
}

var _ crawler.Recorder = (*SQLiteStorage)(nil)

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection prevents lock conflicts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	storage := &SQLiteStorage{db: db}

	if err := storage.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// InitSchema creates the database schema
func (s *SQLiteStorage) InitSchema() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 30000",
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// RunID returns the id of the active run, or "" before StartRun
func (s *SQLiteStorage) RunID() string {
	return s.runID
}

// StartRun opens a new run for rootURL and makes it the target of the
// Record methods.
func (s *SQLiteStorage) StartRun(rootURL string, cfg config.CrawlConfig) (string, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(`
		INSERT INTO crawl_runs (id, root_url, max_depth, max_pages, follow_external, user_agent, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, rootURL, cfg.MaxDepth, cfg.MaxPages, cfg.FollowExternal, cfg.UserAgent, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}

	s.runID = id
	return id, nil
}

// FinishRun stores the final statistics of the active run
func (s *SQLiteStorage) FinishRun(stats crawler.CrawlStats, interrupted bool) error {
	if s.runID == "" {
		return ErrNoActiveRun
	}

	status := "completed"
	if interrupted {
		status = "interrupted"
	}

	_, err := s.db.Exec(`
		UPDATE crawl_runs SET
			status = ?,
			finished_at = ?,
			pages_crawled = ?,
			pages_skipped = ?,
			links_found = ?,
			error_count = ?,
			bytes_downloaded = ?,
			duration_ms = ?
		WHERE id = ?
	`,
		status,
		time.Now().UTC(),
		stats.PagesCrawled,
		stats.PagesSkipped,
		stats.LinksFound,
		stats.ErrorCount,
		stats.BytesDownloaded,
		stats.Duration.Milliseconds(),
		s.runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordPage implements crawler.Recorder
func (s *SQLiteStorage) RecordPage(page *crawler.PageRecord) error {
	if s.runID == "" {
		return ErrNoActiveRun
	}

	var parent sql.NullString
	if page.ParentURL != "" {
		parent = sql.NullString{String: page.ParentURL, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO pages (
			run_id, url, parent_url, depth, outcome, status_code, content_type, title,
			links_found, ttfb_ms, download_time_ms, response_size_bytes, crawled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.runID,
		page.URL,
		parent,
		page.Depth,
		page.Outcome.String(),
		page.StatusCode,
		page.ContentType,
		page.Title,
		page.LinksFound,
		page.TTFB.Milliseconds(),
		page.DownloadTime.Milliseconds(),
		page.ResponseSize,
		page.CrawledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save page %s: %w", page.URL, err)
	}
	return nil
}

// RecordLinks implements crawler.Recorder. Repeated edges are ignored.
func (s *SQLiteStorage) RecordLinks(sourceURL string, targetURLs []string) error {
	if s.runID == "" {
		return ErrNoActiveRun
	}
	if len(targetURLs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO links (run_id, source_url, target_url)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, target := range targetURLs {
		if _, err := stmt.Exec(s.runID, sourceURL, target); err != nil {
			return fmt.Errorf("failed to insert link %s -> %s: %w", sourceURL, target, err)
		}
	}

	return tx.Commit()
}

// RecordError implements crawler.Recorder
func (s *SQLiteStorage) RecordError(crawlErr *crawler.CrawlError) error {
	if s.runID == "" {
		return ErrNoActiveRun
	}

	_, err := s.db.Exec(`
		INSERT INTO crawl_errors (run_id, url, error_type, error_message, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.runID, crawlErr.URL, crawlErr.ErrorType, crawlErr.ErrorMessage, crawlErr.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to save error: %w", err)
	}
	return nil
}

// GetRun loads a run summary
func (s *SQLiteStorage) GetRun(id string) (*RunInfo, error) {
	var info RunInfo
	var pagesCrawled, pagesSkipped, linksFound, errorCount, durationMS sql.NullInt64
	var bytesDownloaded sql.NullInt64

	err := s.db.QueryRow(`
		SELECT id, root_url, status, started_at, finished_at,
			pages_crawled, pages_skipped, links_found, error_count, bytes_downloaded, duration_ms
		FROM crawl_runs WHERE id = ?
	`, id).Scan(
		&info.ID, &info.RootURL, &info.Status, &info.StartedAt, &info.FinishedAt,
		&pagesCrawled, &pagesSkipped, &linksFound, &errorCount, &bytesDownloaded, &durationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	info.Stats = crawler.CrawlStats{
		PagesCrawled:    int(pagesCrawled.Int64),
		PagesSkipped:    int(pagesSkipped.Int64),
		LinksFound:      int(linksFound.Int64),
		ErrorCount:      int(errorCount.Int64),
		BytesDownloaded: bytesDownloaded.Int64,
		StartTime:       info.StartedAt,
		Duration:        time.Duration(durationMS.Int64) * time.Millisecond,
	}
	info.Interrupted = info.Status == "interrupted"

	return &info, nil
}

// LatestRun loads the most recently started run
func (s *SQLiteStorage) LatestRun() (*RunInfo, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM crawl_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}
	return s.GetRun(id)
}

// CountPages returns how many pages a run recorded, by outcome
func (s *SQLiteStorage) CountPages(runID string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT outcome, COUNT(*) FROM pages WHERE run_id = ? GROUP BY outcome
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[outcome] = n
	}

	return counts, rows.Err()
}

// CountErrors returns the number of errors recorded for a run
func (s *SQLiteStorage) CountErrors(runID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM crawl_errors WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count errors: %w", err)
	}
	return count, nil
}

func parseOutcome(s string) crawler.FetchOutcome {
	for _, o := range []crawler.FetchOutcome{
		crawler.OutcomeOK,
		crawler.OutcomeTransportError,
		crawler.OutcomeBadStatus,
		crawler.OutcomeNotHTML,
		crawler.OutcomeCanceled,
	} {
		if o.String() == s {
			return o
		}
	}
	return crawler.OutcomeTransportError
}
