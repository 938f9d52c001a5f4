// Package store archives collection results in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"webcollect/collector"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_url TEXT NOT NULL,
	max_depth INTEGER NOT NULL,
	same_domain INTEGER NOT NULL,
	total_pages INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	collected_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pages (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	url TEXT NOT NULL,
	depth INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL,
	text_length INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
`

// Run is a stored collection.
type Run struct {
	ID          int64
	Result      collector.Result
	CollectedAt time.Time
}

// Store is a SQLite-backed archive of collection results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes result and its pages in one transaction and returns the run id.
func (s *Store) Save(ctx context.Context, result collector.Result, collectedAt time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (start_url, max_depth, same_domain, total_pages, error, collected_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.StartURL, result.MaxDepth, result.SameDomain, result.TotalPages, result.Error,
		collectedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pages (run_id, seq, url, depth, title, description, text, text_length)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare page insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for seq, page := range result.Pages {
		_, err := stmt.ExecContext(ctx,
			runID, seq, page.URL, page.Depth, page.Title, page.Description, page.Text, page.TextLength)
		if err != nil {
			return 0, fmt.Errorf("insert page %s: %w", page.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return runID, nil
}

// Load returns a stored run with its pages in fetch order.
func (s *Store) Load(ctx context.Context, runID int64) (Run, error) {
	run := Run{ID: runID}

	var (
		sameDomain  bool
		collectedAt string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT start_url, max_depth, same_domain, total_pages, error, collected_at FROM runs WHERE id = ?`,
		runID,
	).Scan(&run.Result.StartURL, &run.Result.MaxDepth, &sameDomain, &run.Result.TotalPages, &run.Result.Error, &collectedAt)
	if err != nil {
		return Run{}, fmt.Errorf("load run %d: %w", runID, err)
	}

	run.Result.SameDomain = sameDomain

	run.CollectedAt, err = time.Parse(time.RFC3339Nano, collectedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse collected_at %q: %w", collectedAt, err)
	}

	pages, err := s.pages(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	run.Result.Pages = pages

	return run, nil
}

func (s *Store) pages(ctx context.Context, runID int64) ([]collector.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, depth, title, description, text, text_length FROM pages WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	pages := []collector.Page{}
	for rows.Next() {
		var page collector.Page
		if err := rows.Scan(&page.URL, &page.Depth, &page.Title, &page.Description, &page.Text, &page.TextLength); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}

		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}

	return pages, nil
}
