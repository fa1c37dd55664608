// CLAUDE:SUMMARY SQLite-backed index: per-(year,name) counts, per-name totals, gender classification cache, ingest run log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ralsina/nombres/pkg/names"
)

// Store owns every persisted entity. Resolver and classifier reach the data
// only through its methods; the handle is created once at process start and
// passed around explicitly.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS name_year_counts (
		year  INTEGER NOT NULL,
		name  TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (year, name)
	);
	CREATE INDEX IF NOT EXISTS idx_name_year_counts_name ON name_year_counts(name);

	CREATE TABLE IF NOT EXISTS name_totals (
		name  TEXT PRIMARY KEY,
		total INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gender_classifications (
		token       TEXT PRIMARY KEY,
		masculinity REAL
	);

	CREATE TABLE IF NOT EXISTS ingest_runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source      TEXT NOT NULL,
		rows        INTEGER NOT NULL,
		names       INTEGER NOT NULL,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close cierra la conexión SQLite.
func (s *Store) Close() error {
	return s.db.Close()
}

// CommitSnapshot replaces the whole index with the given aggregate in one
// transaction. Old rows for names no longer present are superseded, not
// accumulated on top of, so re-running ingestion is idempotent. The
// classification cache is left alone.
func (s *Store) CommitSnapshot(ctx context.Context, source string, agg *names.Aggregate) error {
	started := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM name_year_counts`); err != nil {
		return fmt.Errorf("clear name_year_counts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM name_totals`); err != nil {
		return fmt.Errorf("clear name_totals: %w", err)
	}

	insYear, err := tx.PrepareContext(ctx, `INSERT INTO name_year_counts (year, name, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare year insert: %w", err)
	}
	defer insYear.Close()

	for year, counts := range agg.YearCounts {
		for name, count := range counts {
			if _, err := insYear.ExecContext(ctx, year, name, count); err != nil {
				return fmt.Errorf("insert (%d, %s): %w", year, name, err)
			}
		}
	}

	insTotal, err := tx.PrepareContext(ctx, `INSERT INTO name_totals (name, total) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare total insert: %w", err)
	}
	defer insTotal.Close()

	for name, total := range agg.Totals {
		if _, err := insTotal.ExecContext(ctx, name, total); err != nil {
			return fmt.Errorf("insert total %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ingest_runs (source, rows, names, started_at, finished_at) VALUES (?, ?, ?, ?, ?)`,
		source, agg.Rows, agg.Names(), started.Unix(), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// IngestRun is one recorded ingestion.
type IngestRun struct {
	ID         int64
	Source     string
	Rows       int
	Names      int
	StartedAt  int64
	FinishedAt int64
}

// LastIngestRun returns the most recent ingestion, or (nil, nil) if the index
// was never built.
func (s *Store) LastIngestRun(ctx context.Context) (*IngestRun, error) {
	var run IngestRun
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, rows, names, started_at, finished_at
		 FROM ingest_runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &run.Rows, &run.Names, &run.StartedAt, &run.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last ingest run: %w", err)
	}
	return &run, nil
}
