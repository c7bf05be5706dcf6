package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/partflow/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const sqliteUpsertComponent = `INSERT INTO components
	(type, brand, model, price, currency, image_url, source_url, specs, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(type, brand, model) DO UPDATE SET
		price = excluded.price,
		image_url = excluded.image_url,
		source_url = excluded.source_url,
		specs = excluded.specs,
		last_updated = excluded.last_updated`

// SQLiteStorage implements Store using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// NewSnapshotManager creates a snapshot manager for this database.
func (s *SQLiteStorage) NewSnapshotManager() (*SnapshotManager, error) {
	return NewSnapshotManager(s.db, s.dbPath)
}

// ApplyBatch upserts components in a single transaction.
func (s *SQLiteStorage) ApplyBatch(ctx context.Context, components []model.Component) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(components) == 0 {
		return 0, nil
	}
	if err := validateComponents(components); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertComponent)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var affected int64
	for i := range components {
		c := &components[i]
		specs, err := encodeSpecs(c.Specs)
		if err != nil {
			return 0, err
		}

		result, err := stmt.ExecContext(ctx,
			string(c.Type), c.Brand, c.Model, c.Price, currencyOrDefault(c.Currency),
			nullString(c.ImageURL), nullString(c.SourceURL), specs, c.LastUpdated.UTC())
		if err != nil {
			return 0, fmt.Errorf("failed to upsert %s: %w", c.Key(), err)
		}
		if n, err := result.RowsAffected(); err == nil {
			affected += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}

	return affected, nil
}

// ListComponents returns catalog rows ordered by type, brand and model.
func (s *SQLiteStorage) ListComponents(ctx context.Context, filter ComponentFilter) ([]model.Component, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter, func(int) string { return "?" })
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var components []model.Component
	for rows.Next() {
		var (
			c                   model.Component
			componentType       string
			image, source, spec sql.NullString
		)
		if err := rows.Scan(&c.ID, &componentType, &c.Brand, &c.Model, &c.Price, &c.Currency,
			&image, &source, &spec, &c.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		c.Type = model.ComponentType(componentType)
		c.ImageURL = image.String
		c.SourceURL = source.String
		if c.Specs, err = decodeSpecs([]byte(spec.String)); err != nil {
			return nil, fmt.Errorf("component %d: %w", c.ID, err)
		}
		components = append(components, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}

	return components, nil
}

// CountComponents returns the number of rows per type.
func (s *SQLiteStorage) CountComponents(ctx context.Context) (map[model.ComponentType]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM components GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count components: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.ComponentType]int)
	for rows.Next() {
		var (
			componentType string
			count         int
		)
		if err := rows.Scan(&componentType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[model.ComponentType(componentType)] = count
	}

	return counts, rows.Err()
}

// LastUpdated returns the newest last_updated value, or the zero time for
// an empty catalog.
func (s *SQLiteStorage) LastUpdated(ctx context.Context) (time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return time.Time{}, err
	}

	var last time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT last_updated FROM components ORDER BY last_updated DESC LIMIT 1`).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last update time: %w", err)
	}
	return last, nil
}

// RecordRun stores the audit record of an ingestion run.
func (s *SQLiteStorage) RecordRun(ctx context.Context, run RunRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(run.ID, "run.ID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO ingest_runs
		(id, source, started_at, finished_at, processed, accepted, rejected, persisted, failed_batches, dry_run, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Processed, run.Accepted,
		run.Rejected, run.Persisted, run.FailedBatches, run.DryRun, nullString(string(run.Stats)))
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, source, started_at, finished_at, processed, accepted,
		rejected, persisted, failed_batches, dry_run, stats
		FROM ingest_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		var (
			run   RunRecord
			stats sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.StartedAt, &run.FinishedAt, &run.Processed,
			&run.Accepted, &run.Rejected, &run.Persisted, &run.FailedBatches, &run.DryRun, &stats); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if stats.Valid {
			run.Stats = []byte(stats.String)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
