package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Veraticus/partflow/internal/common"
	"github.com/Veraticus/partflow/internal/model"
)

const postgresUpsertComponent = `INSERT INTO components
	(type, brand, model, price, currency, image_url, source_url, specs, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
	ON CONFLICT (type, brand, model) DO UPDATE SET
		price = EXCLUDED.price,
		image_url = EXCLUDED.image_url,
		source_url = EXCLUDED.source_url,
		specs = EXCLUDED.specs,
		last_updated = EXCLUDED.last_updated`

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// PostgresStorage implements Store on a pgx connection pool.
type PostgresStorage struct {
	pool *pgxpool.Pool
	dsn  string
}

// NewPostgresStorage connects to dsn, retrying while the server comes up.
func NewPostgresStorage(ctx context.Context, dsn string, maxConns int32) (*PostgresStorage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(dsn, "dsn"); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return pool.Ping(ctx)
	}, common.RetryOptions{MaxAttempts: 5, InitialDelay: 200 * time.Millisecond, MaxDelay: 5 * time.Second})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStorage{pool: pool, dsn: dsn}, nil
}

// Close releases the pool.
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) migrator() (*migrate.Migrate, error) {
	source, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, p.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// Migrate applies the embedded migrations. The DSN must be in URL form.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	m, err := p.migrator()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}

	slog.Info("Postgres schema ready")
	return nil
}

// SchemaVersion returns the applied migration version; 0 before the first.
func (p *PostgresStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	m, err := p.migrator()
	if err != nil {
		return 0, err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	if dirty {
		return int(version), fmt.Errorf("%w: migration %d is dirty", common.ErrDatabaseDirty, version)
	}
	return int(version), nil
}

// ApplyBatch upserts components in a single transaction using a pipelined batch.
func (p *PostgresStorage) ApplyBatch(ctx context.Context, components []model.Component) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(components) == 0 {
		return 0, nil
	}
	if err := validateComponents(components); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for i := range components {
		c := &components[i]
		specs, err := encodeSpecs(c.Specs)
		if err != nil {
			return 0, err
		}
		batch.Queue(postgresUpsertComponent,
			string(c.Type), c.Brand, c.Model, c.Price, currencyOrDefault(c.Currency),
			nullableText(c.ImageURL), nullableText(c.SourceURL), specs, c.LastUpdated.UTC())
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	var affected int64
	for i := range components {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to upsert %s: %w", components[i].Key(), err)
		}
		affected += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}

	return affected, nil
}

// ListComponents returns catalog rows ordered by type, brand and model.
func (p *PostgresStorage) ListComponents(ctx context.Context, filter ComponentFilter) ([]model.Component, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter, func(n int) string { return fmt.Sprintf("$%d", n) })
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var components []model.Component
	for rows.Next() {
		var (
			c             model.Component
			componentType string
			image, source *string
			spec          []byte
		)
		if err := rows.Scan(&c.ID, &componentType, &c.Brand, &c.Model, &c.Price, &c.Currency,
			&image, &source, &spec, &c.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		c.Type = model.ComponentType(componentType)
		if image != nil {
			c.ImageURL = *image
		}
		if source != nil {
			c.SourceURL = *source
		}
		if c.Specs, err = decodeSpecs(spec); err != nil {
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
func (p *PostgresStorage) CountComponents(ctx context.Context) (map[model.ComponentType]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `SELECT type, COUNT(*) FROM components GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count components: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ComponentType]int)
	for rows.Next() {
		var (
			componentType string
			count         int64
		)
		if err := rows.Scan(&componentType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[model.ComponentType(componentType)] = int(count)
	}

	return counts, rows.Err()
}

// LastUpdated returns the newest last_updated value, or the zero time for
// an empty catalog.
func (p *PostgresStorage) LastUpdated(ctx context.Context) (time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return time.Time{}, err
	}

	var last *time.Time
	err := p.pool.QueryRow(ctx, `SELECT MAX(last_updated) FROM components`).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("failed to get last update time: %w", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// RecordRun stores the audit record of an ingestion run.
func (p *PostgresStorage) RecordRun(ctx context.Context, run RunRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(run.ID, "run.ID"); err != nil {
		return err
	}

	var stats *string
	if len(run.Stats) > 0 {
		s := string(run.Stats)
		stats = &s
	}

	_, err := p.pool.Exec(ctx, `INSERT INTO ingest_runs
		(id, source, started_at, finished_at, processed, accepted, rejected, persisted, failed_batches, dry_run, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb)`,
		run.ID, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Processed, run.Accepted,
		run.Rejected, run.Persisted, run.FailedBatches, run.DryRun, stats)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (p *PostgresStorage) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := p.pool.Query(ctx, `SELECT id, source, started_at, finished_at, processed, accepted,
		rejected, persisted, failed_batches, dry_run, stats
		FROM ingest_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(&run.ID, &run.Source, &run.StartedAt, &run.FinishedAt, &run.Processed,
			&run.Accepted, &run.Rejected, &run.Persisted, &run.FailedBatches, &run.DryRun, &run.Stats); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
