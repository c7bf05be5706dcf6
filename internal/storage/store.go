// Package storage persists the component catalog and ingestion run audits.
package storage

import (
	"context"
	"time"

	"github.com/Veraticus/partflow/internal/model"
)

// BatchApplier applies one batch of components atomically. On a new key the
// row is inserted; on an existing (type, brand, model) key only price,
// image_url, source_url, specs and last_updated are updated. A failed batch
// leaves nothing behind.
type BatchApplier interface {
	ApplyBatch(ctx context.Context, components []model.Component) (int64, error)
}

// CatalogReader is the read side used by the recommendation engine and the CLI.
type CatalogReader interface {
	ListComponents(ctx context.Context, filter ComponentFilter) ([]model.Component, error)
	CountComponents(ctx context.Context) (map[model.ComponentType]int, error)
	LastUpdated(ctx context.Context) (time.Time, error)
}

// Store is a full catalog backend.
type Store interface {
	BatchApplier
	CatalogReader
	Migrate(ctx context.Context) error
	RecordRun(ctx context.Context, run RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

// ComponentFilter narrows ListComponents. Zero values mean no constraint.
type ComponentFilter struct {
	Type     model.ComponentType
	Brand    string
	Search   string
	MinPrice float64
	MaxPrice float64
	Limit    int
}

// RunRecord is the persisted audit of one ingestion run.
type RunRecord struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	ID            string
	Source        string
	Stats         []byte // JSON encoded stats
	Processed     int
	Accepted      int
	Rejected      int
	Persisted     int64
	FailedBatches int
	DryRun        bool
}
