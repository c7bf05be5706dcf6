package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/partflow/internal/model"
)

// DefaultBatchSize is the number of components applied per transaction.
const DefaultBatchSize = 100

// BatchResult is the outcome of one applied batch.
type BatchResult struct {
	Err      error
	Index    int
	Size     int
	Affected int64
}

// UpsertResult summarizes a CatalogWriter.Upsert call.
type UpsertResult struct {
	Batches  []BatchResult
	Affected int64
	Failed   int
}

// BatchObserver is told about every applied batch.
type BatchObserver func(BatchResult)

// CatalogWriter splits components into fixed-size batches and applies each
// in its own transaction. A failed batch is rolled back and recorded; later
// batches are still attempted.
type CatalogWriter struct {
	applier   BatchApplier
	observer  BatchObserver
	batchSize int
}

// NewCatalogWriter creates a writer over applier. A non-positive batch size
// uses DefaultBatchSize.
func NewCatalogWriter(applier BatchApplier, batchSize int) *CatalogWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &CatalogWriter{applier: applier, batchSize: batchSize}
}

// OnBatch registers an observer for batch results.
func (w *CatalogWriter) OnBatch(observer BatchObserver) {
	w.observer = observer
}

// BatchSize returns the configured batch size.
func (w *CatalogWriter) BatchSize() int {
	return w.batchSize
}

// Batches returns how many batches n components need.
func (w *CatalogWriter) Batches(n int) int {
	return (n + w.batchSize - 1) / w.batchSize
}

// Upsert applies components batch by batch. The context is only checked
// between batches; an in-flight batch always runs to commit or rollback.
// The returned error is non-nil only when the context ends early.
func (w *CatalogWriter) Upsert(ctx context.Context, components []model.Component) (UpsertResult, error) {
	if err := validateContext(ctx); err != nil {
		return UpsertResult{}, err
	}

	var result UpsertResult
	for index, start := 0, 0; start < len(components); index, start = index+1, start+w.batchSize {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("upsert stopped before batch %d: %w", index, err)
		}

		end := min(start+w.batchSize, len(components))
		batch := components[start:end]

		affected, err := w.applier.ApplyBatch(context.WithoutCancel(ctx), batch)
		br := BatchResult{Index: index, Size: len(batch), Affected: affected, Err: err}
		if err != nil {
			br.Affected = 0
			result.Failed++
			slog.Error("Batch failed, rolled back",
				"batch", index,
				"size", len(batch),
				"error", err)
		} else {
			result.Affected += affected
			slog.Debug("Batch applied",
				"batch", index,
				"size", len(batch),
				"affected", affected)
		}

		result.Batches = append(result.Batches, br)
		if w.observer != nil {
			w.observer(br)
		}
	}

	return result, nil
}
