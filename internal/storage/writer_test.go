package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/partflow/internal/model"
)

type fakeApplier struct {
	failOn  map[int]error
	batches [][]model.Component
}

func (f *fakeApplier) ApplyBatch(_ context.Context, components []model.Component) (int64, error) {
	index := len(f.batches)
	f.batches = append(f.batches, components)
	if err, ok := f.failOn[index]; ok {
		return 0, err
	}
	return int64(len(components)), nil
}

func TestCatalogWriter_ChunksIntoBatches(t *testing.T) {
	applier := &fakeApplier{}
	w := NewCatalogWriter(applier, 10)

	var observed []BatchResult
	w.OnBatch(func(br BatchResult) { observed = append(observed, br) })

	result, err := w.Upsert(context.Background(), makeComponents(25))
	require.NoError(t, err)

	require.Len(t, applier.batches, 3)
	assert.Len(t, applier.batches[0], 10)
	assert.Len(t, applier.batches[1], 10)
	assert.Len(t, applier.batches[2], 5)
	assert.Equal(t, int64(25), result.Affected)
	assert.Zero(t, result.Failed)
	assert.Equal(t, result.Batches, observed)
	assert.Equal(t, 3, w.Batches(25))
}

func TestCatalogWriter_DefaultBatchSize(t *testing.T) {
	w := NewCatalogWriter(&fakeApplier{}, 0)
	assert.Equal(t, DefaultBatchSize, w.BatchSize())
	assert.Equal(t, 1, w.Batches(100))
	assert.Equal(t, 2, w.Batches(101))
	assert.Equal(t, 0, w.Batches(0))
}

func TestCatalogWriter_ContinuesAfterFailedBatch(t *testing.T) {
	boom := errors.New("deadlock")
	applier := &fakeApplier{failOn: map[int]error{1: boom}}
	w := NewCatalogWriter(applier, 10)

	result, err := w.Upsert(context.Background(), makeComponents(30))
	require.NoError(t, err)

	require.Len(t, result.Batches, 3)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, int64(20), result.Affected)
	assert.ErrorIs(t, result.Batches[1].Err, boom)
	assert.Zero(t, result.Batches[1].Affected)
	assert.NoError(t, result.Batches[2].Err)
}

func TestCatalogWriter_StopsBetweenBatchesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	applier := &fakeApplier{}
	w := NewCatalogWriter(applier, 10)
	w.OnBatch(func(BatchResult) { cancel() })

	result, err := w.Upsert(ctx, makeComponents(30))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, applier.batches, 1, "the in-flight batch completes, the rest are skipped")
	assert.Equal(t, int64(10), result.Affected)
}

func TestCatalogWriter_EmptyInput(t *testing.T) {
	applier := &fakeApplier{}
	result, err := NewCatalogWriter(applier, 10).Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, applier.batches)
	assert.Empty(t, result.Batches)
}

func TestCatalogWriter_PartialFailureAgainstSQLite(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	comps := makeComponents(30)
	// A type the table constraint rejects poisons only the middle batch.
	comps[15].Type = "toaster"

	result, err := NewCatalogWriter(store, 10).Upsert(ctx, comps)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Error(t, result.Batches[1].Err)
	assert.Equal(t, int64(20), result.Affected)

	counts, err := store.CountComponents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, counts[model.TypeRAM])
}
