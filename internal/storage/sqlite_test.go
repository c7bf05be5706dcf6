package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/partflow/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

var testTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testComponent(componentType model.ComponentType, brand, modelName string, price float64) model.Component {
	return model.Component{
		Type:        componentType,
		Brand:       brand,
		Model:       modelName,
		Price:       price,
		Currency:    "PHP",
		ImageURL:    "https://img.example/" + modelName,
		SourceURL:   "https://shop.example/" + modelName,
		Specs:       model.Specs{{Key: "socket", Value: "AM5"}, {Key: "tdp", Value: "120W"}},
		LastUpdated: testTime,
	}
}

func makeComponents(n int) []model.Component {
	comps := make([]model.Component, n)
	for i := range comps {
		comps[i] = testComponent(model.TypeRAM, "Corsair", fmt.Sprintf("Vengeance %03d", i), float64(1000+i))
	}
	return comps
}

func TestSQLiteStorage_ApplyBatchInsertsAndReads(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	affected, err := store.ApplyBatch(ctx, []model.Component{
		testComponent(model.TypeCPU, "AMD", "Ryzen 9 7950X", 33600),
		testComponent(model.TypeGPU, "NVIDIA", "GeForce RTX 4090", 100800),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	comps, err := store.ListComponents(ctx, ComponentFilter{})
	require.NoError(t, err)
	require.Len(t, comps, 2)

	cpu := comps[0]
	assert.NotZero(t, cpu.ID)
	assert.Equal(t, model.TypeCPU, cpu.Type)
	assert.Equal(t, "AMD", cpu.Brand)
	assert.Equal(t, "Ryzen 9 7950X", cpu.Model)
	assert.InDelta(t, 33600.0, cpu.Price, 0.001)
	assert.Equal(t, "PHP", cpu.Currency)
	assert.Equal(t, "https://img.example/Ryzen 9 7950X", cpu.ImageURL)
	assert.Equal(t, []string{"socket", "tdp"}, cpu.Specs.Keys())
	assert.True(t, testTime.Equal(cpu.LastUpdated))
}

func TestSQLiteStorage_UpsertUpdatesOnlyMutableColumns(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	original := testComponent(model.TypeCPU, "AMD", "Ryzen 5 5600X", 11200)
	original.Currency = "PHP"
	_, err := store.ApplyBatch(ctx, []model.Component{original})
	require.NoError(t, err)

	updated := original
	updated.Price = 10080
	updated.Currency = "USD"
	updated.ImageURL = ""
	updated.Specs = model.Specs{{Key: "cores", Value: "6"}}
	updated.LastUpdated = testTime.Add(time.Hour)
	_, err = store.ApplyBatch(ctx, []model.Component{updated})
	require.NoError(t, err)

	comps, err := store.ListComponents(ctx, ComponentFilter{})
	require.NoError(t, err)
	require.Len(t, comps, 1)

	got := comps[0]
	assert.InDelta(t, 10080.0, got.Price, 0.001)
	assert.Equal(t, "PHP", got.Currency, "currency is not part of the update set")
	assert.Empty(t, got.ImageURL)
	assert.Equal(t, []string{"cores"}, got.Specs.Keys())
	assert.True(t, testTime.Add(time.Hour).Equal(got.LastUpdated))
}

func TestSQLiteStorage_ApplyBatchIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	comps := makeComponents(25)
	for range 3 {
		_, err := store.ApplyBatch(ctx, comps)
		require.NoError(t, err)
	}

	counts, err := store.CountComponents(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.ComponentType]int{model.TypeRAM: 25}, counts)
}

func TestSQLiteStorage_ApplyBatchRollsBackOnFailure(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bad := testComponent("toaster", "Acme", "Bread 2000", 100)
	_, err := store.ApplyBatch(ctx, []model.Component{
		testComponent(model.TypeCPU, "Intel", "Core i5-13400F", 10000),
		bad,
	})
	require.Error(t, err)

	comps, err := store.ListComponents(ctx, ComponentFilter{})
	require.NoError(t, err)
	assert.Empty(t, comps, "the whole batch must be rolled back")
}

func TestSQLiteStorage_ApplyBatchValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.Component)
		name   string
	}{
		{name: "empty brand", mutate: func(c *model.Component) { c.Brand = " " }},
		{name: "empty model", mutate: func(c *model.Component) { c.Model = "" }},
		{name: "negative price", mutate: func(c *model.Component) { c.Price = -1 }},
		{name: "no timestamp", mutate: func(c *model.Component) { c.LastUpdated = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testComponent(model.TypeCPU, "AMD", "Ryzen 5 7600", 12000)
			tt.mutate(&c)
			_, err := store.ApplyBatch(ctx, []model.Component{c})
			require.ErrorIs(t, err, ErrInvalidComponent)
		})
	}

	affected, err := store.ApplyBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestSQLiteStorage_ListComponentsFilter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.ApplyBatch(ctx, []model.Component{
		testComponent(model.TypeCPU, "AMD", "Ryzen 5 7600", 12000),
		testComponent(model.TypeCPU, "AMD", "Ryzen 9 7950X", 33600),
		testComponent(model.TypeCPU, "Intel", "Core i5-13400F", 11000),
		testComponent(model.TypeGPU, "ASUS", "TUF RTX 4070", 40000),
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		want   []string
		filter ComponentFilter
	}{
		{name: "all", filter: ComponentFilter{}, want: []string{"Ryzen 5 7600", "Ryzen 9 7950X", "Core i5-13400F", "TUF RTX 4070"}},
		{name: "by type", filter: ComponentFilter{Type: model.TypeGPU}, want: []string{"TUF RTX 4070"}},
		{name: "by brand case-insensitive", filter: ComponentFilter{Brand: "amd"}, want: []string{"Ryzen 5 7600", "Ryzen 9 7950X"}},
		{name: "search", filter: ComponentFilter{Search: "ryzen 9"}, want: []string{"Ryzen 9 7950X"}},
		{name: "price window", filter: ComponentFilter{Type: model.TypeCPU, MinPrice: 11500, MaxPrice: 20000}, want: []string{"Ryzen 5 7600"}},
		{name: "limit", filter: ComponentFilter{Limit: 1}, want: []string{"Ryzen 5 7600"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps, err := store.ListComponents(ctx, tt.filter)
			require.NoError(t, err)
			models := make([]string, len(comps))
			for i, c := range comps {
				models[i] = c.Model
			}
			assert.Equal(t, tt.want, models)
		})
	}

	_, err = store.ListComponents(ctx, ComponentFilter{Type: "toaster"})
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSQLiteStorage_LastUpdated(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	last, err := store.LastUpdated(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	older := testComponent(model.TypeCPU, "AMD", "Ryzen 5 7600", 12000)
	newer := testComponent(model.TypeCPU, "AMD", "Ryzen 7 7700", 18000)
	newer.LastUpdated = testTime.Add(48 * time.Hour)
	_, err = store.ApplyBatch(ctx, []model.Component{older, newer})
	require.NoError(t, err)

	last, err = store.LastUpdated(ctx)
	require.NoError(t, err)
	assert.True(t, newer.LastUpdated.Equal(last), "got %v", last)
}

func TestSQLiteStorage_Runs(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := RunRecord{
		ID:         "run-1",
		Source:     "/data/products",
		StartedAt:  testTime,
		FinishedAt: testTime.Add(time.Minute),
		Processed:  10,
		Accepted:   7,
		Rejected:   3,
		Persisted:  7,
		Stats:      []byte(`{"processed":10}`),
	}
	second := first
	second.ID = "run-2"
	second.StartedAt = testTime.Add(time.Hour)
	second.DryRun = true
	second.Stats = nil

	require.NoError(t, store.RecordRun(ctx, first))
	require.NoError(t, store.RecordRun(ctx, second))
	require.Error(t, store.RecordRun(ctx, first), "duplicate run id")
	require.ErrorIs(t, store.RecordRun(ctx, RunRecord{}), ErrEmptyString)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.True(t, runs[0].DryRun)
	assert.Nil(t, runs[0].Stats)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, 7, runs[1].Accepted)
	assert.Equal(t, int64(7), runs[1].Persisted)
	assert.JSONEq(t, `{"processed":10}`, string(runs[1].Stats))
}
