package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/partflow/internal/model"
)

// createTestPostgres connects to the database named by
// PARTFLOW_TEST_POSTGRES_DSN and truncates the catalog tables.
func createTestPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	dsn := os.Getenv("PARTFLOW_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PARTFLOW_TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewPostgresStorage(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	_, err = store.pool.Exec(ctx, `TRUNCATE components, ingest_runs`)
	require.NoError(t, err)

	return store
}

func TestPostgresStorage_UpsertAndRead(t *testing.T) {
	store := createTestPostgres(t)
	ctx := context.Background()

	original := testComponent(model.TypeCPU, "AMD", "Ryzen 5 5600X", 11200)
	_, err := store.ApplyBatch(ctx, []model.Component{original})
	require.NoError(t, err)

	updated := original
	updated.Price = 10080
	updated.LastUpdated = testTime.Add(time.Hour)
	_, err = store.ApplyBatch(ctx, []model.Component{updated})
	require.NoError(t, err)

	comps, err := store.ListComponents(ctx, ComponentFilter{Type: model.TypeCPU})
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.InDelta(t, 10080.0, comps[0].Price, 0.001)
	assert.Equal(t, []string{"socket", "tdp"}, comps[0].Specs.Keys())

	last, err := store.LastUpdated(ctx)
	require.NoError(t, err)
	assert.True(t, updated.LastUpdated.Equal(last))
}

func TestPostgresStorage_PartialFailure(t *testing.T) {
	store := createTestPostgres(t)
	ctx := context.Background()

	comps := makeComponents(30)
	comps[25].Type = "toaster"

	result, err := NewCatalogWriter(store, 10).Upsert(ctx, comps)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	counts, err := store.CountComponents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, counts[model.TypeRAM])
}

func TestPostgresStorage_Runs(t *testing.T) {
	store := createTestPostgres(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, RunRecord{
		ID:         "run-1",
		Source:     "/data",
		StartedAt:  testTime,
		FinishedAt: testTime,
		Stats:      []byte(`{"processed":1}`),
	}))

	runs, err := store.ListRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.JSONEq(t, `{"processed":1}`, string(runs[0].Stats))
}

func TestPostgresMigrations_Embedded(t *testing.T) {
	up, err := postgresMigrations.ReadFile("migrations/postgres/000001_create_components.up.sql")
	require.NoError(t, err)

	// The CHECK constraint must stay in sync with the persisted type enum.
	for _, componentType := range model.AllComponentTypes() {
		assert.Contains(t, string(up), "'"+string(componentType)+"'")
	}

	entries, err := postgresMigrations.ReadDir("migrations/postgres")
	require.NoError(t, err)
	assert.Len(t, entries, 2*ExpectedSchemaVersion, "one up and one down file per version")
}

func TestPostgresStorage_SchemaVersion(t *testing.T) {
	store := createTestPostgres(t)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}
