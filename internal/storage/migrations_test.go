package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
	assert.Equal(t, ExpectedSchemaVersion, migrations[len(migrations)-1].Version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestMigrate_VersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "migration %q", m.Description)
	}
}

func TestMigrate_TypeConstraint(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `INSERT INTO components (type, brand, model, last_updated)
		VALUES ('toaster', 'Acme', 'Bread', CURRENT_TIMESTAMP)`)
	require.Error(t, err)

	_, err = store.db.ExecContext(ctx, `INSERT INTO components (type, brand, model, last_updated)
		VALUES ('peripheral', 'Logitech', 'G502', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	_, err = store.db.ExecContext(ctx, `INSERT INTO components (type, brand, model, last_updated)
		VALUES ('peripheral', 'Logitech', 'G502', CURRENT_TIMESTAMP)`)
	require.Error(t, err, "duplicate key must be rejected")
}

func TestMigrate_FreshDatabaseStartsAtZero(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "dir", "fresh.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Zero(t, version)
}
