// Package testutil provides catalog fixtures shared by package tests: a
// migrated throwaway database, a component builder and source directories.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/storage"
)

// TestDB is a migrated SQLite catalog that lives for one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Path    string
	t       *testing.T
}

// SetupTestDB creates a file-backed catalog in a temp dir, migrates it and
// seeds the given components. The database is closed on cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewComponentBuilder().
//			WithFixture(testutil.FixtureGamingBuild).
//			Build()...,
//	)
func SetupTestDB(t *testing.T, seed ...model.Component) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, Path: path, t: t}
	if len(seed) > 0 {
		db.Seed(seed...)
	}
	return db
}

// Seed upserts components in one batch or fails the test.
func (db *TestDB) Seed(components ...model.Component) {
	db.t.Helper()
	if _, err := db.Storage.ApplyBatch(context.Background(), components); err != nil {
		db.t.Fatalf("failed to seed components: %v", err)
	}
}

// Count returns the number of rows of the given type.
func (db *TestDB) Count(componentType model.ComponentType) int {
	db.t.Helper()
	counts, err := db.Storage.CountComponents(context.Background())
	if err != nil {
		db.t.Fatalf("failed to count components: %v", err)
	}
	return counts[componentType]
}

// Total returns the number of rows in the catalog.
func (db *TestDB) Total() int {
	db.t.Helper()
	counts, err := db.Storage.CountComponents(context.Background())
	if err != nil {
		db.t.Fatalf("failed to count components: %v", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// Components returns every row in catalog order.
func (db *TestDB) Components() []model.Component {
	db.t.Helper()
	components, err := db.Storage.ListComponents(context.Background(), storage.ComponentFilter{})
	if err != nil {
		db.t.Fatalf("failed to list components: %v", err)
	}
	return components
}

// WriteSources writes name→content files into a fresh temp dir and returns
// its path.
func WriteSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write source %s: %v", name, err)
		}
	}
	return dir
}
