package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/partflow/internal/classification"
	"github.com/Veraticus/partflow/internal/common"
	"github.com/Veraticus/partflow/internal/config"
	"github.com/Veraticus/partflow/internal/normalize"
	"github.com/Veraticus/partflow/internal/rules"
	"github.com/Veraticus/partflow/internal/storage"
)

func loadConfig() (*config.Config, error) {
	// AutomaticEnv only resolves nested keys with a replacer.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return config.Load(viper.GetViper())
}

// initStorage opens the configured backend and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)

	switch cfg.Database.Driver {
	case "sqlite":
		store, err = storage.NewSQLiteStorage(cfg.Database.Path)
	case "postgres":
		store, err = storage.NewPostgresStorage(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedDriver, cfg.Database.Driver)
	}
	if err != nil {
		return nil, common.NewUserError("Could not open the catalog database", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("Could not migrate the catalog database", err)
	}

	return store, nil
}

// snapshotManager returns the snapshot manager of a SQLite store.
func snapshotManager(store storage.Store) (*storage.SnapshotManager, error) {
	sqliteStore, ok := store.(*storage.SQLiteStorage)
	if !ok {
		return nil, fmt.Errorf("%w: snapshots need the sqlite driver", common.ErrUnsupportedDriver)
	}
	manager, err := sqliteStore.NewSnapshotManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot manager: %w", err)
	}
	return manager, nil
}

func loadCatalog(cfg *config.Config) (*rules.Catalog, error) {
	if cfg.Ingest.RulesFile == "" {
		return rules.Default(), nil
	}
	if _, err := os.Stat(cfg.Ingest.RulesFile); err != nil {
		return nil, fmt.Errorf("%w: rules file %s: %v", common.ErrMissingConfig, cfg.Ingest.RulesFile, err)
	}
	catalog, err := rules.LoadFile(cfg.Ingest.RulesFile)
	if err != nil {
		return nil, common.NewUserError("Could not load the rules file", err)
	}
	slog.Debug("Loaded rules file", "path", cfg.Ingest.RulesFile, "categories", len(catalog.Rules()))
	return catalog, nil
}

// buildClassifier wires the rule catalog into a classifier and normalizer.
func buildClassifier(cfg *config.Config) (*classification.Classifier, *normalize.Normalizer, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	classifier := classification.NewClassifier(catalog, cfg.Classification)
	return classifier, normalize.New(classifier.Brands(), cfg.Currency.Rate), nil
}
