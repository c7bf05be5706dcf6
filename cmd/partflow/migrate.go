package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/partflow/internal/config"
	"github.com/Veraticus/partflow/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the catalog schema to the latest version.

Every other command migrates on open; run this explicitly to prepare a fresh
database or to check its version.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current schema version without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	slog.Info("Opening catalog database", "driver", cfg.Database.Driver, "status_only", status)

	store, err := openVersioned(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		slog.Info("📊 Database Migration Status",
			"driver", cfg.Database.Driver,
			"current_version", current,
			"latest_version", storage.ExpectedSchemaVersion)
		return nil
	}

	if current >= storage.ExpectedSchemaVersion {
		slog.Info("✅ Database schema is up to date", "version", current)
		return nil
	}

	slog.Info("🗄️  Running database migrations...", "from", current, "to", storage.ExpectedSchemaVersion)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("✅ Database migrations completed successfully!")
	return nil
}

type versionedStore interface {
	storage.Store
	SchemaVersion(ctx context.Context) (int, error)
}

// openVersioned opens the configured backend without migrating it.
func openVersioned(ctx context.Context, cfg *config.Config) (versionedStore, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return storage.NewPostgresStorage(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	default:
		return storage.NewSQLiteStorage(cfg.Database.Path)
	}
}
