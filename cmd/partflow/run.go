package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/partflow/internal/cli"
	"github.com/Veraticus/partflow/internal/common"
	"github.com/Veraticus/partflow/internal/ingest"
	"github.com/Veraticus/partflow/internal/metrics"
	"github.com/Veraticus/partflow/internal/storage"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest a source directory into the catalog",
		Long: `Read every *.json file in the source directory, classify and normalize each
record, and upsert the accepted components in batches.

Malformed files and records are skipped and counted. A failed batch is rolled
back on its own; the other batches still commit. Rerunning over the same
source leaves the catalog unchanged.`,
		Example: `  # Ingest the configured source directory
  partflow run

  # Preview a new scrape without writing anything
  partflow run --source ./scrapes/2024-06 --dry-run

  # Only run when the catalog has not been refreshed this week
  partflow run --if-stale --snapshot`,
		RunE: runIngest,
	}

	cmd.Flags().String("source", "", "source directory (overrides ingest.source_dir)")
	cmd.Flags().Bool("dry-run", false, "classify and report without persisting")
	cmd.Flags().Bool("json", false, "print the run report as JSON")
	cmd.Flags().Bool("if-stale", false, "skip the run if the catalog was refreshed this week")
	cmd.Flags().Bool("snapshot", false, "snapshot the catalog before persisting (sqlite only)")
	cmd.Flags().String("export", "", "write accepted components to this JSON file")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics for the textfile collector")
	cmd.Flags().Int("workers", 0, "files parsed concurrently (overrides ingest.workers)")
	cmd.Flags().Int("batch-size", 0, "records per transaction (overrides ingest.batch_size)")

	_ = viper.BindPFlag("ingest.source_dir", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("ingest.export_path", cmd.Flags().Lookup("export"))
	_ = viper.BindPFlag("metrics.textfile", cmd.Flags().Lookup("metrics-file"))
	_ = viper.BindPFlag("ingest.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("ingest.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runIngest(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")
	ifStale, _ := cmd.Flags().GetBool("if-stale")
	snapshot, _ := cmd.Flags().GetBool("snapshot")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	classifier, normalizer, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var (
		store  storage.Store
		writer *storage.CatalogWriter
	)
	if !dryRun || ifStale {
		store, err = initStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	if ifStale {
		last, err := store.LastUpdated(ctx)
		if err != nil {
			return err
		}
		if !ingest.NeedsRefresh(last, time.Now()) {
			slog.Info("Catalog is fresh, skipping run", "last_updated", last)
			if !asJSON {
				_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Catalog already refreshed this week (%s)", last.Local().Format("2006-01-02 15:04"))))
			}
			return nil
		}
	}

	if !dryRun {
		if snapshot {
			if err := takeSnapshot(ctx, store, out); err != nil {
				return err
			}
		}
		writer = storage.NewCatalogWriter(store, cfg.Ingest.BatchSize)
	}

	pipeline := ingest.New(classifier, normalizer, writer, ingest.Options{
		SourceDir: cfg.Ingest.SourceDir,
		Currency:  cfg.Currency.Code,
		Workers:   cfg.Ingest.Workers,
		DryRun:    dryRun,
	})
	if !asJSON {
		pipeline.SetObserver(cli.NewProgressObserver(os.Stderr))
	}

	handler := cli.NewInterruptHandler(os.Stderr)
	runCtx := handler.HandleInterrupts(ctx, !dryRun)

	report, runErr := pipeline.Run(runCtx)
	if report == nil {
		return runErr
	}

	if store != nil && !dryRun {
		record, err := report.Record()
		if err != nil {
			return err
		}
		// The audit row is written even after an interrupt.
		if err := store.RecordRun(context.WithoutCancel(ctx), record); err != nil {
			common.LogError(err, "Failed to record run", common.Fields{"run_id": report.ID})
		}
	}

	if cfg.Metrics.Textfile != "" {
		recorder := metrics.New()
		recorder.Observe(report, runErr == nil)
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			common.LogError(err, "Failed to write metrics", common.Fields{"path": cfg.Metrics.Textfile})
		}
	}

	if runErr == nil && cfg.Ingest.ExportPath != "" {
		if err := ingest.ExportVerified(cfg.Ingest.ExportPath, report.Components, report.FinishedAt); err != nil {
			return err
		}
		slog.Info("Exported accepted components", "path", cfg.Ingest.ExportPath, "count", len(report.Components))
	}

	if asJSON {
		data, err := report.JSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else {
		_, _ = fmt.Fprintln(out, cli.RenderReport(report))
	}

	if runErr != nil {
		return runErr
	}
	if report.Stats.FailedBatches > 0 {
		return fmt.Errorf("%d of %d batches failed", report.Stats.FailedBatches, len(report.Batches))
	}
	return nil
}

func takeSnapshot(ctx context.Context, store storage.Store, out io.Writer) error {
	manager, err := snapshotManager(store)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedDriver) {
			slog.Warn("Skipping pre-run snapshot", "reason", err)
			return nil
		}
		return err
	}

	info, err := manager.Create(ctx, "", "before ingestion run")
	if err != nil {
		return fmt.Errorf("failed to snapshot catalog: %w", err)
	}
	_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Snapshot %s saved (%s)", info.ID, formatFileSize(info.FileSize))))
	return nil
}
