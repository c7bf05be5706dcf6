package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/partflow/internal/cli"
	"github.com/Veraticus/partflow/internal/storage"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage catalog snapshots",
		Long: `Create, list, restore, and delete copies of the SQLite catalog.

Take a snapshot before ingesting an unfamiliar scrape so a bad import can be
rolled back wholesale.`,
		Example: `  # Snapshot before a risky import
  partflow snapshot create --tag pre-june-scrape

  # Roll back
  partflow snapshot restore pre-june-scrape`,
	}

	cmd.AddCommand(createSnapshotCmd())
	cmd.AddCommand(listSnapshotsCmd())
	cmd.AddCommand(restoreSnapshotCmd())
	cmd.AddCommand(deleteSnapshotCmd())

	return cmd
}

func openSnapshots(cmd *cobra.Command) (storage.Store, *storage.SnapshotManager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	manager, err := snapshotManager(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, manager, nil
}

func findSnapshot(cmd *cobra.Command, manager *storage.SnapshotManager, id string) (*storage.SnapshotInfo, error) {
	snapshots, err := manager.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	for i := range snapshots {
		if snapshots[i].ID == id {
			return &snapshots[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrSnapshotNotFound, id)
}

func createSnapshotCmd() *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, manager, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info, err := manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create snapshot: %w", err)
			}

			fmt.Printf("%s Created snapshot %s (%s, %d components)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize),
				info.Components)
			if info.Description != "" {
				fmt.Printf("  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Snapshot name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the snapshot")

	return cmd
}

func listSnapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, manager, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snapshots, err := manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}
			if len(snapshots) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No snapshots found."))
				return nil
			}

			rows := make([][]string, len(snapshots))
			for i, s := range snapshots {
				rows[i] = []string{
					cli.InfoStyle.Render(s.ID),
					formatRelativeTime(s.CreatedAt),
					formatFileSize(s.FileSize),
					fmt.Sprint(s.Components),
					fmt.Sprint(s.Runs),
					s.Description,
				}
			}
			fmt.Println(cli.RenderTable([]string{"Name", "Created", "Size", "Components", "Runs", "Description"}, rows))
			return nil
		},
	}
}

func restoreSnapshotCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Replace the catalog with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			store, manager, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			// Restore closes the database itself; a second Close is harmless.
			defer func() { _ = store.Close() }()

			info, err := findSnapshot(cmd, manager, id)
			if err != nil {
				return err
			}

			if !force {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("This will replace the current catalog with snapshot %s.", cli.InfoStyle.Render(id))))
				fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					fmt.Printf("  Description: %s\n", info.Description)
				}

				ok, err := cli.NewNonBlockingReader(os.Stdin).Confirm(cmd.Context(), os.Stdout, "\nContinue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.SubtleStyle.Render("Restore cancelled."))
					return nil
				}
			}

			if err := manager.Restore(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to restore snapshot: %w", err)
			}

			fmt.Printf("%s Restored from snapshot %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteSnapshotCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			store, manager, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info, err := findSnapshot(cmd, manager, id)
			if err != nil {
				return err
			}

			if !force {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("This will permanently delete snapshot %s (%s).", cli.InfoStyle.Render(id), formatFileSize(info.FileSize))))
				ok, err := cli.NewNonBlockingReader(os.Stdin).Confirm(cmd.Context(), os.Stdout, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.SubtleStyle.Render("Deletion cancelled."))
					return nil
				}
			}

			if err := manager.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete snapshot: %w", err)
			}

			fmt.Printf("%s Deleted snapshot %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute")
	case duration < 24*time.Hour:
		return plural(int(duration.Hours()), "hour")
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
