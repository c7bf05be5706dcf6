package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/partflow/internal/cli"
	"github.com/Veraticus/partflow/internal/ingest"
	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/storage"
)

func exportCmd() *cobra.Command {
	var componentType string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the catalog as a verified-products JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			components, err := store.ListComponents(cmd.Context(), storage.ComponentFilter{
				Type: model.ComponentType(componentType),
			})
			if err != nil {
				return err
			}

			if err := ingest.ExportVerified(args[0], components, time.Now()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d components to %s", len(components), args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&componentType, "type", "", "only export this component type")

	return cmd
}
