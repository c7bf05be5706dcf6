package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/partflow/internal/cli"
	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/storage"
)

func componentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"parts"},
		Short:   "Inspect the component catalog",
	}

	cmd.AddCommand(listComponentsCmd())
	cmd.AddCommand(countComponentsCmd())

	return cmd
}

func listComponentsCmd() *cobra.Command {
	var filter storage.ComponentFilter
	var componentType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog components",
		Example: `  partflow components list --type cpu --brand AMD
  partflow components list --search "rtx 4070" --max-price 40000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter.Type = model.ComponentType(componentType)
			components, err := store.ListComponents(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(components) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No components found."))
				return nil
			}

			fmt.Println(cli.RenderComponents(components))
			return nil
		},
	}

	cmd.Flags().StringVar(&componentType, "type", "", "component type (cpu, gpu, ram, ...)")
	cmd.Flags().StringVar(&filter.Brand, "brand", "", "exact brand, case-insensitive")
	cmd.Flags().StringVar(&filter.Search, "search", "", "substring of the model name")
	cmd.Flags().Float64Var(&filter.MinPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&filter.MaxPrice, "max-price", 0, "maximum price")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum rows (0 for all)")

	return cmd
}

func countComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count catalog components per type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			counts, err := store.CountComponents(cmd.Context())
			if err != nil {
				return err
			}
			last, err := store.LastUpdated(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderCounts(counts, last))
			return nil
		},
	}
}
