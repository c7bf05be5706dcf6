package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/partflow/internal/cli"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the classification rules in effect",
		Long: `Print the category rule table: the built-in rules, or the rules file named by
ingest.rules_file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%d categories", len(catalog.Rules()))))
			fmt.Println(cli.RenderRules(catalog))
			return nil
		},
	}
}
