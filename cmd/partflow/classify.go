package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/partflow/internal/cli"
	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/normalize"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <product name>",
		Short: "Classify a single product name",
		Long: `Run one product name through the classifier without touching the catalog.

With --category the name is validated against that category; otherwise the
best-scoring category is detected.`,
		Example: `  partflow classify "AMD Ryzen 5 5600X 6-Core Processor" --price 10640
  partflow classify "Corsair RM850x" --category power-supply
  partflow classify "Logitech G502 HERO" --explain`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("category", "", "validate against this category instead of detecting one")
	cmd.Flags().Float64("price", 0, "price in the canonical currency (0 means unknown)")
	cmd.Flags().Bool("explain", false, "print the per-category score table")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	categoryFlag, _ := cmd.Flags().GetString("category")
	price, _ := cmd.Flags().GetFloat64("price")
	explain, _ := cmd.Flags().GetBool("explain")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	classifier, _, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	name := normalize.CleanText(strings.Join(args, " "))
	if name == "" {
		return normalize.ErrMissingName
	}
	modelText := normalize.StripBrandPrefix(name)

	category := model.Category(categoryFlag)
	if category == "" {
		detected, ok := classifier.DetectCategory(modelText, price)
		if !ok {
			fmt.Println(cli.FormatError(fmt.Sprintf("No category matched: %s", model.RejectNoMatchingSignal)))
			if explain {
				fmt.Println(cli.RenderScores(classifier.Scores(modelText, price)))
			}
			return nil
		}
		category = detected
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Detected category: %s", category)))
	}

	result := classifier.ValidateBrand(category, modelText, classifier.Brands().Extract(name), price)
	fmt.Println(cli.RenderResult(result))

	if explain {
		fmt.Println(cli.RenderScores(classifier.Scores(modelText, price)))
	}
	return nil
}
