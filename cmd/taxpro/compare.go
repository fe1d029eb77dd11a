package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/compare"
	"github.com/rgehrsitz/taxpro/internal/transform"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare the settlement against what-if alternatives",
	Long: `Compare the settlement of an input file against alternative choices.

Examples:
  ./taxpro compare input.yaml --with full_coverage,max_savings
  ./taxpro compare input.yaml --with minimum_contributions --format csv
  ./taxpro compare input.yaml --transform set_income:source=fees,amount=20000000 --transform set_afp:name=uno
  ./taxpro compare --list-templates  # Show all available templates
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		listTemplates, _ := cmd.Flags().GetBool("list-templates")
		if listTemplates {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return
		}

		if len(args) == 0 {
			log.Fatal("input file required for comparison (use --list-templates to see available templates)")
		}
		inputFile := args[0]

		rulesFile, _ := cmd.Flags().GetString("rules")
		templatesStr, _ := cmd.Flags().GetString("with")
		transformSpecs, _ := cmd.Flags().GetStringArray("transform")
		baseName, _ := cmd.Flags().GetString("base")
		outputFormat, _ := cmd.Flags().GetString("format")
		debugMode, _ := cmd.Flags().GetBool("debug")

		cfg, err := loadConfiguration(inputFile, rulesFile)
		if err != nil {
			log.Fatal(err)
		}

		compareEngine := compare.NewCompareEngine(newEngine(cfg, debugMode))
		comparisonSet, err := compareEngine.Compare(context.Background(), cfg.Taxpayer, compare.CompareOptions{
			BaseScenarioName: baseName,
			Templates:        transform.ParseTemplateList(templatesStr),
			Transforms:       transformSpecs,
		})
		if err != nil {
			log.Fatalf("Comparison failed: %v", err)
		}
		comparisonSet.ConfigPath = inputFile

		out, err := formatComparison(comparisonSet, outputFormat)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	},
}

// formatComparison renders a comparison set in the named format
func formatComparison(comparisonSet *compare.ComparisonSet, format string) (string, error) {
	switch strings.ToLower(format) {
	case "csv":
		formatter := &compare.CSVFormatter{}
		out, err := formatter.Format(comparisonSet)
		if err != nil {
			return "", fmt.Errorf("failed to format CSV: %w", err)
		}
		return out, nil

	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		out, err := formatter.Format(comparisonSet)
		if err != nil {
			return "", fmt.Errorf("failed to format JSON: %w", err)
		}
		return out + "\n", nil

	case "compact":
		formatter := &compare.TableFormatter{}
		return formatter.FormatCompact(comparisonSet) + "\n", nil

	case "table", "console", "":
		formatter := &compare.TableFormatter{}
		return formatter.Format(comparisonSet), nil

	default:
		return "", fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
	}
}

func init() {
	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().StringArray("transform", nil, "Transform spec (name:key=value,...); repeated specs form one custom scenario")
	compareCmd.Flags().String("base", compare.DefaultBaseScenarioName, "Label for the unmodified inputs")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().String("rules", "", "Path to a tax year rules file")
	compareCmd.Flags().Bool("list-templates", false, "List all available what-if templates")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(compareCmd)
}
