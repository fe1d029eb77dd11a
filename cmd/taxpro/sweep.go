package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/calculation"
	"github.com/rgehrsitz/taxpro/internal/config"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [input-file]",
	Short: "Sweep one input across a range and compare settlements",
	Long: `Settle the input repeatedly while one parameter moves across a linear range.

Examples:
  # How the balance moves as gross fees grow
  ./taxpro sweep input.yaml --param fees --from 0 --to 40000000 --steps 8

  # Coverage factor from the minimum to full, as CSV
  ./taxpro sweep input.yaml --param coverage_factor --from 47 --to 100 --steps 53 --format csv`,
	Args: cobra.ExactArgs(1),
	Run:  runSweep,
}

var (
	sweepParam  string
	sweepFrom   string
	sweepTo     string
	sweepSteps  int
	sweepFormat string
	sweepRules  string
)

func init() {
	sweepCmd.Flags().StringVar(&sweepParam, "param", "fees", "Parameter to sweep ("+strings.Join(calculation.SweepParameterNames(), ", ")+")")
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "0", "Start of the range")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "End of the range (required)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "Number of intervals; the sweep settles steps+1 points")
	sweepCmd.Flags().StringVarP(&sweepFormat, "format", "f", "console", "Output format (console, csv)")
	sweepCmd.Flags().StringVar(&sweepRules, "rules", "", "Path to a tax year rules file")
	sweepCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(sweepCmd)
}

// parseSweepParameter turns the command flags into a sweep definition
func parseSweepParameter(name, from, to string, steps int) (domain.SweepParameter, error) {
	if to == "" {
		return domain.SweepParameter{}, fmt.Errorf("--to is required")
	}
	lo, err := decimal.NewFromString(from)
	if err != nil {
		return domain.SweepParameter{}, fmt.Errorf("invalid --from value %q: %w", from, err)
	}
	hi, err := decimal.NewFromString(to)
	if err != nil {
		return domain.SweepParameter{}, fmt.Errorf("invalid --to value %q: %w", to, err)
	}
	return domain.SweepParameter{Name: name, From: lo, To: hi, Steps: steps}, nil
}

func runSweep(cmd *cobra.Command, args []string) {
	inputFile := args[0]
	debugMode, _ := cmd.Flags().GetBool("debug")

	cfg, err := loadConfiguration(inputFile, sweepRules)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	parameter, err := parseSweepParameter(sweepParam, sweepFrom, sweepTo, sweepSteps)
	if err != nil {
		log.Fatal(err)
	}

	formatter := output.GetSweepFormatterByName(sweepFormat)
	if formatter == nil {
		log.Fatalf("Unknown output format: %s (valid: console, csv)", sweepFormat)
	}

	analyzer := calculation.NewSweepAnalyzer(newEngine(cfg, debugMode), config.NewInputParser())
	analysis, err := analyzer.Analyze(cfg.Taxpayer, parameter)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	data, err := formatter.FormatSweep(analysis)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
}
