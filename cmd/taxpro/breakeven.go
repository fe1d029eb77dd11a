package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/breakeven"
	"github.com/rgehrsitz/taxpro/internal/calculation"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [input-file]",
	Short: "Find the input value that reaches a settlement target",
	Long: `Search one input for the value that brings a settlement figure to a target,
or for the value that minimizes it.

Examples:
  # Gross fees at which the refund turns into an amount payable
  ./taxpro break-even input.yaml --param fees --min 12000000

  # Voluntary savings needed to bring the balance down to a $100.000 refund
  ./taxpro break-even input.yaml --param savings --target -100000

  # Which after-the-fact lever lowers the balance the most
  ./taxpro break-even input.yaml --goal minimize --levers savings,mortgage,coverage_factor`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		flags := cmd.Flags()
		rulesFile, _ := flags.GetString("rules")
		param, _ := flags.GetString("param")
		metric, _ := flags.GetString("metric")
		goal, _ := flags.GetString("goal")
		targetStr, _ := flags.GetString("target")
		minStr, _ := flags.GetString("min")
		maxStr, _ := flags.GetString("max")
		leversStr, _ := flags.GetString("levers")
		outputFormat, _ := flags.GetString("format")
		debugMode, _ := flags.GetBool("debug")

		cfg, err := loadConfiguration(inputFile, rulesFile)
		if err != nil {
			log.Fatal(err)
		}
		solver := breakeven.NewDefaultSolver(newEngine(cfg, debugMode))

		target, err := optionalDecimal("target", targetStr)
		if err != nil {
			log.Fatal(err)
		}
		if breakeven.OptimizationGoal(goal) == breakeven.GoalMinimize {
			target = nil
		}

		if leversStr != "" {
			result, err := solver.OptimizeMultiDimensional(context.Background(), cfg.Taxpayer,
				splitList(leversStr), breakeven.Metric(metric), breakeven.OptimizationGoal(goal), target)
			if err != nil {
				log.Fatalf("Break-even search failed: %v", err)
			}
			out, err := formatBreakEven(outputFormat,
				func(tf *breakeven.TableFormatter) string { return tf.FormatMultiDimensional(result) },
				func(jf *breakeven.JSONFormatter) (string, error) { return jf.FormatMultiDimensional(result) })
			if err != nil {
				log.Fatal(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return
		}

		minVal, err := optionalDecimal("min", minStr)
		if err != nil {
			log.Fatal(err)
		}
		maxVal, err := optionalDecimal("max", maxStr)
		if err != nil {
			log.Fatal(err)
		}

		result, err := solver.Optimize(context.Background(), breakeven.OptimizationRequest{
			Base:        cfg.Taxpayer,
			Parameter:   param,
			Metric:      breakeven.Metric(metric),
			Goal:        breakeven.OptimizationGoal(goal),
			Constraints: breakeven.Constraints{Min: minVal, Max: maxVal, Target: target},
		})
		if err != nil {
			log.Fatalf("Break-even search failed: %v", err)
		}
		out, err := formatBreakEven(outputFormat,
			func(tf *breakeven.TableFormatter) string { return tf.Format(result) },
			func(jf *breakeven.JSONFormatter) (string, error) { return jf.Format(result) })
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	},
}

// optionalDecimal parses a flag that may be left empty
func optionalDecimal(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	return &d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatBreakEven(
	format string,
	table func(*breakeven.TableFormatter) string,
	jsonFn func(*breakeven.JSONFormatter) (string, error),
) (string, error) {
	switch strings.ToLower(format) {
	case "table", "console", "":
		return table(&breakeven.TableFormatter{}), nil
	case "json":
		out, err := jsonFn(&breakeven.JSONFormatter{Pretty: true})
		if err != nil {
			return "", fmt.Errorf("failed to format JSON: %w", err)
		}
		return out + "\n", nil
	default:
		return "", fmt.Errorf("unknown output format: %s (valid: table, json)", format)
	}
}

func init() {
	breakEvenCmd.Flags().String("param", "fees", "Input to solve for ("+strings.Join(calculation.SweepParameterNames(), ", ")+")")
	breakEvenCmd.Flags().String("metric", string(breakeven.MetricPocketBalance), "Settlement figure to steer (pocket_balance, final_tax, taxable_base)")
	breakEvenCmd.Flags().String("goal", string(breakeven.GoalMatchTarget), "match_target or minimize")
	breakEvenCmd.Flags().String("target", "0", "Target value of the metric for match_target")
	breakEvenCmd.Flags().String("min", "", "Lower bound of the search (default: the input's natural range)")
	breakEvenCmd.Flags().String("max", "", "Upper bound of the search (default: the input's natural range)")
	breakEvenCmd.Flags().String("levers", "", "Comma-separated inputs to solve one by one and compare (e.g. "+strings.Join(breakeven.DefaultLevers, ",")+")")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakEvenCmd.Flags().String("rules", "", "Path to a tax year rules file")
	breakEvenCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(breakEvenCmd)
}
