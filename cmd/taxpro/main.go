package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/calculation"
	"github.com/rgehrsitz/taxpro/internal/config"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxpro %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "taxpro",
	Short: "Chilean Annual Income Tax Settlement Calculator",
	Long: `Annual income tax settlement (Operación Renta AT 2026) for salaried workers
and fee earners: social security debt, taxable base, global complementary
tax and the final refund or amount payable.`,
}

// loadConfiguration reads an input file and, when rulesFile is set, swaps in
// the rule set it holds
func loadConfiguration(inputFile, rulesFile string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	return parser.LoadFromFileWithRules(inputFile, rulesFile)
}

// newEngine builds a settlement engine for the configuration's rule set
func newEngine(cfg *domain.Configuration, debugMode bool) *calculation.SettlementEngine {
	engine := calculation.NewSettlementEngineWithRules(*cfg.Rules)
	if debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// formatNames lists every format and alias calculate accepts
func formatNames() string {
	return strings.Join(append(output.AvailableFormats(), output.AvailableFormatAliases()...), ", ")
}

// formatExtension picks the file extension used when a report is saved
func formatExtension(name string) string {
	switch strings.ToLower(name) {
	case "json", "csv", "html", "pdf":
		return strings.ToLower(name)
	default:
		return "txt"
	}
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Calculate the annual settlement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		rulesFile, _ := cmd.Flags().GetString("rules")
		debugMode, _ := cmd.Flags().GetBool("debug")
		outputFormat, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")

		cfg, err := loadConfiguration(inputFile, rulesFile)
		if err != nil {
			log.Fatal(err)
		}

		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			log.Fatalf("Unknown output format: %s (valid: %s)", outputFormat, formatNames())
		}

		report := newEngine(cfg, debugMode).Report(cfg.Taxpayer)

		if save {
			path, err := output.WriteFormatted(f, report, formatExtension(outputFormat))
			if err != nil {
				log.Fatal(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
			return
		}

		data, err := f.Format(report)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		rulesFile, _ := cmd.Flags().GetString("rules")

		if _, err := loadConfiguration(inputFile, rulesFile); err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", inputFile)
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Generate an example configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outputFile := args[0]

		if err := config.SaveConfiguration(config.CreateExampleConfiguration(), outputFile); err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration saved to %s\n", outputFile)
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules [output-file]",
	Short: "Write the built-in AT 2026 rule set for editing",
	Long: `Write the built-in rule set (bracket table, pension rates, caps) as YAML.
Edit it and pass it back with --rules to settle under a different tax year.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outputFile := args[0]

		rules := domain.DefaultRules2026()
		if err := config.SaveRules(&rules, outputFile); err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rules for AT %d saved to %s\n", rules.Metadata.TaxYear, outputFile)
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+formatNames()+")")
	calculateCmd.Flags().String("rules", "", "Path to a tax year rules file (default: built-in AT 2026 rules)")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	calculateCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")

	validateCmd.Flags().String("rules", "", "Path to a tax year rules file to validate with the input")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
