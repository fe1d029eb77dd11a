package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/taxpro/internal/compare"
	"github.com/rgehrsitz/taxpro/internal/config"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, config.SaveConfiguration(config.CreateExampleConfiguration(), path))
	return path
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "taxpro", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	out := execute(t, "--help")
	assert.Contains(t, out, "calculate")
}

func TestCommandSubcommands(t *testing.T) {
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range []string{"calculate", "validate", "example", "rules", "sweep", "compare", "break-even", "version"} {
		assert.True(t, registered[name], "command %s should be registered", name)
	}
}

func TestExampleAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")

	out := execute(t, "example", path)
	assert.Contains(t, out, "Example configuration saved to")
	assert.FileExists(t, path)

	out = execute(t, "validate", path, "--rules", "")
	assert.Contains(t, out, "is valid")
}

func TestCalculate_Console(t *testing.T) {
	path := writeExample(t)

	out := execute(t, "calculate", path, "--format", "console", "--rules", "", "--save=false")
	assert.Contains(t, out, "ANNUAL INCOME TAX SETTLEMENT (AT 2026)")
	assert.Contains(t, out, "REFUND DUE")
}

func TestCalculate_JSON(t *testing.T) {
	path := writeExample(t)

	out := execute(t, "calculate", path, "--format", "json", "--rules", "", "--save=false")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.EqualValues(t, 2026, doc["tax_year"])
	assert.Equal(t, "REFUND DUE", doc["outcome"])
	assert.Len(t, doc["stages"], 4)
}

func TestCalculate_WithRulesFile(t *testing.T) {
	path := writeExample(t)
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")

	out := execute(t, "rules", rulesPath)
	assert.Contains(t, out, "Rules for AT 2026 saved to")

	rules := domain.DefaultRules2026()
	rules.Metadata.TaxYear = 2027
	require.NoError(t, config.SaveRules(&rules, rulesPath))

	out = execute(t, "calculate", path, "--format", "console", "--rules", rulesPath, "--save=false")
	assert.Contains(t, out, "(AT 2027)")
}

func TestCalculate_Save(t *testing.T) {
	path := writeExample(t)
	chdir(t, t.TempDir())

	out := execute(t, "calculate", path, "--format", "csv", "--rules", "", "--save")
	assert.Contains(t, out, "Report saved to tax_settlement_")

	matches, err := filepath.Glob("tax_settlement_*.csv")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Stage,Step,Label,Amount"))
}

func TestSweep(t *testing.T) {
	path := writeExample(t)

	out := execute(t, "sweep", path, "--param", "fees", "--from", "0", "--to", "40000000", "--steps", "4", "--format", "csv", "--rules", "")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "fees,TaxableBase"))
	assert.True(t, strings.HasPrefix(lines[1], "0,"))
}

func TestCompare(t *testing.T) {
	path := writeExample(t)

	out := execute(t, "compare", path, "--with", "full_coverage,minimum_coverage", "--format", "table", "--rules", "", "--list-templates=false")
	assert.Contains(t, out, "SETTLEMENT SCENARIO COMPARISON")
	assert.Contains(t, out, "Configuration: "+path)
	assert.Contains(t, out, "Best Balance: minimum_coverage")

	out = execute(t, "compare", "--list-templates")
	assert.Contains(t, out, "Available Templates:")
	assert.Contains(t, out, "cheapest_afp")
}

func TestFormatComparison(t *testing.T) {
	compSet := &compare.ComparisonSet{
		BaseScenarioName: "Base",
		BaseResult:       &compare.ComparisonResult{ScenarioName: "Base"},
	}

	for _, format := range []string{"table", "console", "", "compact", "csv", "json", "JSON"} {
		out, err := formatComparison(compSet, format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, out, format)
	}

	_, err := formatComparison(compSet, "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestBreakEven(t *testing.T) {
	path := writeExample(t)

	out := execute(t, "break-even", path, "--param", "coverage_factor", "--goal", "minimize",
		"--min", "", "--max", "", "--levers", "", "--format", "table")
	assert.Contains(t, out, "BREAK-EVEN SOLVER RESULTS")
	assert.Contains(t, out, "coverage_factor:     47% (now 67%)")

	out = execute(t, "break-even", path, "--goal", "minimize", "--levers", "coverage_factor,afp_commission", "--format", "json")
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "minimize", doc["goal"])
	assert.Len(t, doc["results"], 2)
}

func TestOptionalDecimal(t *testing.T) {
	v, err := optionalDecimal("min", "")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = optionalDecimal("min", "-1500.5")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "-1500.5", v.String())

	_, err = optionalDecimal("max", "lots")
	assert.ErrorContains(t, err, "invalid --max value")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"savings", "mortgage"}, splitList(" savings, ,mortgage "))
	assert.Nil(t, splitList(""))
}

func TestParseSweepParameter(t *testing.T) {
	p, err := parseSweepParameter("salary", "1000", "2000", 5)
	require.NoError(t, err)
	assert.Equal(t, "salary", p.Name)
	assert.Equal(t, "1000", p.From.String())
	assert.Equal(t, 5, p.Steps)

	_, err = parseSweepParameter("salary", "0", "", 5)
	assert.ErrorContains(t, err, "--to is required")

	_, err = parseSweepParameter("salary", "abc", "10", 5)
	assert.ErrorContains(t, err, "invalid --from")

	_, err = parseSweepParameter("salary", "0", "ten", 5)
	assert.ErrorContains(t, err, "invalid --to")
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, "json", formatExtension("JSON"))
	assert.Equal(t, "html", formatExtension("html"))
	assert.Equal(t, "pdf", formatExtension("pdf"))
	assert.Equal(t, "txt", formatExtension("console"))
	assert.Equal(t, "txt", formatExtension("cards"))
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "taxpro dev")
}
