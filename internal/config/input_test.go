package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feeEarnerYAML = `
afp: habitat
taxpayer:
  gross_fee_income: 12000000
  uta: 834000
  uf: 39720
  expense_method: presumed
  coverage_mode: partial
  partial_coverage_factor_pct: 67
  income_tax_credit: auto
  fee_withholding: 1500000
  withholding_rate_pct: 15.25
  full_withholding: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	invalidFile := writeFile(t, "invalid.yaml", "invalid: yaml: content: [unclosed")

	parser := NewInputParser()
	config, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeFile(t, "valid.yaml", feeEarnerYAML))
	require.NoError(t, err)

	in := config.Taxpayer
	assert.True(t, decimal.NewFromInt(12000000).Equal(in.GrossFeeIncome))
	assert.Equal(t, domain.PartialCoverage, in.CoverageMode)
	assert.True(t, decimal.NewFromFloat(1.27).Equal(in.AFPCommissionPct), "AFP preset should set the commission")

	assert.False(t, in.IncomeTaxCredit.IsManual())
	amount, ok := in.FeeWithholding.ManualAmount()
	assert.True(t, ok, "numeric withholding should be a manual credit")
	assert.True(t, decimal.NewFromInt(1500000).Equal(amount))

	// Defaults for omitted fields
	assert.Equal(t, domain.SimplifiedRegime, in.EntityRegime)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(in.EntityTaxRatePct))
	require.NotNil(t, config.Rules)
	assert.Equal(t, 2026, config.Rules.Metadata.TaxYear)
}

func TestInputParser_LoadFromFile_UnknownAFP(t *testing.T) {
	path := writeFile(t, "afp.yaml", "afp: nonexistent\ntaxpayer:\n  uta: 834000\n  uf: 39720\n")

	_, err := NewInputParser().LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AFP")
}

func TestInputParser_LoadFromFile_ValidationError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "taxpayer:\n  uta: 0\n  uf: 39720\n")

	config, err := NewInputParser().LoadFromFile(path)
	assert.Nil(t, config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "UTA value must be positive")
}

func TestInputParser_ApplyDefaults_SemiIntegratedRate(t *testing.T) {
	config := &domain.Configuration{
		Taxpayer: domain.TaxInputs{EntityRegime: domain.SemiIntegratedRegime},
	}
	require.NoError(t, NewInputParser().ApplyDefaults(config))
	assert.True(t, decimal.NewFromInt(27).Equal(config.Taxpayer.EntityTaxRatePct))

	// An explicit rate is kept
	config.Taxpayer.EntityTaxRatePct = decimal.NewFromInt(25)
	require.NoError(t, NewInputParser().ApplyDefaults(config))
	assert.True(t, decimal.NewFromInt(25).Equal(config.Taxpayer.EntityTaxRatePct))
}

func TestInputParser_ValidateInputs(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		mutate  func(in *domain.TaxInputs)
		errText string
	}{
		{"valid", func(in *domain.TaxInputs) {}, ""},
		{"zero UTA", func(in *domain.TaxInputs) { in.MonthlyTaxUnitValue = decimal.Zero }, "UTA value must be positive"},
		{"negative UF", func(in *domain.TaxInputs) { in.InflationUnitValue = decimal.NewFromInt(-1) }, "UF value must be positive"},
		{"negative salary", func(in *domain.TaxInputs) { in.SalaryIncome = decimal.NewFromInt(-1) }, "salary income cannot be negative"},
		{"negative savings", func(in *domain.TaxInputs) { in.VoluntarySavings = decimal.NewFromInt(-5) }, "voluntary savings cannot be negative"},
		{"coverage factor too low", func(in *domain.TaxInputs) { in.PartialCoverageFactorPct = decimal.NewFromInt(46) }, "between 47 and 100"},
		{"coverage factor too high", func(in *domain.TaxInputs) { in.PartialCoverageFactorPct = decimal.NewFromInt(101) }, "between 47 and 100"},
		{"coverage factor at bounds", func(in *domain.TaxInputs) { in.PartialCoverageFactorPct = decimal.NewFromInt(47) }, ""},
		{"full coverage ignores factor", func(in *domain.TaxInputs) {
			in.CoverageMode = domain.FullCoverage
			in.PartialCoverageFactorPct = decimal.Zero
		}, ""},
		{"unknown coverage mode", func(in *domain.TaxInputs) { in.CoverageMode = "some" }, "coverage mode"},
		{"actual amount with presumed method", func(in *domain.TaxInputs) { in.ActualExpenseAmount = decimal.NewFromInt(100) }, "only allowed with the actual expense method"},
		{"actual method", func(in *domain.TaxInputs) {
			in.ExpenseMethod = domain.ActualExpense
			in.ActualExpenseAmount = decimal.NewFromInt(2000000)
		}, ""},
		{"unknown expense method", func(in *domain.TaxInputs) { in.ExpenseMethod = "guess" }, "expense method"},
		{"unknown regime", func(in *domain.TaxInputs) { in.EntityRegime = "general" }, "entity regime"},
		{"entity rate of 100", func(in *domain.TaxInputs) { in.EntityTaxRatePct = decimal.NewFromInt(100) }, "below 100"},
		{"negative manual credit", func(in *domain.TaxInputs) { in.IncomeTaxCredit = domain.ManualCredit(decimal.NewFromInt(-1)) }, "income tax credit cannot be negative"},
		{"negative manual withholding", func(in *domain.TaxInputs) { in.FeeWithholding = domain.ManualCredit(decimal.NewFromInt(-1)) }, "fee withholding cannot be negative"},
		{"withholding rate above 100", func(in *domain.TaxInputs) { in.WithholdingRatePct = decimal.NewFromInt(101) }, "withholding rate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := CreateExampleConfiguration().Taxpayer
			tc.mutate(&in)

			err := parser.ValidateInputs(&in)
			if tc.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestInputParser_ValidateRules(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		mutate  func(r *domain.TaxYearRules)
		errText string
	}{
		{"defaults", func(r *domain.TaxYearRules) {}, ""},
		{"empty table", func(r *domain.TaxYearRules) { r.Brackets = nil }, "at least one bracket"},
		{"does not start at zero", func(r *domain.TaxYearRules) { r.Brackets[0].LowerUTA = decimal.NewFromInt(1) }, "must start at 0"},
		{"gap between rows", func(r *domain.TaxYearRules) { r.Brackets[2].LowerUTA = decimal.NewFromInt(31) }, "does not meet previous upper bound"},
		{"inverted row", func(r *domain.TaxYearRules) { r.Brackets[1].UpperUTA = decimal.NewFromInt(10) }, "must exceed lower bound"},
		{"discontinuous deduction", func(r *domain.TaxYearRules) { r.Brackets[3].DeductionUTA = decimal.NewFromInt(5) }, "discontinuous"},
		{"no sentinel", func(r *domain.TaxYearRules) { r.Brackets[len(r.Brackets)-1].UpperUTA = decimal.NewFromInt(1000) }, "last bracket must end"},
		{"zero net salary factor", func(r *domain.TaxYearRules) { r.Pension.NetSalaryFactor = decimal.Zero }, "net salary factor"},
		{"rate above one", func(r *domain.TaxYearRules) { r.Restitution.Rate = decimal.NewFromFloat(1.5) }, "restitution rate"},
		{"inverted mortgage taper", func(r *domain.TaxYearRules) { r.Mortgage.PhaseOutUTA = decimal.NewFromInt(90) }, "phase-out"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := domain.DefaultRules2026()
			tc.mutate(&rules)

			err := parser.ValidateRules(&rules)
			if tc.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestInputParser_LoadFromFileWithRules(t *testing.T) {
	parser := NewInputParser()
	input := writeFile(t, "input.yaml", feeEarnerYAML)

	rules := domain.DefaultRules2026()
	rules.Metadata.TaxYear = 2027
	rules.FeeExpenses.PresumedRate = decimal.NewFromFloat(0.28)
	rulesFile := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, SaveRules(&rules, rulesFile))

	config, err := parser.LoadFromFileWithRules(input, rulesFile)
	require.NoError(t, err)
	assert.Equal(t, 2027, config.Rules.Metadata.TaxYear)
	assert.True(t, decimal.NewFromFloat(0.28).Equal(config.Rules.FeeExpenses.PresumedRate))
	require.Len(t, config.Rules.Brackets, len(rules.Brackets))
	for i, b := range rules.Brackets {
		assert.True(t, b.UpperUTA.Equal(config.Rules.Brackets[i].UpperUTA), "bracket %d upper bound", i)
		assert.True(t, b.DeductionUTA.Equal(config.Rules.Brackets[i].DeductionUTA), "bracket %d deduction", i)
	}

	config, err = parser.LoadFromFileWithRules(input, "")
	require.NoError(t, err)
	assert.Equal(t, 2026, config.Rules.Metadata.TaxYear, "no rules file keeps the defaults")

	_, err = parser.LoadFromFileWithRules(input, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rules file")
}

func TestInputParser_LoadRulesFromFile_Invalid(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
brackets:
  - {lower: 0, upper: 10, rate: 0, deduction: 0}
  - {lower: 12, upper: 999999, rate: 0.1, deduction: 1}
pension:
  net_salary_factor: 0.815
  ceiling_uf: 87.8
mortgage_interest:
  full_benefit_uta: 90
  phase_out_uta: 150
`)

	rules, err := NewInputParser().LoadRulesFromFile(path)
	assert.Nil(t, rules)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rules validation failed")
}
