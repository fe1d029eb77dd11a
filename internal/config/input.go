package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	minCoverageFactor = decimal.NewFromInt(47)
	maxCoverageFactor = decimal.NewFromInt(100)
	maxPercent        = decimal.NewFromInt(100)
	// bracketContinuityTolerance absorbs the two-decimal rounding of
	// published deduction factors
	bracketContinuityTolerance = decimal.NewFromFloat(0.01)
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a taxpayer configuration from a YAML file. The result
// always carries a rule set: the inline one if present, otherwise the
// AT 2026 defaults.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ApplyDefaults(&config); err != nil {
		return nil, err
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadRulesFromFile loads and validates a tax year rule set
func (ip *InputParser) LoadRulesFromFile(filename string) (*domain.TaxYearRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	var rules domain.TaxYearRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	if err := ip.ValidateRules(&rules); err != nil {
		return nil, fmt.Errorf("rules validation failed: %w", err)
	}

	return &rules, nil
}

// LoadFromFileWithRules loads a taxpayer configuration and replaces its rule
// set with the one in rulesFile. An empty rulesFile behaves like LoadFromFile.
func (ip *InputParser) LoadFromFileWithRules(filename, rulesFile string) (*domain.Configuration, error) {
	config, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, err
	}
	if rulesFile == "" {
		return config, nil
	}

	rules, err := ip.LoadRulesFromFile(rulesFile)
	if err != nil {
		return nil, err
	}
	config.Rules = rules
	return config, nil
}

// ApplyDefaults fills the values an input file may leave out: the AFP preset,
// the regime's entity tax rate, the enum defaults and the rule set
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) error {
	in := &config.Taxpayer

	if config.AFP != "" {
		pct, ok := domain.LookupAFPCommission(config.AFP)
		if !ok {
			return fmt.Errorf("unknown AFP %q (known: %v)", config.AFP, domain.AFPNames())
		}
		in.AFPCommissionPct = pct
	}

	if in.ExpenseMethod == "" {
		in.ExpenseMethod = domain.PresumedExpense
	}
	if in.CoverageMode == "" {
		in.CoverageMode = domain.FullCoverage
	}
	if in.EntityRegime == "" {
		in.EntityRegime = domain.SimplifiedRegime
	}
	in.EntityTaxRatePct = domain.EntityTaxRateOrDefault(in.EntityRegime, in.EntityTaxRatePct)

	if config.Rules == nil {
		rules := domain.DefaultRules2026()
		config.Rules = &rules
	}
	return nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.ValidateInputs(&config.Taxpayer); err != nil {
		return fmt.Errorf("taxpayer validation failed: %w", err)
	}
	if config.Rules != nil {
		if err := ip.ValidateRules(config.Rules); err != nil {
			return fmt.Errorf("rules validation failed: %w", err)
		}
	}
	return nil
}

// ValidateInputs enforces the preconditions the settlement engine relies on
func (ip *InputParser) ValidateInputs(in *domain.TaxInputs) error {
	if !in.MonthlyTaxUnitValue.IsPositive() {
		return fmt.Errorf("UTA value must be positive")
	}
	if !in.InflationUnitValue.IsPositive() {
		return fmt.Errorf("UF value must be positive")
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"salary income", in.SalaryIncome},
		{"gross fee income", in.GrossFeeIncome},
		{"withdrawals", in.Withdrawals},
		{"other income", in.OtherIncome},
		{"mortgage interest", in.MortgageInterest},
		{"voluntary savings", in.VoluntarySavings},
		{"actual expense amount", in.ActualExpenseAmount},
		{"AFP commission", in.AFPCommissionPct},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", a.name)
		}
	}

	if err := ip.validateExpense(in); err != nil {
		return err
	}
	if err := ip.validateCoverage(in); err != nil {
		return err
	}
	if err := ip.validateEntity(in); err != nil {
		return err
	}
	return ip.validateCredits(in)
}

func (ip *InputParser) validateExpense(in *domain.TaxInputs) error {
	switch in.ExpenseMethod {
	case domain.PresumedExpense:
		if !in.ActualExpenseAmount.IsZero() {
			return fmt.Errorf("actual expense amount is only allowed with the actual expense method")
		}
	case domain.ActualExpense:
	default:
		return fmt.Errorf("expense method must be 'presumed' or 'actual', got %q", in.ExpenseMethod)
	}
	return nil
}

func (ip *InputParser) validateCoverage(in *domain.TaxInputs) error {
	switch in.CoverageMode {
	case domain.FullCoverage:
	case domain.PartialCoverage:
		f := in.PartialCoverageFactorPct
		if f.LessThan(minCoverageFactor) || f.GreaterThan(maxCoverageFactor) {
			return fmt.Errorf("partial coverage factor must be between 47 and 100, got %s", f)
		}
	default:
		return fmt.Errorf("coverage mode must be 'full' or 'partial', got %q", in.CoverageMode)
	}
	return nil
}

func (ip *InputParser) validateEntity(in *domain.TaxInputs) error {
	if in.EntityRegime != domain.SimplifiedRegime && in.EntityRegime != domain.SemiIntegratedRegime {
		return fmt.Errorf("entity regime must be 'simplified' or 'semi_integrated', got %q", in.EntityRegime)
	}
	if in.EntityTaxRatePct.IsNegative() || in.EntityTaxRatePct.GreaterThanOrEqual(maxPercent) {
		return fmt.Errorf("entity tax rate must be at least 0 and below 100, got %s", in.EntityTaxRatePct)
	}
	return nil
}

func (ip *InputParser) validateCredits(in *domain.TaxInputs) error {
	if amount, ok := in.IncomeTaxCredit.ManualAmount(); ok && amount.IsNegative() {
		return fmt.Errorf("manual income tax credit cannot be negative")
	}
	if amount, ok := in.FeeWithholding.ManualAmount(); ok && amount.IsNegative() {
		return fmt.Errorf("manual fee withholding cannot be negative")
	}
	if in.WithholdingRatePct.IsNegative() || in.WithholdingRatePct.GreaterThan(maxPercent) {
		return fmt.Errorf("withholding rate must be between 0 and 100, got %s", in.WithholdingRatePct)
	}
	return nil
}

// ValidateRules checks the bracket schedule and the fixed rates of a rule set
func (ip *InputParser) ValidateRules(rules *domain.TaxYearRules) error {
	if err := ip.validateBrackets(rules.Brackets); err != nil {
		return fmt.Errorf("bracket table: %w", err)
	}

	p := rules.Pension
	if !p.NetSalaryFactor.IsPositive() {
		return fmt.Errorf("net salary factor must be positive")
	}
	if !p.CeilingUF.IsPositive() {
		return fmt.Errorf("pension ceiling must be positive")
	}
	for name, rate := range map[string]decimal.Decimal{
		"fee creditable share":  p.FeeCreditableShare,
		"insurance rate":        p.InsuranceRate,
		"health rate":           p.HealthRate,
		"retirement rate":       p.RetirementRate,
		"presumed expense rate": rules.FeeExpenses.PresumedRate,
		"restitution rate":      rules.Restitution.Rate,
	} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s must be between 0 and 1, got %s", name, rate)
		}
	}

	if rules.FeeExpenses.PresumedCapUTA.IsNegative() {
		return fmt.Errorf("presumed expense cap cannot be negative")
	}
	m := rules.Mortgage
	if m.CapUTA.IsNegative() {
		return fmt.Errorf("mortgage interest cap cannot be negative")
	}
	if !m.PhaseOutUTA.GreaterThan(m.FullBenefitUTA) {
		return fmt.Errorf("mortgage phase-out threshold must be above the full-benefit threshold")
	}
	if rules.Savings.CapUF.IsNegative() {
		return fmt.Errorf("voluntary savings cap cannot be negative")
	}
	return nil
}

// validateBrackets requires rows that start at 0, share their boundaries,
// end at the sentinel and give the same tax on both sides of each boundary
func (ip *InputParser) validateBrackets(table domain.BracketTable) error {
	if len(table) == 0 {
		return fmt.Errorf("at least one bracket is required")
	}
	if !table[0].LowerUTA.IsZero() {
		return fmt.Errorf("first bracket must start at 0, got %s", table[0].LowerUTA)
	}

	for i, b := range table {
		if !b.UpperUTA.GreaterThan(b.LowerUTA) {
			return fmt.Errorf("bracket %d: upper bound %s must exceed lower bound %s", i, b.UpperUTA, b.LowerUTA)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate must be at least 0 and below 1, got %s", i, b.Rate)
		}
		if b.DeductionUTA.IsNegative() {
			return fmt.Errorf("bracket %d: deduction cannot be negative", i)
		}
		if i == 0 {
			continue
		}

		prev := table[i-1]
		if !b.LowerUTA.Equal(prev.UpperUTA) {
			return fmt.Errorf("bracket %d: lower bound %s does not meet previous upper bound %s", i, b.LowerUTA, prev.UpperUTA)
		}
		if !b.Rate.GreaterThan(prev.Rate) {
			return fmt.Errorf("bracket %d: rate %s must exceed previous rate %s", i, b.Rate, prev.Rate)
		}
		edge := b.LowerUTA
		below := edge.Mul(prev.Rate).Sub(prev.DeductionUTA)
		above := edge.Mul(b.Rate).Sub(b.DeductionUTA)
		if below.Sub(above).Abs().GreaterThan(bracketContinuityTolerance) {
			return fmt.Errorf("bracket %d: tax is discontinuous at %s UTA (%s vs %s)", i, edge, below, above)
		}
	}

	if last := table[len(table)-1]; !last.UpperUTA.Equal(domain.BracketSentinelUTA) {
		return fmt.Errorf("last bracket must end at %s, got %s", domain.BracketSentinelUTA, last.UpperUTA)
	}
	return nil
}
