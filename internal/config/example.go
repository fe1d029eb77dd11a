package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CreateExampleConfiguration returns the calculator's default form: a fee
// earner with 12M in gross fees, partial coverage at 67%, AFP Modelo,
// presumed expenses and automatic credits
func CreateExampleConfiguration() *domain.Configuration {
	afp := "modelo"
	commission, _ := domain.LookupAFPCommission(afp)

	return &domain.Configuration{
		AFP: afp,
		Taxpayer: domain.TaxInputs{
			GrossFeeIncome:           decimal.NewFromInt(12000000),
			MonthlyTaxUnitValue:      decimal.NewFromInt(834000),
			InflationUnitValue:       decimal.NewFromInt(39720),
			ExpenseMethod:            domain.PresumedExpense,
			CoverageMode:             domain.PartialCoverage,
			PartialCoverageFactorPct: decimal.NewFromInt(67),
			EntityRegime:             domain.SimplifiedRegime,
			EntityTaxRatePct:         domain.DefaultEntityTaxRatePct(domain.SimplifiedRegime),
			IncomeTaxCredit:          domain.AutoCredit(),
			FeeWithholding:           domain.AutoCredit(),
			WithholdingRatePct:       decimal.NewFromFloat(15.25),
			FullWithholding:          true,
			AFPCommissionPct:         commission,
		},
	}
}

// SaveConfiguration writes a taxpayer configuration as YAML
func SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// SaveRules writes a rule set as YAML so it can be edited and passed back
// with --rules
func SaveRules(rules *domain.TaxYearRules, filename string) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file %s: %w", filename, err)
	}
	return nil
}
