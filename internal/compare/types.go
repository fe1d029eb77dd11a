package compare

import (
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one settled scenario with its metrics
type ComparisonResult struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description"`

	Result *domain.SettlementResult `json:"-"`

	// Key Metrics
	GrossIncome        decimal.Decimal `json:"grossIncome"`
	SocialSecurityDebt decimal.Decimal `json:"socialSecurityDebt"`
	TaxableBase        decimal.Decimal `json:"taxableBase"`
	FinalTax           decimal.Decimal `json:"finalTax"`
	MarginalRate       decimal.Decimal `json:"marginalRate"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	PocketBalance      decimal.Decimal `json:"pocketBalance"`

	// Comparison to Base. A negative balance difference means more money
	// back (or less to pay) than the base.
	BalanceDiffFromBase decimal.Decimal `json:"balanceDiffFromBase"`
	TaxDiffFromBase     decimal.Decimal `json:"taxDiffFromBase"`
	DebtDiffFromBase    decimal.Decimal `json:"debtDiffFromBase"`
	BandChanged         bool            `json:"bandChanged"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from settlements
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics of one settlement
func (mc *MetricsCalculator) CalculateMetrics(name string, r *domain.SettlementResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:       name,
		Result:             r,
		GrossIncome:        r.GrossIncome,
		SocialSecurityDebt: r.SocialSecurityDebt,
		TaxableBase:        r.TaxableBase,
		FinalTax:           r.FinalTax,
		MarginalRate:       r.MarginalRate,
		TotalCredits:       r.TotalCredits,
		PocketBalance:      r.PocketBalance,
	}
}

// CalculateComparison computes the differences between a scenario and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.BalanceDiffFromBase = scenario.PocketBalance.Sub(base.PocketBalance)
	scenario.TaxDiffFromBase = scenario.FinalTax.Sub(base.FinalTax)
	scenario.DebtDiffFromBase = scenario.SocialSecurityDebt.Sub(base.SocialSecurityDebt)
	scenario.BandChanged = !scenario.MarginalRate.Equal(base.MarginalRate)
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}
	base := compSet.BaseResult

	// Best balance: the lowest pocket balance is the biggest refund
	bestBalance := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.PocketBalance.LessThan(bestBalance.PocketBalance) {
			bestBalance = alt
		}
	}

	if bestBalance != base {
		gain := base.PocketBalance.Sub(bestBalance.PocketBalance)
		recommendations = append(recommendations,
			"Best Balance: "+bestBalance.ScenarioName+" improves your settlement by "+output.FormatPesos(gain))
	}

	// Lowest final tax
	lowestTax := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalTax.LessThan(lowestTax.FinalTax) {
			lowestTax = alt
		}
	}

	if lowestTax != base {
		savings := base.FinalTax.Sub(lowestTax.FinalTax)
		recommendations = append(recommendations,
			"Lowest Tax: "+lowestTax.ScenarioName+" saves "+output.FormatPesos(savings)+" in global complementary tax")
	}

	for _, alt := range compSet.AlternativeResults {
		if alt.BandChanged {
			recommendations = append(recommendations,
				fmt.Sprintf("Bracket Change: %s moves you from %s to %s",
					alt.ScenarioName, output.BandLabel(base.MarginalRate), output.BandLabel(alt.MarginalRate)))
		}
	}

	return recommendations
}
