package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparisonSet() *ComparisonSet {
	compSet := &ComparisonSet{
		BaseScenarioName: "Base",
		ConfigPath:       "/path/to/input.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:       "Base",
			Description:        "Inputs as filed",
			TaxableBase:        decimal.NewFromFloat(6981254.4),
			SocialSecurityDebt: decimal.NewFromFloat(1418745.6),
			TotalCredits:       decimal.NewFromFloat(411254.4),
			PocketBalance:      decimal.NewFromFloat(-411254.4),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:        "minimum_coverage",
				Description:         "Partial coverage at the 47% minimum",
				TaxableBase:         decimal.NewFromFloat(7318790.4),
				SocialSecurityDebt:  decimal.NewFromFloat(1081209.6),
				TotalCredits:        decimal.NewFromFloat(748790.4),
				PocketBalance:       decimal.NewFromFloat(-748790.4),
				BalanceDiffFromBase: decimal.NewFromInt(-337536),
				DebtDiffFromBase:    decimal.NewFromInt(-337536),
			},
			{
				ScenarioName:        "custom",
				Description:         "Set salary income to 10000000",
				TaxableBase:         decimal.NewFromFloat(16981254.4),
				FinalTax:            decimal.NewFromInt(228890),
				MarginalRate:        decimal.NewFromFloat(0.04),
				TotalCredits:        decimal.NewFromFloat(411254.4),
				PocketBalance:       decimal.NewFromInt(-182364),
				BalanceDiffFromBase: decimal.NewFromInt(228890),
				TaxDiffFromBase:     decimal.NewFromInt(228890),
				BandChanged:         true,
			},
		},
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

func TestGenerateRecommendations(t *testing.T) {
	recs := sampleComparisonSet().Recommendations

	assert.Equal(t, []string{
		"Best Balance: minimum_coverage improves your settlement by $337.536",
		"Bracket Change: custom moves you from EXEMPT BRACKET (0%) to BRACKET 4%",
	}, recs)

	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &ComparisonResult{}}))
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(sampleComparisonSet())

	for _, want := range []string{
		"SETTLEMENT SCENARIO COMPARISON",
		"Base Scenario: Base",
		"Configuration: /path/to/input.yaml",
		"Base (base)",
		"-$411.254",
		"minimum_coverage: Partial coverage at the 47% minimum",
		"Settlement:       better by $337.536",
		"Settlement:       worse by $228.890",
		"Tax Impact:       +$228.890",
		"Social Security:  -$337.536",
		"Bracket:          BRACKET 4%",
		"RECOMMENDATIONS",
		"• Best Balance: minimum_coverage",
	} {
		assert.Contains(t, result, want)
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	compact := (&TableFormatter{}).FormatCompact(sampleComparisonSet())
	assert.Equal(t, "Base: Base | minimum_coverage: -$337.536 | custom: +$228.890", compact)
}

func TestTableFormatter_Truncate(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "short", tf.truncate("short", 10))
	assert.Equal(t, "a very ...", tf.truncate("a very long scenario name", 10))
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleComparisonSet())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Scenario", records[0][0])
	assert.Equal(t, []string{"Base", "base"}, records[1][:2])
	assert.Equal(t, "alternative", records[2][1])
	assert.Equal(t, "-748790.40", records[2][8])
	assert.Equal(t, "true", records[3][11])
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(sampleComparisonSet())
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Base", decoded["baseScenarioName"])
		assert.Len(t, decoded["alternativeResults"], 2)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))
	}
}

func TestJSONFormatter_WholePesos(t *testing.T) {
	out, err := (&JSONFormatter{}).Format(sampleComparisonSet())
	require.NoError(t, err)

	var doc struct {
		Base struct {
			Outcome       string `json:"outcome"`
			Band          string `json:"band"`
			PocketBalance struct {
				Pesos   int64  `json:"pesos"`
				Display string `json:"display"`
			} `json:"pocketBalance"`
			Diff *struct{} `json:"diffFromBase"`
		} `json:"baseResult"`
		Alternatives []struct {
			Name         string `json:"scenarioName"`
			Outcome      string `json:"outcome"`
			MarginalRate string `json:"marginalRate"`
			TaxableBase  struct {
				Pesos int64 `json:"pesos"`
			} `json:"taxableBase"`
			Diff struct {
				Balance struct {
					Pesos   int64  `json:"pesos"`
					Display string `json:"display"`
				} `json:"balance"`
				BandChanged bool `json:"bandChanged"`
			} `json:"diffFromBase"`
		} `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "REFUND DUE", doc.Base.Outcome)
	assert.Equal(t, "EXEMPT BRACKET (0%)", doc.Base.Band)
	assert.Equal(t, int64(-411254), doc.Base.PocketBalance.Pesos)
	assert.Equal(t, "-$411.254", doc.Base.PocketBalance.Display)
	assert.Nil(t, doc.Base.Diff, "the base has nothing to be compared against")

	require.Len(t, doc.Alternatives, 2)
	coverage := doc.Alternatives[0]
	assert.Equal(t, "minimum_coverage", coverage.Name)
	assert.Equal(t, int64(7318790), coverage.TaxableBase.Pesos)
	assert.Equal(t, int64(-337536), coverage.Diff.Balance.Pesos)
	assert.Equal(t, "-$337.536", coverage.Diff.Balance.Display)

	custom := doc.Alternatives[1]
	assert.Equal(t, "4%", custom.MarginalRate)
	assert.True(t, custom.Diff.BandChanged)
	assert.NotContains(t, out, "\\u0025", "percent signs stay unescaped")
}

func TestJSONFormatter_PayableOutcome(t *testing.T) {
	compSet := &ComparisonSet{
		BaseScenarioName: "Base",
		BaseResult: &ComparisonResult{
			ScenarioName:  "Base",
			PocketBalance: decimal.NewFromFloat(1250.6),
		},
	}

	out, err := (&JSONFormatter{}).Format(compSet)
	require.NoError(t, err)
	assert.Contains(t, out, `"outcome":"AMOUNT PAYABLE"`)
	assert.Contains(t, out, `"pesos":1251`)
	assert.Contains(t, out, `"alternativeResults":[]`)
}
