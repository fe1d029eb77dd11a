package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUTA = decimal.NewFromInt(834000)

func utas(units float64) decimal.Decimal {
	return decimal.NewFromFloat(units).Mul(testUTA)
}

func TestEvaluateBracket_ZeroBaseUsesExplicitDefaults(t *testing.T) {
	eval := EvaluateBracket(decimal.Zero, testUTA, domain.DefaultBrackets2026())

	assert.True(t, eval.Amount.IsZero(), "Zero base should owe nothing")
	assert.True(t, eval.MarginalRate.IsZero(), "Zero base should have a 0% marginal rate")
	assert.Equal(t, -1, eval.RowIndex, "Zero base should not match any row")
}

func TestEvaluateBracket_KnownValues(t *testing.T) {
	tests := []struct {
		name         string
		base         decimal.Decimal
		expectedTax  decimal.Decimal
		expectedRate string
		expectedRow  int
	}{
		{"exempt bracket", utas(8), decimal.Zero, "0", 0},
		{"4% bracket", decimal.NewFromInt(20000000), decimal.NewFromInt(349640), "0.04", 1},
		{"8% bracket at 40 UTA", utas(40), utas(3.2).Sub(utas(1.74)), "0.08", 2},
		{"30.4% bracket at 100 UTA", utas(100), utas(30.4).Sub(utas(17.8)), "0.304", 5},
		{"top bracket", utas(400), utas(160).Sub(utas(38.82)), "0.4", 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eval := EvaluateBracket(tc.base, testUTA, domain.DefaultBrackets2026())
			assert.True(t, tc.expectedTax.Equal(eval.Amount), "expected %s, got %s", tc.expectedTax, eval.Amount)
			assert.Equal(t, tc.expectedRate, eval.MarginalRate.String())
			assert.Equal(t, tc.expectedRow, eval.RowIndex)
		})
	}
}

func TestEvaluateBracket_BoundaryIsInclusiveUpper(t *testing.T) {
	table := domain.DefaultBrackets2026()

	for i := 0; i < len(table)-1; i++ {
		boundary := table[i].UpperUTA
		base := boundary.Mul(testUTA)

		eval := EvaluateBracket(base, testUTA, table)
		assert.Equal(t, i, eval.RowIndex, "base at %s UTA should stay in the row it closes", boundary)
		assert.True(t, table[i].Rate.Equal(eval.MarginalRate))

		above := EvaluateBracket(base.Add(decimal.NewFromInt(1)), testUTA, table)
		assert.Equal(t, i+1, above.RowIndex, "one peso above %s UTA should open the next row", boundary)
	}
}

func TestEvaluateBracket_NeverNegative(t *testing.T) {
	// A deduction larger than base*rate must floor to zero
	table := domain.BracketTable{
		{LowerUTA: decimal.Zero, UpperUTA: domain.BracketSentinelUTA, Rate: decimal.NewFromFloat(0.1), DeductionUTA: decimal.NewFromInt(5)},
	}
	eval := EvaluateBracket(utas(10), testUTA, table)
	assert.True(t, eval.Amount.IsZero())
	assert.Equal(t, "0.1", eval.MarginalRate.String())

	for _, units := range []float64{0, 0.5, 13.5, 29.99, 90, 310, 5000} {
		eval := EvaluateBracket(utas(units), testUTA, domain.DefaultBrackets2026())
		assert.False(t, eval.Amount.IsNegative(), "tax at %v UTA must not be negative", units)
	}
}

func TestEvaluateBracket_Monotonic(t *testing.T) {
	table := domain.DefaultBrackets2026()
	previous := decimal.Zero
	step := decimal.NewFromInt(250000)

	for base := decimal.Zero; base.LessThan(utas(400)); base = base.Add(step) {
		eval := EvaluateBracket(base, testUTA, table)
		require.True(t, eval.Amount.GreaterThanOrEqual(previous),
			"tax decreased at base %s: %s < %s", base, eval.Amount, previous)
		previous = eval.Amount
	}
}

func TestEvaluateBracket_ContinuousAtBoundaries(t *testing.T) {
	table := domain.DefaultBrackets2026()
	for i := 0; i < len(table)-1; i++ {
		b := table[i].UpperUTA
		below := b.Mul(table[i].Rate).Sub(table[i].DeductionUTA)
		above := b.Mul(table[i+1].Rate).Sub(table[i+1].DeductionUTA)
		assert.True(t, below.Equal(above), "tax jumps at %s UTA: %s vs %s", b, below, above)
	}
}

func TestTaxCalculator_PresumedSalaryCredit(t *testing.T) {
	tc := NewTaxCalculator(domain.DefaultBrackets2026(), testUTA)

	assert.True(t, tc.PresumedSalaryCredit(decimal.Zero).IsZero())
	assert.True(t, decimal.NewFromInt(349640).Equal(tc.PresumedSalaryCredit(decimal.NewFromInt(20000000))))

	tax, rate := tc.Tax(decimal.NewFromInt(20000000))
	assert.True(t, decimal.NewFromInt(349640).Equal(tax))
	assert.Equal(t, "0.04", rate.String())
}
