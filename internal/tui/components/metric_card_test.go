package components

import (
	"testing"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMetricCard_Render(t *testing.T) {
	card := NewMetricCard("Taxable base", "$6.981.254").
		WithNote("EXEMPT BRACKET (0%)").
		WithWidth(34)

	out := card.Render()
	assert.Contains(t, out, "Taxable base")
	assert.Contains(t, out, "$6.981.254")
	assert.Contains(t, out, "EXEMPT BRACKET (0%)")
	assert.Equal(t, NoOutcome, card.Outcome)
	assert.Equal(t, 34, card.Width)

	assert.Contains(t, card.RenderCompact(), "Taxable base:")
}

func TestNewBalanceCard(t *testing.T) {
	tests := []struct {
		name    string
		pocket  decimal.Decimal
		outcome Outcome
		caption string
		value   string
	}{
		{"refund", decimal.NewFromFloat(-411254.4), Refund, "REFUND DUE", "$411.254"},
		{"zero balance is a refund", decimal.Zero, Refund, "REFUND DUE", "$0"},
		{"payable", decimal.NewFromInt(182364), Payable, "AMOUNT PAYABLE", "$182.364"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			card := NewBalanceCard(&domain.SettlementResult{PocketBalance: tc.pocket})
			assert.Equal(t, tc.outcome, card.Outcome)
			assert.Equal(t, tc.caption, card.Caption)
			assert.Equal(t, tc.value, card.Value, "the amount is shown unsigned")

			out := card.Render()
			assert.Contains(t, out, tc.caption)
			assert.Contains(t, out, tc.value)
			assert.NotContains(t, out, "-$")

			compact := card.RenderCompact()
			assert.Contains(t, compact, tc.caption+":")
			assert.NotContains(t, compact, "Balance:")
		})
	}
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 3))

	grid := MetricGrid([]*MetricCard{
		NewMetricCard("A", "1"),
		NewMetricCard("B", "2"),
		NewMetricCard("C", "3"),
	}, 2)
	assert.Contains(t, grid, "A")
	assert.Contains(t, grid, "C")

	assert.Contains(t, MetricGrid([]*MetricCard{NewMetricCard("Solo", "1")}, 0), "Solo")
}
