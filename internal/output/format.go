package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatPesos renders whole pesos with '.' as the thousands separator,
// e.g. 1418745.6 -> "$1.418.746" and -411254.4 -> "-$411.254"
func FormatPesos(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().String()

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if rounded.IsNegative() {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// FormatSignedPesos prefixes non-negative amounts with '+'
func FormatSignedPesos(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return FormatPesos(amount)
	}
	return "+" + FormatPesos(amount)
}

// FormatRate renders a fractional rate as a percentage, dropping the
// decimal when the percentage is whole: 0.04 -> "4%", 0.304 -> "30.4%"
func FormatRate(rate decimal.Decimal) string {
	return FormatPercent(rate.Mul(hundred))
}

// FormatPercent renders a value already expressed in percent
func FormatPercent(pct decimal.Decimal) string {
	return pct.String() + "%"
}

// BandLabel names the marginal-rate band of a settlement
func BandLabel(marginalRate decimal.Decimal) string {
	if marginalRate.IsZero() {
		return "EXEMPT BRACKET (0%)"
	}
	return "BRACKET " + FormatRate(marginalRate)
}

// OutcomeLabel says whether the balance is owed or refunded
func OutcomeLabel(r *domain.SettlementResult) string {
	if r.IsRefund() {
		return "REFUND DUE"
	}
	return "AMOUNT PAYABLE"
}

// WithholdingNarrative explains how fee withholding was netted against the
// social-security debt
func WithholdingNarrative(in domain.TaxInputs, r *domain.SettlementResult) string {
	if !in.FullWithholding {
		return fmt.Sprintf("*Your withholding (%s) was not applied to your social security (%s).",
			FormatPesos(r.GrossFeeWithholding), FormatPesos(r.SocialSecurityDebt))
	}
	return fmt.Sprintf("*Your withholding (%s) paid your social security (%s) and left %s.",
		FormatPesos(r.GrossFeeWithholding), FormatPesos(r.SocialSecurityDebt),
		FormatPesos(r.CreditBreakdown.NetLiquidWithholding))
}
