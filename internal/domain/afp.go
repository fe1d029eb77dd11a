package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AFPCommissions maps pension fund managers to their commission percentage
var AFPCommissions = map[string]decimal.Decimal{
	"modelo":    decimal.NewFromFloat(0.58),
	"uno":       decimal.NewFromFloat(0.49),
	"habitat":   decimal.NewFromFloat(1.27),
	"cuprum":    decimal.NewFromFloat(1.44),
	"provida":   decimal.NewFromFloat(1.45),
	"capital":   decimal.NewFromFloat(1.44),
	"planvital": decimal.NewFromFloat(1.16),
}

// LookupAFPCommission resolves a manager name, ignoring case and spaces
func LookupAFPCommission(name string) (decimal.Decimal, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	pct, ok := AFPCommissions[key]
	return pct, ok
}

// AFPNames returns the known manager names in sorted order
func AFPNames() []string {
	names := make([]string, 0, len(AFPCommissions))
	for n := range AFPCommissions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultEntityTaxRatePct is the corporate rate a regime implies when none is given
func DefaultEntityTaxRatePct(regime EntityRegime) decimal.Decimal {
	if regime == SemiIntegratedRegime {
		return decimal.NewFromInt(27)
	}
	return decimal.NewFromFloat(12.5)
}

// EntityTaxRateOrDefault reads a zero rate as "not given" and substitutes the
// regime's rate
func EntityTaxRateOrDefault(regime EntityRegime, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return DefaultEntityTaxRatePct(regime)
	}
	return pct
}
