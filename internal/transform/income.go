package transform

import (
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// Income sources SetIncome can change
const (
	SalarySource      = "salary"
	FeesSource        = "fees"
	WithdrawalsSource = "withdrawals"
	OtherSource       = "other"
)

// SetIncome replaces the amount of one income source
type SetIncome struct {
	Source string
	Amount decimal.Decimal
}

func (si *SetIncome) Name() string {
	return "set_income"
}

func (si *SetIncome) Description() string {
	return fmt.Sprintf("Set %s income to %s", si.Source, si.Amount.StringFixed(0))
}

func (si *SetIncome) Validate(base domain.TaxInputs) error {
	switch si.Source {
	case SalarySource, FeesSource, WithdrawalsSource, OtherSource:
	default:
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("unknown income source %q", si.Source), nil)
	}
	if si.Amount.IsNegative() {
		return NewTransformError(si.Name(), "validate", "income cannot be negative", nil)
	}
	return nil
}

func (si *SetIncome) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	switch si.Source {
	case SalarySource:
		modified.SalaryIncome = si.Amount
	case FeesSource:
		modified.GrossFeeIncome = si.Amount
	case WithdrawalsSource:
		modified.Withdrawals = si.Amount
	case OtherSource:
		modified.OtherIncome = si.Amount
	default:
		return base, NewTransformError(si.Name(), "apply", fmt.Sprintf("unknown income source %q", si.Source), nil)
	}
	return modified, nil
}

// SetEntityRegime changes the regime of the company paying withdrawals. A
// zero rate picks the regime's default.
type SetEntityRegime struct {
	Regime  domain.EntityRegime
	RatePct decimal.Decimal
}

func (sr *SetEntityRegime) Name() string {
	return "set_entity_regime"
}

func (sr *SetEntityRegime) Description() string {
	return fmt.Sprintf("Entity in the %s regime at %s%%", sr.Regime, sr.rate())
}

func (sr *SetEntityRegime) rate() decimal.Decimal {
	return domain.EntityTaxRateOrDefault(sr.Regime, sr.RatePct)
}

func (sr *SetEntityRegime) Validate(base domain.TaxInputs) error {
	if sr.Regime != domain.SimplifiedRegime && sr.Regime != domain.SemiIntegratedRegime {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("unknown entity regime %q", sr.Regime), nil)
	}
	if sr.RatePct.IsNegative() || sr.RatePct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("entity tax rate must be at least 0 and below 100, got %s", sr.RatePct), nil)
	}
	return nil
}

func (sr *SetEntityRegime) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.EntityRegime = sr.Regime
	modified.EntityTaxRatePct = sr.rate()
	return modified, nil
}
