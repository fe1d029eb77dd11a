package transform

import (
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// SetExpenseMethod switches between presumed and actual fee expenses
type SetExpenseMethod struct {
	Method domain.ExpenseMethod
	Amount decimal.Decimal // actual expenses; ignored for presumed
}

func (se *SetExpenseMethod) Name() string {
	return "set_expense_method"
}

func (se *SetExpenseMethod) Description() string {
	if se.Method == domain.ActualExpense {
		return fmt.Sprintf("Deduct actual expenses of %s", se.Amount.StringFixed(0))
	}
	return "Deduct presumed expenses"
}

func (se *SetExpenseMethod) Validate(base domain.TaxInputs) error {
	switch se.Method {
	case domain.PresumedExpense:
	case domain.ActualExpense:
		if se.Amount.IsNegative() {
			return NewTransformError(se.Name(), "validate", "actual expense amount cannot be negative", nil)
		}
	default:
		return NewTransformError(se.Name(), "validate", fmt.Sprintf("unknown expense method %q", se.Method), nil)
	}
	return nil
}

func (se *SetExpenseMethod) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.ExpenseMethod = se.Method
	modified.ActualExpenseAmount = decimal.Zero
	if se.Method == domain.ActualExpense {
		modified.ActualExpenseAmount = se.Amount
	}
	return modified, nil
}

// SetVoluntarySavings changes the voluntary pension savings deposited in the year
type SetVoluntarySavings struct {
	Amount decimal.Decimal
}

func (sv *SetVoluntarySavings) Name() string {
	return "set_voluntary_savings"
}

func (sv *SetVoluntarySavings) Description() string {
	return fmt.Sprintf("Save %s in voluntary pension savings", sv.Amount.StringFixed(0))
}

func (sv *SetVoluntarySavings) Validate(base domain.TaxInputs) error {
	if sv.Amount.IsNegative() {
		return NewTransformError(sv.Name(), "validate", "savings cannot be negative", nil)
	}
	return nil
}

func (sv *SetVoluntarySavings) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.VoluntarySavings = sv.Amount
	return modified, nil
}

// MaxVoluntarySavings deposits exactly the savings cap, valued at the
// taxpayer's own UF
type MaxVoluntarySavings struct {
	CapUF decimal.Decimal
}

func (mv *MaxVoluntarySavings) Name() string {
	return "max_voluntary_savings"
}

func (mv *MaxVoluntarySavings) Description() string {
	return fmt.Sprintf("Save the %s UF voluntary savings cap", mv.CapUF)
}

func (mv *MaxVoluntarySavings) Validate(base domain.TaxInputs) error {
	if !mv.CapUF.IsPositive() {
		return NewTransformError(mv.Name(), "validate", "savings cap must be positive", nil)
	}
	if !base.InflationUnitValue.IsPositive() {
		return NewTransformError(mv.Name(), "validate", "UF value must be positive", nil)
	}
	return nil
}

func (mv *MaxVoluntarySavings) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.VoluntarySavings = mv.CapUF.Mul(base.InflationUnitValue)
	return modified, nil
}

// SetMortgageInterest changes the mortgage interest paid in the year
type SetMortgageInterest struct {
	Amount decimal.Decimal
}

func (sm *SetMortgageInterest) Name() string {
	return "set_mortgage_interest"
}

func (sm *SetMortgageInterest) Description() string {
	return fmt.Sprintf("Pay %s in mortgage interest", sm.Amount.StringFixed(0))
}

func (sm *SetMortgageInterest) Validate(base domain.TaxInputs) error {
	if sm.Amount.IsNegative() {
		return NewTransformError(sm.Name(), "validate", "mortgage interest cannot be negative", nil)
	}
	return nil
}

func (sm *SetMortgageInterest) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.MortgageInterest = sm.Amount
	return modified, nil
}
