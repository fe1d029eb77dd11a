package domain

import (
	"github.com/shopspring/decimal"
)

// SweepParameter describes one input varied across a linear range
type SweepParameter struct {
	Name  string          `json:"name"`
	From  decimal.Decimal `json:"from"`
	To    decimal.Decimal `json:"to"`
	Steps int             `json:"steps"`
}

// SweepPoint is the settlement outcome at one parameter value
type SweepPoint struct {
	Value         decimal.Decimal `json:"value"`
	TaxableBase   decimal.Decimal `json:"taxable_base"`
	FinalTax      decimal.Decimal `json:"final_tax"`
	MarginalRate  decimal.Decimal `json:"marginal_rate"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	PocketBalance decimal.Decimal `json:"pocket_balance"`
}

// SweepAnalysis holds every point of a parameter sweep, in ascending order of value
type SweepAnalysis struct {
	Parameter SweepParameter `json:"parameter"`
	Baseline  SweepPoint     `json:"baseline"`
	Points    []SweepPoint   `json:"points"`
}
