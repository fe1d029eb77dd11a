package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const autoCreditKeyword = "auto"

// CreditSource is either computed by the engine (Auto) or supplied by the
// taxpayer (Manual). The zero value is Auto.
type CreditSource struct {
	manual bool
	amount decimal.Decimal
}

// AutoCredit returns a source whose value the engine derives
func AutoCredit() CreditSource {
	return CreditSource{}
}

// ManualCredit returns a source fixed at amount
func ManualCredit(amount decimal.Decimal) CreditSource {
	return CreditSource{manual: true, amount: amount}
}

// IsManual reports whether the amount was supplied by the taxpayer
func (c CreditSource) IsManual() bool {
	return c.manual
}

// ManualAmount returns the supplied amount; ok is false for Auto
func (c CreditSource) ManualAmount() (decimal.Decimal, bool) {
	if !c.manual {
		return decimal.Zero, false
	}
	return c.amount, true
}

// Resolve returns the manual amount, or calls auto to compute it
func (c CreditSource) Resolve(auto func() decimal.Decimal) decimal.Decimal {
	if c.manual {
		return c.amount
	}
	return auto()
}

func (c CreditSource) String() string {
	if !c.manual {
		return autoCreditKeyword
	}
	return c.amount.String()
}

// UnmarshalYAML accepts either the keyword "auto" or a numeric amount
func (c *CreditSource) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("credit source must be %q or an amount, got a %s", autoCreditKeyword, nodeKindName(value.Kind))
	}
	return c.parse(value.Value)
}

// MarshalYAML writes "auto" or the manual amount as a plain number
func (c CreditSource) MarshalYAML() (interface{}, error) {
	if !c.manual {
		return autoCreditKeyword, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: c.amount.String()}, nil
}

// MarshalJSON writes "auto" or the manual amount as a JSON string
func (c CreditSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON mirrors UnmarshalYAML
func (c *CreditSource) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = AutoCredit()
		return nil
	case string:
		return c.parse(v)
	case float64:
		*c = ManualCredit(decimal.NewFromFloat(v))
		return nil
	default:
		return fmt.Errorf("credit source must be %q or an amount", autoCreditKeyword)
	}
}

func (c *CreditSource) parse(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, autoCreditKeyword) {
		*c = AutoCredit()
		return nil
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid credit amount %q: %w", raw, err)
	}
	*c = ManualCredit(amount)
	return nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "scalar"
}
