package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var currencyPrefixes = []string{"₹", "rs.", "rs", "inr"}

// ParseAmount converts user-entered text to a decimal. Grouping commas,
// underscores, spaces and a leading rupee marker are ignored. Anything that
// still fails to parse is treated as zero.
func ParseAmount(s string) decimal.Decimal {
	v, err := ParseAmountStrict(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// ParseAmountStrict is ParseAmount but reports malformed input. Blank input
// is zero.
func ParseAmountStrict(s string) (decimal.Decimal, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(n, p) {
			n = strings.TrimSpace(strings.TrimPrefix(n, p))
			break
		}
	}
	n = strings.NewReplacer(",", "", "_", "", " ", "").Replace(n)
	if n == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(n)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// Amount is a lenient money field: blank or malformed values decode to zero
// instead of failing the whole document.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps an integer rupee amount.
func NewAmount(v int64) Amount { return Amount{decimal.NewFromInt(v)} }

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = ParseAmount(node.Value)
	return nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		a.Decimal = ParseAmount(s)
		return nil
	}
	a.Decimal = ParseAmount(string(data))
	return nil
}
