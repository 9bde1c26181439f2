package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedNumber is the result of parsing free-form numeric input at the UI
// boundary. The engine only ever receives valid decimals; the fallback
// behavior for bad input lives here, not inside the totals math.
type ParsedNumber struct {
	value decimal.Decimal
	valid bool
}

// ParseNumber parses s into a decimal, flagging empty or malformed input
func ParseNumber(s string) ParsedNumber {
	s = strings.TrimSpace(s)
	if s == "" {
		return ParsedNumber{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ParsedNumber{}
	}
	return ParsedNumber{value: d, valid: true}
}

func (p ParsedNumber) Valid() bool {
	return p.valid
}

// OrDefault returns the parsed value, or fallback when the input was invalid
func (p ParsedNumber) OrDefault(fallback decimal.Decimal) decimal.Decimal {
	if !p.valid {
		return fallback
	}
	return p.value
}

// ParseQuantity applies the quantity fallback: empty, malformed or
// non-positive input becomes 1.
func ParseQuantity(s string) decimal.Decimal {
	p := ParseNumber(s)
	if !p.valid || !p.value.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return p.value
}

// ParseRate applies the rate fallback: empty, malformed or negative input
// becomes 0.
func ParseRate(s string) decimal.Decimal {
	p := ParseNumber(s)
	if !p.valid || p.value.IsNegative() {
		return decimal.Zero
	}
	return p.value
}

// ParseTaxRate parses a tax percentage, falling back to 0 outside [0, 100]
func ParseTaxRate(s string) decimal.Decimal {
	p := ParseNumber(s)
	if !p.valid || p.value.IsNegative() || p.value.GreaterThan(hundred) {
		return decimal.Zero
	}
	return p.value
}

// ParseAmountReceived parses a received amount, falling back to 0
func ParseAmountReceived(s string) decimal.Decimal {
	return ParseRate(s)
}
