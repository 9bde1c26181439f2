package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseQuantityFallsBackToOne(t *testing.T) {
	cases := []string{"", "  ", "abc", "1.2.3", "-4", "0"}
	for _, in := range cases {
		got := ParseQuantity(in)
		assert.True(t, got.Equal(decimal.NewFromInt(1)), "input %q -> %s", in, got)
	}

	assert.True(t, ParseQuantity("2.5").Equal(decimal.RequireFromString("2.5")))
}

func TestParseRateFallsBackToZero(t *testing.T) {
	cases := []string{"", "x", "-10"}
	for _, in := range cases {
		got := ParseRate(in)
		assert.True(t, got.IsZero(), "input %q -> %s", in, got)
	}

	assert.True(t, ParseRate("499.99").Equal(decimal.RequireFromString("499.99")))
}

func TestParseTaxRateClampsRange(t *testing.T) {
	assert.True(t, ParseTaxRate("18").Equal(decimal.NewFromInt(18)))
	assert.True(t, ParseTaxRate("101").IsZero())
	assert.True(t, ParseTaxRate("-5").IsZero())
	assert.True(t, ParseTaxRate("garbage").IsZero())
}

func TestParsedNumberOrDefault(t *testing.T) {
	fallback := decimal.NewFromInt(7)

	assert.True(t, ParseNumber("bad").OrDefault(fallback).Equal(fallback))
	assert.False(t, ParseNumber("bad").Valid())

	parsed := ParseNumber("3.14")
	assert.True(t, parsed.Valid())
	assert.True(t, parsed.OrDefault(fallback).Equal(decimal.RequireFromString("3.14")))
}
