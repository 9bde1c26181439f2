package invoice

import (
	"github.com/shopspring/decimal"

	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
	"github.com/ledgerbook/ledgerbook/internal/types"
)

var hundred = decimal.NewFromInt(100)

// LineItem represents a single billed row on an invoice document.
// Amount and tax are derived, never stored, so they can not drift from
// quantity and rate between edits.
type LineItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	// ClassificationCode is the optional tax/category code (HSN/SAC style)
	// shown as an extra column when the document settings enable it
	ClassificationCode string          `json:"classification_code,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitRate           decimal.Decimal `json:"unit_rate"`
	TaxRatePercent     decimal.Decimal `json:"tax_rate_percent"`
}

// NewLineItem returns the default row a fresh document starts with:
// one unit at rate zero, untaxed.
func NewLineItem() LineItem {
	return LineItem{
		ID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		Quantity: decimal.NewFromInt(1),
	}
}

// Amount is the pre-tax line total, quantity times unit rate
func (i LineItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitRate)
}

// Tax is computed on the line's own pre-tax amount; each line carries its
// own rate, so there is no shared aggregate rate to factor out
func (i LineItem) Tax() decimal.Decimal {
	return i.Amount().Mul(i.TaxRatePercent).Div(hundred)
}

// Total is the line amount including its tax
func (i LineItem) Total() decimal.Decimal {
	return i.Amount().Add(i.Tax())
}

func (i LineItem) Validate() error {
	if !i.Quantity.IsPositive() {
		return ierr.NewError("line item quantity must be positive").
			WithHintf("Quantity %s is not valid", i.Quantity).
			Mark(ierr.ErrValidation)
	}
	if i.UnitRate.IsNegative() {
		return ierr.NewError("line item rate must not be negative").
			WithHintf("Rate %s is not valid", i.UnitRate).
			Mark(ierr.ErrValidation)
	}
	if i.TaxRatePercent.IsNegative() || i.TaxRatePercent.GreaterThan(hundred) {
		return ierr.NewError("line item tax rate must be between 0 and 100").
			WithHintf("Tax rate %s is not valid", i.TaxRatePercent).
			Mark(ierr.ErrValidation)
	}
	return nil
}
