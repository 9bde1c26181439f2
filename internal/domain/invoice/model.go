package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
	"github.com/ledgerbook/ledgerbook/internal/types"
)

// Party identifies one side of the document, issuer or recipient
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	TaxID   string `json:"tax_id,omitempty"`
	// LogoImage is raw image bytes, only meaningful on the issuer
	LogoImage []byte `json:"logo_image,omitempty"`
}

// Settings are the per-document presentation switches. They travel with the
// document so the renderer and the export path see the same flags.
type Settings struct {
	CurrencyCode           string `json:"currency_code"`
	ShowClassificationCode bool   `json:"show_classification_code"`
	ShowSignatureBlock     bool   `json:"show_signature_block"`
	TermsText              string `json:"terms_text,omitempty"`
}

// Document is the ephemeral invoice state the engine computes over.
// Items is never empty: documents start with one default row and removing
// the last row is rejected.
type Document struct {
	ID             string     `json:"id"`
	DocumentNumber string     `json:"document_number"`
	IssueDate      time.Time  `json:"issue_date"`
	DueDate        time.Time  `json:"due_date"`
	Issuer         Party      `json:"issuer"`
	Recipient      Party      `json:"recipient"`
	Items          []LineItem `json:"items"`
	Settings       Settings   `json:"settings"`
	// AmountReceived is the payment recorded against this document; the
	// export and share paths read it so their balance matches the screen
	AmountReceived decimal.Decimal `json:"amount_received"`
}

// Totals holds the derived aggregates, recomputed on every item or
// settings change. BalanceDue is signed; a negative value means the
// customer overpaid.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
}

// NewDocument creates a document with a generated number, issue date of
// today and a single default line item.
func NewDocument(now time.Time) *Document {
	return &Document{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		DocumentNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		IssueDate:      now,
		DueDate:        now,
		Items:          []LineItem{NewLineItem()},
		Settings: Settings{
			CurrencyCode: "inr",
		},
	}
}

// AddItem appends a line item, assigning it an id when the caller did not
func (d *Document) AddItem(item LineItem) {
	if item.ID == "" {
		item.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM)
	}
	d.Items = append(d.Items, item)
}

// RemoveItem deletes the row at index. Removing the last remaining row is
// rejected so a document can never hold zero items.
func (d *Document) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return ierr.NewError("line item index out of range").
			WithHintf("No line item at position %d", index).
			Mark(ierr.ErrInvalidOperation)
	}
	if len(d.Items) == 1 {
		return ierr.NewError("cannot remove the last line item").
			WithHint("An invoice needs at least one line item").
			Mark(ierr.ErrInvalidOperation)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

func (d *Document) Validate() error {
	if len(d.Items) == 0 {
		return ierr.NewError("invoice has no line items").
			WithHint("Add at least one line item before submitting").
			Mark(ierr.ErrValidation)
	}
	if d.Recipient.Name == "" {
		return ierr.NewError("recipient name is required").
			WithHint("Select a customer for this invoice").
			Mark(ierr.ErrValidation)
	}
	for _, item := range d.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
