package render

import (
	"encoding/json"
	"time"
)

// Document is the flat, fully-formatted model handed to the PDF renderer
// and the print path. Both consume the same structure so their output
// stays visually identical; all amounts arrive pre-formatted as strings.
type Document struct {
	DocumentNumber string     `json:"document_number"`
	IssueDate      CustomTime `json:"issue_date"`
	DueDate        CustomTime `json:"due_date"`

	Issuer    PartyInfo `json:"issuer"`
	Recipient PartyInfo `json:"recipient"`

	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`

	// Presentation flags carried over from the document settings.
	// LineItems only carry classification codes when the flag is set, so
	// renderers can key the extra column off either signal.
	ShowClassificationCode bool   `json:"show_classification_code"`
	ShowSignatureBlock     bool   `json:"show_signature_block"`
	TermsText              string `json:"terms_text,omitempty"`

	LineItems []LineItemRow `json:"line_items"`

	Subtotal       string `json:"subtotal"`
	TaxTotal       string `json:"tax_total"`
	GrandTotal     string `json:"grand_total"`
	AmountReceived string `json:"amount_received"`
	BalanceDue     string `json:"balance_due"`
	AmountInWords  string `json:"amount_in_words"`

	// FileName is the export artifact name, Invoice-{number}.pdf
	FileName string `json:"file_name"`
}

// PartyInfo contains issuer or recipient details for rendering
type PartyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
	Logo    []byte `json:"-"`
}

// LineItemRow is one row of the rendered items table
type LineItemRow struct {
	Index              int    `json:"index"`
	Description        string `json:"description"`
	ClassificationCode string `json:"classification_code,omitempty"`
	Quantity           string `json:"quantity"`
	UnitRate           string `json:"unit_rate"`
	TaxRatePercent     string `json:"tax_rate_percent"`
	Amount             string `json:"amount"`
}

type CustomTime struct {
	time.Time
}

func (ct CustomTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ct.Format("2006-01-02"))
}
