package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/domain/render"
	"github.com/ledgerbook/ledgerbook/internal/logger"
)

func sampleDocument() *render.Document {
	issue := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	return &render.Document{
		DocumentNumber: "INV-0042",
		IssueDate:      render.CustomTime{Time: issue},
		DueDate:        render.CustomTime{Time: issue.AddDate(0, 0, 14)},
		Issuer: render.PartyInfo{
			Name:    "Sharma Traders",
			Address: "12 MG Road, Pune",
			TaxID:   "27AAAPL1234C1ZV",
		},
		Recipient: render.PartyInfo{
			Name:    "Mehta Stores",
			Address: "5 FC Road, Pune",
		},
		CurrencyCode:   "inr",
		CurrencySymbol: "₹",
		LineItems: []render.LineItemRow{
			{Index: 1, Description: "Widget", Quantity: "2", UnitRate: "500.00", TaxRatePercent: "18", Amount: "1000.00"},
		},
		Subtotal:       "1000.00",
		TaxTotal:       "180.00",
		GrandTotal:     "1180.00",
		AmountReceived: "0.00",
		BalanceDue:     "1180.00",
		AmountInWords:  "One Thousand One Hundred Eighty Rupees Only",
		FileName:       "Invoice-INV-0042.pdf",
	}
}

func TestRenderInvoicePdf(t *testing.T) {
	gen := NewGenerator(logger.L)

	data, err := gen.RenderInvoicePdf(context.Background(), sampleDocument())

	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInvoicePdfWithAllSections(t *testing.T) {
	gen := NewGenerator(logger.L)

	doc := sampleDocument()
	doc.ShowClassificationCode = true
	doc.ShowSignatureBlock = true
	doc.TermsText = "Payment due within 14 days."
	doc.LineItems[0].ClassificationCode = "8471"

	data, err := gen.RenderInvoicePdf(context.Background(), doc)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderInvoicePdfSkipsUnknownLogoFormat(t *testing.T) {
	gen := NewGenerator(logger.L)

	doc := sampleDocument()
	doc.Issuer.Logo = []byte("definitely not an image")

	data, err := gen.RenderInvoicePdf(context.Background(), doc)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
