package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerbook/ledgerbook/internal/domain/invoice"
	"github.com/ledgerbook/ledgerbook/internal/domain/render"
	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
	"github.com/ledgerbook/ledgerbook/internal/logger"
	"github.com/ledgerbook/ledgerbook/internal/testutil"
)

type InvoiceServiceSuite struct {
	suite.Suite
	service InvoiceService
	pdfGen  *testutil.MockPDFGenerator
	opener  *testutil.MockOpener
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.pdfGen = testutil.NewMockPDFGenerator()
	s.opener = testutil.NewMockOpener()
	s.service = NewInvoiceService(s.pdfGen, s.opener, logger.L)
}

func item(desc string, qty, rate, tax int64) invoice.LineItem {
	return invoice.LineItem{
		ID:             desc,
		Description:    desc,
		Quantity:       decimal.NewFromInt(qty),
		UnitRate:       decimal.NewFromInt(rate),
		TaxRatePercent: decimal.NewFromInt(tax),
	}
}

func (s *InvoiceServiceSuite) testDocument() *invoice.Document {
	doc := invoice.NewDocument(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	doc.DocumentNumber = "INV-0042"
	doc.DueDate = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	doc.Issuer = invoice.Party{
		Name:    "Sharma Traders",
		Address: "12 MG Road, Pune",
		Contact: "+91 98200 00000",
		TaxID:   "27AAAPL1234C1ZV",
	}
	doc.Recipient = invoice.Party{
		Name:    "Mehta Stores",
		Address: "5 FC Road, Pune",
		Contact: "+91 98700 11111",
	}
	doc.Items = []invoice.LineItem{item("Widget", 2, 500, 18)}
	return doc
}

func (s *InvoiceServiceSuite) TestComputeTotals() {
	items := []invoice.LineItem{
		item("Notebooks", 3, 120, 12),
		item("Pens", 10, 15, 18),
		item("Stapler", 1, 250, 0),
	}

	totals := s.service.ComputeTotals(items, decimal.Zero)

	// subtotal 360 + 150 + 250, tax 43.2 + 27 + 0
	s.True(totals.Subtotal.Equal(decimal.NewFromInt(760)), "subtotal %s", totals.Subtotal)
	s.True(totals.TaxTotal.Equal(decimal.RequireFromString("70.2")), "tax %s", totals.TaxTotal)
	s.True(totals.GrandTotal.Equal(totals.Subtotal.Add(totals.TaxTotal)))
	s.True(totals.BalanceDue.Equal(totals.GrandTotal))
}

func (s *InvoiceServiceSuite) TestComputeTotalsPerLineTaxRates() {
	// two lines with the same amount but different rates must not share a rate
	items := []invoice.LineItem{
		item("A", 1, 1000, 5),
		item("B", 1, 1000, 28),
	}

	totals := s.service.ComputeTotals(items, decimal.Zero)

	s.True(totals.TaxTotal.Equal(decimal.NewFromInt(330)), "tax %s", totals.TaxTotal)
}

func (s *InvoiceServiceSuite) TestComputeTotalsEmptyItems() {
	totals := s.service.ComputeTotals(nil, decimal.Zero)

	s.True(totals.Subtotal.IsZero())
	s.True(totals.TaxTotal.IsZero())
	s.True(totals.GrandTotal.IsZero())
}

func (s *InvoiceServiceSuite) TestBalanceDueSign() {
	items := []invoice.LineItem{item("Widget", 2, 500, 18)}

	totals := s.service.ComputeTotals(items, decimal.NewFromInt(1500))

	// overpayment is a signed balance, not an error
	s.True(totals.BalanceDue.Equal(decimal.NewFromInt(-320)), "balance %s", totals.BalanceDue)
}

func (s *InvoiceServiceSuite) TestAmountToWords() {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Zero Rupees Only"},
		{1, "One Rupees Only"},
		{9, "Nine Rupees Only"},
		{10, "Ten Rupees Only"},
		{15, "Fifteen Rupees Only"},
		{20, "Twenty Rupees Only"},
		{42, "Forty Two Rupees Only"},
		{100, "One Hundred Rupees Only"},
		{305, "Three Hundred Five Rupees Only"},
		{1000, "One Thousand Rupees Only"},
		{1234, "One Thousand Two Hundred Thirty Four Rupees Only"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine Rupees Only"},
	}

	for _, tc := range cases {
		got := s.service.AmountToWords(decimal.NewFromInt(tc.amount))
		s.Equal(tc.want, got, "amount %d", tc.amount)
	}
}

func (s *InvoiceServiceSuite) TestAmountToWordsFallbackAboveLimit() {
	// one lakh and above stays digits, not word expansion
	s.Equal("1,00,000 Rupees Only", s.service.AmountToWords(decimal.NewFromInt(100000)))
	s.Equal("25,40,123 Rupees Only", s.service.AmountToWords(decimal.NewFromInt(2540123)))
}

func (s *InvoiceServiceSuite) TestAmountToWordsTruncatesPaise() {
	got := s.service.AmountToWords(decimal.RequireFromString("1180.75"))
	s.Equal("One Thousand One Hundred Eighty Rupees Only", got)
}

func (s *InvoiceServiceSuite) TestEndToEndScenario() {
	items := []invoice.LineItem{item("Widget", 2, 500, 18)}

	totals := s.service.ComputeTotals(items, decimal.Zero)

	s.True(totals.Subtotal.Equal(decimal.NewFromInt(1000)))
	s.True(totals.TaxTotal.Equal(decimal.NewFromInt(180)))
	s.True(totals.GrandTotal.Equal(decimal.NewFromInt(1180)))
	s.True(totals.BalanceDue.Equal(decimal.NewFromInt(1180)))
	s.Equal("One Thousand One Hundred Eighty Rupees Only", s.service.AmountToWords(totals.GrandTotal))
}

func (s *InvoiceServiceSuite) TestBuildExportDocument() {
	doc := s.testDocument()
	doc.Settings.ShowClassificationCode = true
	doc.Settings.ShowSignatureBlock = true
	doc.Items[0].ClassificationCode = "8471"

	totals := s.service.ComputeTotals(doc.Items, decimal.Zero)
	out := s.service.BuildExportDocument(doc, totals)

	s.Equal("INV-0042", out.DocumentNumber)
	s.Equal("Invoice-INV-0042.pdf", out.FileName)
	s.Equal("₹", out.CurrencySymbol)
	s.True(out.ShowClassificationCode)
	s.True(out.ShowSignatureBlock)
	s.Len(out.LineItems, 1)
	s.Equal("8471", out.LineItems[0].ClassificationCode)
	s.Equal("1000.00", out.Subtotal)
	s.Equal("180.00", out.TaxTotal)
	s.Equal("1180.00", out.GrandTotal)
	s.Equal("One Thousand One Hundred Eighty Rupees Only", out.AmountInWords)
}

func (s *InvoiceServiceSuite) TestBuildExportDocumentHidesClassificationCode() {
	doc := s.testDocument()
	doc.Settings.ShowClassificationCode = false
	doc.Items[0].ClassificationCode = "8471"

	out := s.service.BuildExportDocument(doc, s.service.ComputeTotals(doc.Items, decimal.Zero))

	s.False(out.ShowClassificationCode)
	s.Empty(out.LineItems[0].ClassificationCode)
}

func (s *InvoiceServiceSuite) TestExportPDF() {
	doc := s.testDocument()
	s.pdfGen.On("RenderInvoicePdf", mock.Anything, mock.MatchedBy(func(d *render.Document) bool {
		return d.DocumentNumber == "INV-0042"
	})).Return([]byte("pdf bytes"), nil)

	data, filename, err := s.service.ExportPDF(testutil.SetupContext(), doc)

	s.NoError(err)
	s.Equal([]byte("pdf bytes"), data)
	s.Equal("Invoice-INV-0042.pdf", filename)
	s.pdfGen.AssertExpectations(s.T())
}

func (s *InvoiceServiceSuite) TestExportPDFCarriesAmountReceived() {
	doc := s.testDocument()
	doc.AmountReceived = decimal.NewFromInt(500)

	var rendered *render.Document
	s.pdfGen.On("RenderInvoicePdf", mock.Anything, mock.MatchedBy(func(d *render.Document) bool {
		rendered = d
		return true
	})).Return([]byte("pdf"), nil)

	_, _, err := s.service.ExportPDF(testutil.SetupContext(), doc)

	s.NoError(err)
	// the payment recorded on screen must survive into the rendered output
	s.Equal("500.00", rendered.AmountReceived)
	s.Equal("680.00", rendered.BalanceDue)
}

func (s *InvoiceServiceSuite) TestExportPDFRejectsInvalidDocument() {
	doc := s.testDocument()
	doc.Recipient.Name = ""

	_, _, err := s.service.ExportPDF(testutil.SetupContext(), doc)

	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.pdfGen.AssertNotCalled(s.T(), "RenderInvoicePdf", mock.Anything, mock.Anything)
}

func (s *InvoiceServiceSuite) TestShareMessage() {
	doc := s.testDocument()
	totals := s.service.ComputeTotals(doc.Items, decimal.Zero)

	msg := s.service.ShareMessage(doc, totals)

	s.Contains(msg, "Mehta Stores")
	s.Contains(msg, "INV-0042")
	s.Contains(msg, "₹1180.00")
	s.Contains(msg, "15 Apr 2024")
	s.Contains(msg, "Sharma Traders")
}

func (s *InvoiceServiceSuite) TestShareInvoiceExportsBeforeOpening() {
	doc := s.testDocument()
	s.pdfGen.On("RenderInvoicePdf", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)

	msg, err := s.service.ShareInvoice(testutil.SetupContext(), doc)

	s.NoError(err)
	s.Contains(msg, "INV-0042")
	s.Len(s.opener.Links(), 1)
	s.Contains(s.opener.Links()[0], "wa.me")
	s.pdfGen.AssertExpectations(s.T())
}

func (s *InvoiceServiceSuite) TestShareInvoiceStopsWhenExportFails() {
	doc := s.testDocument()
	renderErr := ierr.NewError("render failed").Mark(ierr.ErrSystem)
	s.pdfGen.On("RenderInvoicePdf", mock.Anything, mock.Anything).Return(nil, renderErr)

	_, err := s.service.ShareInvoice(testutil.SetupContext(), doc)

	s.Error(err)
	// the share link assumes the file exists, so nothing may open
	s.Empty(s.opener.Links())
}
