package pdf

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ledgerbook/ledgerbook/internal/domain/render"
	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
	"github.com/ledgerbook/ledgerbook/internal/logger"
)

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderInvoicePdf(ctx context.Context, data *render.Document) ([]byte, error)
}

type service struct {
	logger *logger.Logger
}

// NewGenerator creates a new PDF generator backed by gofpdf
func NewGenerator(log *logger.Logger) Generator {
	return &service{
		logger: log,
	}
}

const (
	pageMargin   = 10.0
	contentWidth = 190.0 // A4 width minus margins
	rowHeight    = 7.0
)

// RenderInvoicePdf draws the renderable document onto a single A4 page.
// The layout is driven entirely by the flags and pre-formatted strings in
// data, so print and file export stay visually identical.
func (s *service) RenderInvoicePdf(_ context.Context, data *render.Document) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	// core fonts are cp1252, so amounts carry the ISO currency code
	// instead of symbols like the rupee sign
	cur := strings.ToUpper(data.CurrencyCode)

	s.drawHeader(doc, tr, data)
	s.drawParties(doc, tr, data)
	s.drawItemsTable(doc, tr, data)
	s.drawTotals(doc, tr, data, cur)
	s.drawFooter(doc, tr, data)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate the invoice PDF").
			Mark(ierr.ErrSystem)
	}

	return buf.Bytes(), nil
}

func (s *service) drawHeader(doc *gofpdf.Fpdf, tr func(string) string, data *render.Document) {
	if len(data.Issuer.Logo) > 0 {
		s.placeLogo(doc, data.Issuer.Logo)
	}

	doc.SetFont("Arial", "B", 16)
	doc.Cell(140, 8, tr(data.Issuer.Name))
	doc.Ln(8)

	doc.SetFont("Arial", "", 9)
	for _, line := range []string{data.Issuer.Address, data.Issuer.Contact} {
		if line == "" {
			continue
		}
		doc.Cell(140, 5, tr(line))
		doc.Ln(5)
	}
	if data.Issuer.TaxID != "" {
		doc.Cell(140, 5, tr("GSTIN: "+data.Issuer.TaxID))
		doc.Ln(5)
	}

	doc.Ln(4)
	doc.SetFont("Arial", "B", 13)
	doc.CellFormat(contentWidth, 8, "TAX INVOICE", "", 1, "C", false, 0, "")
	doc.Ln(2)
}

func (s *service) placeLogo(doc *gofpdf.Fpdf, logo []byte) {
	var imageType string
	switch http.DetectContentType(logo) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	default:
		// unsupported logo formats are skipped, not fatal
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	doc.RegisterImageOptionsReader("issuer-logo", opts, bytes.NewReader(logo))
	doc.ImageOptions("issuer-logo", 170, pageMargin, 30, 0, false, opts, 0, "")
}

func (s *service) drawParties(doc *gofpdf.Fpdf, tr func(string) string, data *render.Document) {
	doc.SetFont("Arial", "B", 10)
	doc.Cell(95, 6, "Bill To")
	doc.Cell(95, 6, tr("Invoice No: "+data.DocumentNumber))
	doc.Ln(6)

	doc.SetFont("Arial", "", 9)
	doc.Cell(95, 5, tr(data.Recipient.Name))
	doc.Cell(95, 5, "Issue Date: "+data.IssueDate.Format("02 Jan 2006"))
	doc.Ln(5)
	doc.Cell(95, 5, tr(data.Recipient.Address))
	doc.Cell(95, 5, "Due Date: "+data.DueDate.Format("02 Jan 2006"))
	doc.Ln(5)
	if data.Recipient.TaxID != "" {
		doc.Cell(95, 5, tr("GSTIN: "+data.Recipient.TaxID))
		doc.Ln(5)
	}
	doc.Ln(4)
}

// columnWidths returns the table layout; the classification column only
// exists when the document enables it
func columnWidths(showCode bool) []float64 {
	if showCode {
		return []float64{10, 70, 20, 20, 25, 20, 25}
	}
	return []float64{10, 90, 20, 25, 20, 25}
}

func tableHeaders(showCode bool) []string {
	if showCode {
		return []string{"#", "Description", "HSN/SAC", "Qty", "Rate", "Tax %", "Amount"}
	}
	return []string{"#", "Description", "Qty", "Rate", "Tax %", "Amount"}
}

func (s *service) drawItemsTable(doc *gofpdf.Fpdf, tr func(string) string, data *render.Document) {
	widths := columnWidths(data.ShowClassificationCode)
	headers := tableHeaders(data.ShowClassificationCode)

	doc.SetFont("Arial", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(rowHeight)

	doc.SetFont("Arial", "", 9)
	for _, row := range data.LineItems {
		doc.CellFormat(widths[0], rowHeight, strconv.Itoa(row.Index), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], rowHeight, tr(row.Description), "1", 0, "L", false, 0, "")

		col := 2
		if data.ShowClassificationCode {
			doc.CellFormat(widths[col], rowHeight, tr(row.ClassificationCode), "1", 0, "C", false, 0, "")
			col++
		}
		for i, cell := range []string{row.Quantity, row.UnitRate, row.TaxRatePercent, row.Amount} {
			doc.CellFormat(widths[col+i], rowHeight, cell, "1", 0, "R", false, 0, "")
		}
		doc.Ln(rowHeight)
	}
	doc.Ln(3)
}

func (s *service) drawTotals(doc *gofpdf.Fpdf, tr func(string) string, data *render.Document, cur string) {
	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", data.Subtotal, false},
		{"Tax", data.TaxTotal, false},
		{"Grand Total", data.GrandTotal, true},
		{"Amount Received", data.AmountReceived, false},
		{"Balance Due", data.BalanceDue, true},
	}

	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		doc.SetFont("Arial", style, 10)
		doc.Cell(120, 6, "")
		doc.CellFormat(35, 6, row.label, "", 0, "R", false, 0, "")
		doc.CellFormat(35, 6, cur+" "+row.value, "", 1, "R", false, 0, "")
	}

	doc.Ln(2)
	doc.SetFont("Arial", "B", 9)
	doc.Cell(30, 6, "In Words:")
	doc.SetFont("Arial", "I", 9)
	doc.MultiCell(contentWidth-30, 6, tr(data.AmountInWords), "", "L", false)
	doc.Ln(2)
}

func (s *service) drawFooter(doc *gofpdf.Fpdf, tr func(string) string, data *render.Document) {
	if data.TermsText != "" {
		doc.SetFont("Arial", "B", 9)
		doc.Cell(contentWidth, 5, "Terms & Conditions")
		doc.Ln(5)
		doc.SetFont("Arial", "", 8)
		doc.MultiCell(contentWidth, 4, tr(data.TermsText), "", "L", false)
		doc.Ln(4)
	}

	if data.ShowSignatureBlock {
		doc.Ln(10)
		doc.SetFont("Arial", "", 9)
		doc.CellFormat(contentWidth, 5, tr("For "+data.Issuer.Name), "", 1, "R", false, 0, "")
		doc.Ln(12)
		doc.SetFont("Arial", "B", 9)
		doc.CellFormat(contentWidth, 5, "Authorised Signatory", "", 1, "R", false, 0, "")
	}
}
