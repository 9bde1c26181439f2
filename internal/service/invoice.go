package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/domain/invoice"
	"github.com/ledgerbook/ledgerbook/internal/domain/render"
	ierr "github.com/ledgerbook/ledgerbook/internal/errors"
	"github.com/ledgerbook/ledgerbook/internal/logger"
	"github.com/ledgerbook/ledgerbook/internal/pdf"
	"github.com/ledgerbook/ledgerbook/internal/share"
	"github.com/ledgerbook/ledgerbook/internal/types"
)

// InvoiceService is the computation engine behind the billing screen. It is
// stateless and cheap, O(line items) per call, because it runs on every
// edit of a quantity, rate or tax field.
type InvoiceService interface {
	// ComputeTotals aggregates per-line amounts and per-line tax. It never
	// rejects its input: zero items simply produce zero totals, and the
	// document-level guard against empty submissions lives in
	// Document.Validate, not here.
	ComputeTotals(items []invoice.LineItem, amountReceived decimal.Decimal) invoice.Totals

	// AmountToWords converts the integer rupee part of amount into English
	// words, Indian convention. Amounts of one lakh and above fall back to
	// an Indian-grouped digit string instead of word expansion.
	AmountToWords(amount decimal.Decimal) string

	// BuildExportDocument flattens a document plus its totals into the
	// model the rendering and export paths consume
	BuildExportDocument(doc *invoice.Document, totals invoice.Totals) *render.Document

	// ExportPDF renders the document to a single-page A4 PDF and returns
	// the bytes along with the artifact file name
	ExportPDF(ctx context.Context, doc *invoice.Document) ([]byte, string, error)

	// ShareMessage composes the plain-text message used by the share flow
	ShareMessage(doc *invoice.Document, totals invoice.Totals) string

	// ShareInvoice exports the document and then opens the share deep
	// link. The export always completes first; the share flow assumes the
	// file already exists.
	ShareInvoice(ctx context.Context, doc *invoice.Document) (string, error)
}

type invoiceService struct {
	pdfGen pdf.Generator
	opener share.Opener
	logger *logger.Logger
}

// NewInvoiceService creates the invoice engine. The opener may be nil when
// the share flow is not wired, for example in print-only surfaces.
func NewInvoiceService(pdfGen pdf.Generator, opener share.Opener, log *logger.Logger) InvoiceService {
	return &invoiceService{
		pdfGen: pdfGen,
		opener: opener,
		logger: log,
	}
}

func (s *invoiceService) ComputeTotals(items []invoice.LineItem, amountReceived decimal.Decimal) invoice.Totals {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero

	// each line's tax is computed on that line's own pre-tax amount; rates
	// differ per line so no shared rate can be factored out
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
		taxTotal = taxTotal.Add(item.Tax())
	}

	grandTotal := subtotal.Add(taxTotal)

	return invoice.Totals{
		Subtotal:       subtotal,
		TaxTotal:       taxTotal,
		GrandTotal:     grandTotal,
		AmountReceived: amountReceived,
		// may be negative on overpayment; that is a signed balance, not an error
		BalanceDue: grandTotal.Sub(amountReceived),
	}
}

func (s *invoiceService) BuildExportDocument(doc *invoice.Document, totals invoice.Totals) *render.Document {
	rows := lo.Map(doc.Items, func(item invoice.LineItem, i int) render.LineItemRow {
		row := render.LineItemRow{
			Index:          i + 1,
			Description:    item.Description,
			Quantity:       item.Quantity.String(),
			UnitRate:       item.UnitRate.StringFixed(2),
			TaxRatePercent: item.TaxRatePercent.String(),
			Amount:         item.Amount().StringFixed(2),
		}
		if doc.Settings.ShowClassificationCode {
			row.ClassificationCode = item.ClassificationCode
		}
		return row
	})

	return &render.Document{
		DocumentNumber: doc.DocumentNumber,
		IssueDate:      render.CustomTime{Time: doc.IssueDate},
		DueDate:        render.CustomTime{Time: doc.DueDate},
		Issuer: render.PartyInfo{
			Name:    doc.Issuer.Name,
			Address: doc.Issuer.Address,
			Contact: doc.Issuer.Contact,
			TaxID:   doc.Issuer.TaxID,
			Logo:    doc.Issuer.LogoImage,
		},
		Recipient: render.PartyInfo{
			Name:    doc.Recipient.Name,
			Address: doc.Recipient.Address,
			Contact: doc.Recipient.Contact,
			TaxID:   doc.Recipient.TaxID,
		},
		CurrencyCode:           doc.Settings.CurrencyCode,
		CurrencySymbol:         types.GetCurrencySymbol(doc.Settings.CurrencyCode),
		ShowClassificationCode: doc.Settings.ShowClassificationCode,
		ShowSignatureBlock:     doc.Settings.ShowSignatureBlock,
		TermsText:              doc.Settings.TermsText,
		LineItems:              rows,
		Subtotal:               totals.Subtotal.StringFixed(2),
		TaxTotal:               totals.TaxTotal.StringFixed(2),
		GrandTotal:             totals.GrandTotal.StringFixed(2),
		AmountReceived:         totals.AmountReceived.StringFixed(2),
		BalanceDue:             totals.BalanceDue.StringFixed(2),
		AmountInWords:          s.AmountToWords(totals.GrandTotal),
		FileName:               fmt.Sprintf("Invoice-%s.pdf", doc.DocumentNumber),
	}
}

func (s *invoiceService) ExportPDF(ctx context.Context, doc *invoice.Document) ([]byte, string, error) {
	if err := doc.Validate(); err != nil {
		return nil, "", err
	}

	totals := s.ComputeTotals(doc.Items, doc.AmountReceived)
	data := s.BuildExportDocument(doc, totals)

	bytes, err := s.pdfGen.RenderInvoicePdf(ctx, data)
	if err != nil {
		s.logger.Errorw("failed to render invoice pdf",
			"error", err,
			"document_number", doc.DocumentNumber,
		)
		return nil, "", err
	}

	return bytes, data.FileName, nil
}

func (s *invoiceService) ShareMessage(doc *invoice.Document, totals invoice.Totals) string {
	symbol := types.GetCurrencySymbol(doc.Settings.CurrencyCode)
	return fmt.Sprintf(
		"Hi %s, your invoice %s is ready. Amount: %s%s. Due by %s. Thank you, %s.",
		doc.Recipient.Name,
		doc.DocumentNumber,
		symbol,
		totals.GrandTotal.StringFixed(2),
		doc.DueDate.Format("02 Jan 2006"),
		doc.Issuer.Name,
	)
}

func (s *invoiceService) ShareInvoice(ctx context.Context, doc *invoice.Document) (string, error) {
	if s.opener == nil {
		return "", ierr.NewError("no share opener configured").
			WithHint("Sharing is not available on this surface").
			Mark(ierr.ErrInvalidOperation)
	}

	// the share link points at an exported file, so the export must have
	// completed before the link is opened
	if _, _, err := s.ExportPDF(ctx, doc); err != nil {
		return "", err
	}

	totals := s.ComputeTotals(doc.Items, doc.AmountReceived)
	message := s.ShareMessage(doc, totals)

	link := share.MessageLink(doc.Recipient.Contact, message)
	if err := s.opener.Open(ctx, link); err != nil {
		return "", err
	}

	return message, nil
}
