// Package pdf renders invoice, receipt and report documents with maroto.
package pdf

import (
	"context"
	"fmt"
)

// InvoiceDoc carries the preformatted fields of an invoice document.
type InvoiceDoc struct {
	InvoiceNumber   string
	ReferenceNumber string
	IssueDate       string
	DueDate         string

	SellerName    string
	SellerDetails string

	CustomerName    string
	CustomerDetails string

	Lines []LineDoc

	TotalNet   string
	TotalVat   string
	TotalGross string

	Notes string
}

// LineDoc is one invoice or report table row.
type LineDoc struct {
	Description string
	Quantity    string
	UnitPrice   string
	VatRate     string
	Amount      string
}

// ReceiptDoc is the income receipt generated per service line at approval.
type ReceiptDoc struct {
	ReceiptNumber string
	Date          string
	Description   string
	CustomerName  string
	Net           string
	Vat           string
	VatRate       string
	Gross         string
}

// ReportDoc is a generic tabular report document.
type ReportDoc struct {
	Title    string
	Period   string
	Columns  []string
	Rows     [][]string
	Totals   []string
	Footnote string
}

type Provider interface {
	RenderInvoice(ctx context.Context, doc InvoiceDoc) ([]byte, error)
	RenderReceipt(ctx context.Context, doc ReceiptDoc) ([]byte, error)
	RenderReport(ctx context.Context, doc ReportDoc) ([]byte, error)
}

// FormatEuros renders cents in the Finnish money format used on documents.
func FormatEuros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d €", sign, cents/100, cents%100)
}
