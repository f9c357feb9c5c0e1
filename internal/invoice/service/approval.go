package service

import (
	"context"
	"fmt"
	"time"

	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	invoicedomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/domain"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/email"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/pdf"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Approve assigns the next invoice number and its payment reference, then
// posts the financial side of the invoice in the same transaction: every
// service line becomes an income entry with a receipt PDF, every goods
// line becomes negative stock consumption. A second Approve on the same
// invoice fails with ErrNotDraft.
func (s *Service) Approve(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current invoicedomain.Invoice
		if err := tx.Preload("Lines").First(&current, "id = ?", invoice.ID).Error; err != nil {
			return err
		}
		if current.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrNotDraft
		}
		if len(current.Lines) == 0 {
			return invoicedomain.ErrNoLines
		}

		number, err := s.repo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}
		reference, err := invoicedomain.ReferenceNumber(number)
		if err != nil {
			return err
		}

		now := time.Now()
		current.Status = invoicedomain.InvoiceStatusApproved
		current.InvoiceNumber = &number
		current.ReferenceNumber = &reference
		if current.IssuedAt == nil {
			current.IssuedAt = &now
		}

		customerName, _, err := s.customerBlock(ctx, &current)
		if err != nil {
			return err
		}

		for i, line := range current.Lines {
			product, err := s.lineProduct(ctx, line)
			if err != nil {
				return err
			}
			if product != nil && product.Kind == productdomain.KindGoods {
				if err := s.consumeStock(ctx, tx, &current, line, now); err != nil {
					return err
				}
				continue
			}
			if err := s.postIncome(ctx, tx, &current, line, i+1, customerName, now); err != nil {
				return err
			}
		}

		if err := s.repo.Save(ctx, tx, &current); err != nil {
			return err
		}
		*invoice = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice approved",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64p("invoice_number", invoice.InvoiceNumber))
	return invoice, nil
}

// Send renders the invoice PDF and emails it to the customer. A SENT
// invoice can be sent again.
func (s *Service) Send(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != invoicedomain.InvoiceStatusApproved && invoice.Status != invoicedomain.InvoiceStatusSent {
		return nil, invoicedomain.ErrNotSendable
	}

	to, err := s.recipient(ctx, invoice)
	if err != nil {
		return nil, err
	}
	doc, err := s.buildInvoiceDoc(ctx, invoice)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.RenderInvoice(ctx, doc)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Lasku %d", *invoice.InvoiceNumber)
	body := fmt.Sprintf("<p>Hei,</p><p>liitteenä lasku %d. Viitenumero maksaessa: %s.</p>",
		*invoice.InvoiceNumber, *invoice.ReferenceNumber)
	attachment := email.Attachment{
		Filename:    fmt.Sprintf("lasku-%d.pdf", *invoice.InvoiceNumber),
		ContentType: "application/pdf",
		Data:        data,
	}
	if err := s.email.Send(ctx, []string{to}, subject, body, attachment); err != nil {
		s.log.Error("send invoice email failed", zap.Error(err))
		return nil, err
	}

	if invoice.Status == invoicedomain.InvoiceStatusApproved {
		invoice.Status = invoicedomain.InvoiceStatusSent
		if err := s.repo.Save(ctx, nil, invoice); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string, paidAt *time.Time) (*invoicedomain.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != invoicedomain.InvoiceStatusApproved && invoice.Status != invoicedomain.InvoiceStatusSent {
		return nil, invoicedomain.ErrNotPayable
	}

	when := time.Now()
	if paidAt != nil {
		when = *paidAt
	}
	invoice.Status = invoicedomain.InvoiceStatusPaid
	invoice.PaidAt = &when

	if err := s.repo.Save(ctx, nil, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) lineProduct(ctx context.Context, line invoicedomain.InvoiceLine) (*productdomain.Product, error) {
	if line.ProductID == nil {
		return nil, nil
	}
	return s.products.GetByID(ctx, line.ProductID.String())
}

func (s *Service) consumeStock(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice, line invoicedomain.InvoiceLine, now time.Time) error {
	usage := &stockdomain.ProductUsage{
		ID:         s.genID.Generate(),
		ProductID:  *line.ProductID,
		InvoiceID:  &invoice.ID,
		Quantity:   -line.Quantity,
		OccurredAt: now,
	}
	return tx.WithContext(ctx).Create(usage).Error
}

// postIncome writes the income entry for a service line and stores its
// receipt PDF. The receipt file outlives a rolled-back transaction, which
// is harmless: nothing references it.
func (s *Service) postIncome(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice, line invoicedomain.InvoiceLine, seq int, customerName string, now time.Time) error {
	receiptNumber := fmt.Sprintf("%d-%d", *invoice.InvoiceNumber, seq)
	receipt := pdf.ReceiptDoc{
		ReceiptNumber: receiptNumber,
		Date:          formatDate(now),
		Description:   line.Description,
		CustomerName:  customerName,
		Net:           pdf.FormatEuros(line.NetAmount),
		Vat:           pdf.FormatEuros(line.VatAmount),
		VatRate:       formatRate(line.VatRate),
		Gross:         pdf.FormatEuros(line.GrossAmount),
	}
	data, err := s.pdf.RenderReceipt(ctx, receipt)
	if err != nil {
		return err
	}
	receiptURL, err := s.storage.Save("receipts", "pdf", data)
	if err != nil {
		return err
	}

	entry := &entrydomain.BookkeepingEntry{
		ID:          s.genID.Generate(),
		Type:        entrydomain.EntryIncome,
		Date:        now,
		ContactID:   invoice.ContactID,
		InvoiceID:   &invoice.ID,
		Description: fmt.Sprintf("Lasku %d: %s", *invoice.InvoiceNumber, line.Description),
		GrossAmount: line.GrossAmount,
		NetAmount:   line.NetAmount,
		VatAmount:   line.VatAmount,
		VatRate:     line.VatRate,
		VatHandling: line.VatHandling,
		ReceiptURL:  &receiptURL,
	}
	return tx.WithContext(ctx).Create(entry).Error
}
