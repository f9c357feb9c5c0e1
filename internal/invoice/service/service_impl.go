package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	contactdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact/domain"
	invoicedomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/domain"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/email"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/pdf"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/storage"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	DB         *gorm.DB
	Config     config.Config
	Repository invoicedomain.Repository
	Products   productdomain.Service
	Contacts   contactdomain.Service
	PDF        pdf.Provider
	Email      email.Provider
	Storage    storage.Provider
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	db       *gorm.DB
	cfg      config.Config
	repo     invoicedomain.Repository
	products productdomain.Service
	contacts contactdomain.Service
	pdf      pdf.Provider
	email    email.Provider
	storage  storage.Provider
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		db:       p.DB,
		cfg:      p.Config,
		repo:     p.Repository,
		products: p.Products,
		contacts: p.Contacts,
		pdf:      p.PDF,
		email:    p.Email,
		storage:  p.Storage,
	}
}

const defaultPageSize = 50

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) (invoicedomain.ListResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 250 {
		pageSize = defaultPageSize
	}
	req.PageSize = pageSize

	invoices, err := s.repo.Find(ctx, req)
	if err != nil {
		return invoicedomain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(invoices, pageSize, func(inv *invoicedomain.Invoice) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        inv.ID.String(),
			CreatedAt: inv.CreatedAt.Format(time.RFC3339),
		})
		return token
	})
	if pageInfo.HasMore && len(invoices) > pageSize {
		invoices = invoices[:pageSize]
	}

	return invoicedomain.ListResponse{PageInfo: *pageInfo, Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, invoicedomain.ErrNotFound
	}
	invoice, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, error) {
	contactID, err := s.resolveContact(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if contactID == nil && (req.CustomerName == nil || strings.TrimSpace(*req.CustomerName) == "") {
		return nil, invoicedomain.ErrMissingCustomer
	}

	invoice := &invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		Status:        invoicedomain.InvoiceStatusDraft,
		ContactID:     contactID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		IssuedAt:      req.IssuedAt,
		DueAt:         req.DueAt,
		Notes:         req.Notes,
	}
	if req.Metadata != nil {
		invoice.Metadata = datatypes.JSONMap(req.Metadata)
	}

	lines, totals, err := s.buildLines(ctx, invoice.ID, req.Lines)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines
	invoice.TotalNet = totals.Net
	invoice.TotalVat = totals.VAT
	invoice.TotalGross = totals.Gross

	if err := s.repo.Create(ctx, invoice); err != nil {
		s.log.Error("create invoice failed", zap.Error(err))
		return nil, err
	}
	return invoice, nil
}

func (s *Service) Update(ctx context.Context, id string, req invoicedomain.UpdateRequest) (*invoicedomain.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != invoicedomain.InvoiceStatusDraft {
		return nil, invoicedomain.ErrNotDraft
	}

	if req.ContactID != nil {
		contactID, err := s.resolveContact(ctx, req.ContactID)
		if err != nil {
			return nil, err
		}
		invoice.ContactID = contactID
	}
	if req.CustomerName != nil {
		invoice.CustomerName = req.CustomerName
	}
	if req.CustomerEmail != nil {
		invoice.CustomerEmail = req.CustomerEmail
	}
	if req.IssuedAt != nil {
		invoice.IssuedAt = req.IssuedAt
	}
	if req.DueAt != nil {
		invoice.DueAt = req.DueAt
	}
	if req.Notes != nil {
		invoice.Notes = req.Notes
	}
	if req.Metadata != nil {
		invoice.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if req.Lines != nil {
		lines, totals, err := s.buildLines(ctx, invoice.ID, req.Lines)
		if err != nil {
			return nil, err
		}
		invoice.TotalNet = totals.Net
		invoice.TotalVat = totals.VAT
		invoice.TotalGross = totals.Gross
		if err := s.repo.ReplaceLines(ctx, invoice, lines); err != nil {
			return nil, err
		}
		return invoice, nil
	}

	if err := s.repo.Save(ctx, nil, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != invoicedomain.InvoiceStatusDraft {
		return invoicedomain.ErrNotDraft
	}
	return s.repo.Delete(ctx, invoice.ID)
}

func (s *Service) PDF(ctx context.Context, id string) ([]byte, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.buildInvoiceDoc(ctx, invoice)
	if err != nil {
		return nil, err
	}
	return s.pdf.RenderInvoice(ctx, doc)
}

func (s *Service) resolveContact(ctx context.Context, id *string) (*snowflake.ID, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	contact, err := s.contacts.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	return &contact.ID, nil
}

// buildLines derives the stored amounts for each requested line and the
// invoice totals. Missing VAT fields fall back to the line's product.
func (s *Service) buildLines(ctx context.Context, invoiceID snowflake.ID, reqs []invoicedomain.LineRequest) ([]invoicedomain.InvoiceLine, vat.Breakdown, error) {
	lines := make([]invoicedomain.InvoiceLine, 0, len(reqs))
	var totals vat.Breakdown

	for _, req := range reqs {
		if req.Quantity <= 0 {
			return nil, vat.Breakdown{}, invoicedomain.ErrInvalidLine
		}

		var product *productdomain.Product
		var productID *snowflake.ID
		if req.ProductID != nil && *req.ProductID != "" {
			found, err := s.products.GetByID(ctx, *req.ProductID)
			if err != nil {
				return nil, vat.Breakdown{}, err
			}
			product = found
			productID = &found.ID
		}

		line := invoicedomain.InvoiceLine{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			ProductID:   productID,
			Description: strings.TrimSpace(req.Description),
			Quantity:    req.Quantity,
			UnitGross:   req.UnitGross,
			VatHandling: vat.HandlingDomestic,
		}
		if product != nil {
			if line.Description == "" {
				line.Description = product.Name
			}
			line.VatRate = product.VatRate
			line.VatHandling = product.VatHandling
			if line.UnitGross == 0 {
				line.UnitGross = productGrossPrice(product)
			}
		}
		if req.VatRate != nil {
			line.VatRate = *req.VatRate
		}
		if req.VatHandling != nil {
			line.VatHandling = *req.VatHandling
		}
		if line.Description == "" || line.UnitGross <= 0 {
			return nil, vat.Breakdown{}, invoicedomain.ErrInvalidLine
		}

		class, err := vat.Classify(line.VatHandling, line.VatRate)
		if err != nil {
			return nil, vat.Breakdown{}, err
		}
		breakdown := vat.FromGross(class, line.Quantity*line.UnitGross)
		line.NetAmount = breakdown.Net
		line.VatAmount = breakdown.VAT
		line.GrossAmount = breakdown.Gross

		totals = totals.Add(breakdown)
		lines = append(lines, line)
	}

	return lines, totals, nil
}

func productGrossPrice(product *productdomain.Product) int64 {
	class, err := vat.Classify(product.VatHandling, product.VatRate)
	if err != nil {
		return product.PriceCents
	}
	if product.VatIncluded {
		return product.PriceCents
	}
	return vat.FromNet(class, product.PriceCents).Gross
}

func (s *Service) buildInvoiceDoc(ctx context.Context, invoice *invoicedomain.Invoice) (pdf.InvoiceDoc, error) {
	doc := pdf.InvoiceDoc{
		SellerName:    s.cfg.SellerName,
		SellerDetails: s.cfg.SellerDetails,
		TotalNet:      pdf.FormatEuros(invoice.TotalNet),
		TotalVat:      pdf.FormatEuros(invoice.TotalVat),
		TotalGross:    pdf.FormatEuros(invoice.TotalGross),
	}
	if invoice.InvoiceNumber != nil {
		doc.InvoiceNumber = fmt.Sprintf("%d", *invoice.InvoiceNumber)
	}
	if invoice.ReferenceNumber != nil {
		doc.ReferenceNumber = *invoice.ReferenceNumber
	}
	if invoice.IssuedAt != nil {
		doc.IssueDate = invoice.IssuedAt.Format("02.01.2006")
	}
	if invoice.DueAt != nil {
		doc.DueDate = invoice.DueAt.Format("02.01.2006")
	}
	if invoice.Notes != nil {
		doc.Notes = *invoice.Notes
	}

	name, details, err := s.customerBlock(ctx, invoice)
	if err != nil {
		return pdf.InvoiceDoc{}, err
	}
	doc.CustomerName = name
	doc.CustomerDetails = details

	for _, line := range invoice.Lines {
		doc.Lines = append(doc.Lines, pdf.LineDoc{
			Description: line.Description,
			Quantity:    fmt.Sprintf("%d", line.Quantity),
			UnitPrice:   pdf.FormatEuros(line.UnitGross),
			VatRate:     formatRate(line.VatRate),
			Amount:      pdf.FormatEuros(line.GrossAmount),
		})
	}
	return doc, nil
}

// customerBlock resolves the printable customer name and address. The
// linked contact wins over the free-text fields.
func (s *Service) customerBlock(ctx context.Context, invoice *invoicedomain.Invoice) (string, string, error) {
	if invoice.ContactID != nil {
		contact, err := s.contacts.GetByID(ctx, invoice.ContactID.String())
		if err != nil {
			return "", "", err
		}
		var parts []string
		if contact.Address != nil {
			parts = append(parts, *contact.Address)
		}
		if contact.PostalCode != nil || contact.City != nil {
			row := strings.TrimSpace(deref(contact.PostalCode) + " " + deref(contact.City))
			if row != "" {
				parts = append(parts, row)
			}
		}
		if contact.BusinessID != nil {
			parts = append(parts, "Y-tunnus "+*contact.BusinessID)
		}
		return contact.Name, strings.Join(parts, "\n"), nil
	}
	name := deref(invoice.CustomerName)
	return name, deref(invoice.CustomerEmail), nil
}

// recipient resolves the email address Send delivers to.
func (s *Service) recipient(ctx context.Context, invoice *invoicedomain.Invoice) (string, error) {
	if invoice.CustomerEmail != nil && strings.TrimSpace(*invoice.CustomerEmail) != "" {
		return strings.TrimSpace(*invoice.CustomerEmail), nil
	}
	if invoice.ContactID != nil {
		contact, err := s.contacts.GetByID(ctx, invoice.ContactID.String())
		if err != nil {
			return "", err
		}
		if contact.Email != nil && strings.TrimSpace(*contact.Email) != "" {
			return strings.TrimSpace(*contact.Email), nil
		}
	}
	return "", invoicedomain.ErrNoRecipient
}

func formatRate(rate float64) string {
	formatted := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", rate), "0"), ".")
	if formatted == "" {
		formatted = "0"
	}
	return formatted + " %"
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
