package domain

import (
	"context"
	"errors"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/pagination"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrNotDraft        = errors.New("invoice_not_draft")
	ErrNotSendable     = errors.New("invoice_not_sendable")
	ErrNotPayable      = errors.New("invoice_not_payable")
	ErrNoLines         = errors.New("invoice_has_no_lines")
	ErrMissingCustomer = errors.New("missing_customer")
	ErrInvalidLine     = errors.New("invalid_invoice_line")
	ErrNoRecipient     = errors.New("missing_recipient_email")
)

type LineRequest struct {
	ProductID   *string  `json:"productId,omitempty"`
	Description string   `json:"description"`
	Quantity    int64    `json:"quantity"`
	UnitGross   int64    `json:"unitGross"`
	VatRate     *float64 `json:"vatRate,omitempty"`
	VatHandling *string  `json:"vatHandling,omitempty"`
}

type CreateRequest struct {
	ContactID     *string        `json:"contactId,omitempty"`
	CustomerName  *string        `json:"customerName,omitempty"`
	CustomerEmail *string        `json:"customerEmail,omitempty"`
	IssuedAt      *time.Time     `json:"issuedAt,omitempty"`
	DueAt         *time.Time     `json:"dueAt,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Lines         []LineRequest  `json:"lines"`
}

type UpdateRequest struct {
	ContactID     *string        `json:"contactId,omitempty"`
	CustomerName  *string        `json:"customerName,omitempty"`
	CustomerEmail *string        `json:"customerEmail,omitempty"`
	IssuedAt      *time.Time     `json:"issuedAt,omitempty"`
	DueAt         *time.Time     `json:"dueAt,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Lines         []LineRequest  `json:"lines,omitempty"`
}

type ListRequest struct {
	Status    string
	ContactID *string
	From      *time.Time
	To        *time.Time
	PageToken string
	PageSize  int
}

type ListResponse struct {
	pagination.PageInfo
	Invoices []*Invoice `json:"invoices"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Invoice, error)
	Delete(ctx context.Context, id string) error

	// Approve assigns the invoice number and reference, posts income
	// entries for service lines and stock consumption for goods lines.
	// Only DRAFT invoices can be approved.
	Approve(ctx context.Context, id string) (*Invoice, error)
	// Send emails the invoice PDF to the customer. APPROVED -> SENT.
	Send(ctx context.Context, id string) (*Invoice, error)
	// MarkPaid closes the invoice. APPROVED|SENT -> PAID.
	MarkPaid(ctx context.Context, id string, paidAt *time.Time) (*Invoice, error)
	// PDF renders the invoice document.
	PDF(ctx context.Context, id string) ([]byte, error)
}
