// Package domain contains the posted-transaction models. Net and VAT are
// derived from the gross amount and VAT class at write time and are never
// updated independently of that relationship.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidType    = errors.New("invalid_entry_type")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrMissingAccount = errors.New("missing_account_or_category")
)

// EntryType marks a transaction as income or expense.
type EntryType string

const (
	EntryIncome  EntryType = "tulo"
	EntryExpense EntryType = "meno"
)

// BookkeepingEntry is a posted financial transaction.
type BookkeepingEntry struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	Type        EntryType     `json:"type" gorm:"type:text;not null;index"`
	Date        time.Time     `json:"date" gorm:"not null;index"`
	AccountID   *snowflake.ID `json:"accountId,omitempty" gorm:"index"`
	CategoryID  *snowflake.ID `json:"categoryId,omitempty" gorm:"index"`
	ContactID   *snowflake.ID `json:"contactId,omitempty" gorm:"index"`
	InvoiceID   *snowflake.ID `json:"invoiceId,omitempty" gorm:"index"`
	Description string        `json:"description" gorm:"type:text"`
	GrossAmount int64         `json:"grossAmount" gorm:"not null"`
	NetAmount   int64         `json:"netAmount" gorm:"not null"`
	VatAmount   int64         `json:"vatAmount" gorm:"not null"`
	VatRate     float64       `json:"vatRate" gorm:"not null;default:0"`
	VatHandling string        `json:"vatHandling" gorm:"type:text;not null"`
	ReceiptURL  *string       `json:"receiptUrl,omitempty" gorm:"type:text"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BookkeepingEntry) TableName() string { return "bookkeeping_entries" }

func (t EntryType) Valid() bool {
	return t == EntryIncome || t == EntryExpense
}

type CreateRequest struct {
	Type        string     `json:"type"`
	Date        *time.Time `json:"date,omitempty"`
	AccountID   *string    `json:"accountId,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	ContactID   *string    `json:"contactId,omitempty"`
	InvoiceID   *string    `json:"invoiceId,omitempty"`
	Description string     `json:"description"`
	GrossAmount int64      `json:"grossAmount"`
	VatRate     float64    `json:"vatRate"`
	VatHandling string     `json:"vatHandling"`
	ReceiptURL  *string    `json:"receiptUrl,omitempty"`

	// ProductID with QuantityUsed records stock consumption alongside the
	// entry, for supplies bought and used outside invoicing.
	ProductID    *string `json:"productId,omitempty"`
	QuantityUsed int64   `json:"quantityUsed,omitempty"`
}

type UpdateRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Description *string    `json:"description,omitempty"`
	GrossAmount *int64     `json:"grossAmount,omitempty"`
	VatRate     *float64   `json:"vatRate,omitempty"`
	VatHandling *string    `json:"vatHandling,omitempty"`
	ReceiptURL  *string    `json:"receiptUrl,omitempty"`
}

type ListRequest struct {
	Type      string
	AccountID *snowflake.ID
	From      *time.Time
	To        *time.Time
}

// TypeSum is per-type aggregation used by the period report.
type TypeSum struct {
	Type  EntryType `json:"type"`
	Net   int64     `json:"net"`
	VAT   int64     `json:"vat"`
	Gross int64     `json:"gross"`
	Count int64     `json:"count"`
}

// RateSum is per-VAT-rate aggregation used by the VAT report.
type RateSum struct {
	VatRate float64 `json:"vatRate"`
	Net     int64   `json:"net"`
	VAT     int64   `json:"vat"`
	Gross   int64   `json:"gross"`
	Count   int64   `json:"count"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]BookkeepingEntry, error)
	GetByID(ctx context.Context, id string) (*BookkeepingEntry, error)
	Create(ctx context.Context, req CreateRequest) (*BookkeepingEntry, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*BookkeepingEntry, error)
	Delete(ctx context.Context, id string) error
}

type Repository interface {
	Find(ctx context.Context, filter ListRequest) ([]BookkeepingEntry, error)
	FindByID(ctx context.Context, id snowflake.ID) (*BookkeepingEntry, error)
	Create(ctx context.Context, entry *BookkeepingEntry) error
	Update(ctx context.Context, entry *BookkeepingEntry) error
	Delete(ctx context.Context, id snowflake.ID) error
	SumByType(ctx context.Context, from, to time.Time) ([]TypeSum, error)
	SumByRate(ctx context.Context, from, to time.Time) ([]RateSum, error)
}
