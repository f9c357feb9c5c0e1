// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states:
// DRAFT -> APPROVED -> SENT -> PAID.
type InvoiceStatus string

const (
	InvoiceStatusDraft    InvoiceStatus = "DRAFT"
	InvoiceStatusApproved InvoiceStatus = "APPROVED"
	InvoiceStatusSent     InvoiceStatus = "SENT"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
)

// Invoice is a sales invoice. InvoiceNumber and ReferenceNumber are
// assigned exactly once, at approval, from the shared counter.
type Invoice struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	Status          InvoiceStatus     `json:"status" gorm:"type:text;not null;default:'DRAFT'"`
	ContactID       *snowflake.ID     `json:"contactId,omitempty" gorm:"index"`
	CustomerName    *string           `json:"customerName,omitempty" gorm:"type:text"`
	CustomerEmail   *string           `json:"customerEmail,omitempty" gorm:"type:text"`
	InvoiceNumber   *int64            `json:"invoiceNumber,omitempty" gorm:"uniqueIndex:ux_invoices_number"`
	ReferenceNumber *string           `json:"referenceNumber,omitempty" gorm:"type:text"`
	IssuedAt        *time.Time        `json:"issuedAt,omitempty"`
	DueAt           *time.Time        `json:"dueAt,omitempty"`
	PaidAt          *time.Time        `json:"paidAt,omitempty"`
	TotalNet        int64             `json:"totalNet" gorm:"not null;default:0"`
	TotalVat        int64             `json:"totalVat" gorm:"not null;default:0"`
	TotalGross      int64             `json:"totalGross" gorm:"not null;default:0"`
	Notes           *string           `json:"notes,omitempty" gorm:"type:text"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	Lines           []InvoiceLine     `json:"lines" gorm:"foreignKey:InvoiceID"`
	CreatedAt       time.Time         `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one line on an invoice. Amounts are derived through the
// vat package when the line is written.
type InvoiceLine struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	InvoiceID   snowflake.ID  `json:"invoiceId" gorm:"not null;index"`
	ProductID   *snowflake.ID `json:"productId,omitempty" gorm:"index"`
	Description string        `json:"description" gorm:"type:text"`
	Quantity    int64         `json:"quantity" gorm:"not null;default:1"`
	UnitGross   int64         `json:"unitGross" gorm:"not null"` // cents, VAT included
	VatRate     float64       `json:"vatRate" gorm:"not null;default:0"`
	VatHandling string        `json:"vatHandling" gorm:"type:text;not null"`
	NetAmount   int64         `json:"netAmount" gorm:"not null"`
	VatAmount   int64         `json:"vatAmount" gorm:"not null"`
	GrossAmount int64         `json:"grossAmount" gorm:"not null"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }

// CounterSeed is the value the singleton counter row starts from; the
// first approved invoice gets CounterSeed + 1.
const CounterSeed int64 = 103

// InvoiceCounter is the singleton numbering row. It is bumped with a
// single atomic UPDATE so concurrent approvals cannot issue the same
// number.
type InvoiceCounter struct {
	ID    int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

func (InvoiceCounter) TableName() string { return "invoice_counters" }
